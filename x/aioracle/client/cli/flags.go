package cli

// Flag constants for aioracle CLI commands
const (
	// FlagOutput selects text or json output.
	FlagOutput = "output"

	OutputText = "text"
	OutputJSON = "json"

	// EnvPrefix prefixes environment overrides, e.g. AIORACLE_OUTPUT=json.
	EnvPrefix = "AIORACLE"
)
