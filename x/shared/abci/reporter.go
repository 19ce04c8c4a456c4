// Package abci reports problems found while running end blockers. Blockers
// must not halt the chain, so issues are logged and emitted as events
// instead of being returned.
package abci

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// EventTypeBlockerIssue is emitted for every reported issue.
const EventTypeBlockerIssue = "blocker_issue"

// Severity classifies how much operator attention an issue needs.
type Severity int

const (
	// SeverityLow covers informational drift, e.g. a stale gauge.
	SeverityLow Severity = iota
	// SeverityMedium covers degraded service that still accepts commands.
	SeverityMedium
	// SeverityHigh covers conditions that make commands fail.
	SeverityHigh
	// SeverityCritical covers unreadable or inconsistent state.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Reporter logs and emits blocker issues for one module.
type Reporter struct {
	module string
}

// NewReporter creates a reporter scoped to module.
func NewReporter(module string) Reporter {
	return Reporter{module: module}
}

// Module returns the module the reporter is scoped to.
func (r Reporter) Module() string {
	return r.module
}

// Report logs err at a level matching severity and emits a blocker_issue
// event. A nil err is ignored.
func (r Reporter) Report(ctx sdk.Context, check string, severity Severity, err error) {
	if err == nil {
		return
	}

	logger := ctx.Logger().With("module", r.module, "check", check, "severity", severity.String())
	switch severity {
	case SeverityCritical, SeverityHigh:
		logger.Error("end blocker check failed", "error", err.Error())
	case SeverityMedium:
		logger.Warn("end blocker check degraded", "error", err.Error())
	default:
		logger.Debug("end blocker check noted", "error", err.Error())
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypeBlockerIssue,
			sdk.NewAttribute("module", r.module),
			sdk.NewAttribute("check", check),
			sdk.NewAttribute("severity", severity.String()),
			sdk.NewAttribute("error", err.Error()),
			sdk.NewAttribute("height", strconv.FormatInt(ctx.BlockHeight(), 10)),
		),
	)
}

// Check reports err and returns true when it is non-nil, for use in if
// statements:
//
//	if reporter.Check(ctx, "load_config", abci.SeverityCritical, err) {
//	    return nil
//	}
func (r Reporter) Check(ctx sdk.Context, check string, severity Severity, err error) bool {
	if err == nil {
		return false
	}
	r.Report(ctx, check, severity, err)
	return true
}
