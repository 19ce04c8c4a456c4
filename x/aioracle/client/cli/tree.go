package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paw-chain/aioracle/pkg/merkle"
	"github.com/paw-chain/aioracle/x/aioracle/types"
)

// NewTreeCmd returns the offline tooling used to commit executor reports:
// it builds the stage merkle tree, prints proofs and checks them.
func NewTreeCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:                        "aioracle-tree",
		Short:                      "Build and check AI oracle report merkle trees",
		SuggestionsMinimumDistance: 2,
		SilenceUsage:               true,
		RunE:                       client.ValidateCmd,
	}
	cmd.PersistentFlags().String(FlagOutput, OutputText, "Output format (text|json)")
	_ = v.BindPFlag(FlagOutput, cmd.PersistentFlags().Lookup(FlagOutput))

	cmd.AddCommand(
		GetCmdRoot(v),
		GetCmdProof(v),
		GetCmdVerify(v),
	)
	return cmd
}

// GetCmdRoot returns the command printing the merkle root of a report file
func GetCmdRoot(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "root [reports-file]",
		Short: "Compute the merkle root of a JSON array of reports",
		Long: `Compute the merkle root to register for a stage.

Each report is re-encoded to its canonical leaf bytes before hashing.

Example:
  $ aioracle-tree root reports.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			leaves, err := loadLeaves(args[0])
			if err != nil {
				return err
			}
			tree, err := merkle.NewTree(leaves)
			if err != nil {
				return err
			}
			root := tree.RootHex()
			return printOutput(cmd, v, root, map[string]any{
				"root":   root,
				"leaves": len(leaves),
			})
		},
	}
}

// GetCmdProof returns the command printing the proof of one report
func GetCmdProof(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "proof [reports-file] [index]",
		Short: "Print the canonical leaf and the proof of one report",
		Long: `Print the leaf bytes and the sibling hashes a claimant submits for the
report at index (zero-based).

Example:
  $ aioracle-tree proof reports.json 2 --output json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := cast.ToIntE(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}
			leaves, err := loadLeaves(args[0])
			if err != nil {
				return err
			}
			tree, err := merkle.NewTree(leaves)
			if err != nil {
				return err
			}
			proof, err := tree.Proof(index)
			if err != nil {
				return err
			}
			encoded := merkle.EncodeProof(proof)
			return printOutput(cmd, v, strings.Join(encoded, "\n"), map[string]any{
				"index": index,
				"leaf":  string(leaves[index]),
				"root":  tree.RootHex(),
				"proof": encoded,
			})
		},
	}
}

// GetCmdVerify returns the command checking a leaf against a root
func GetCmdVerify(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [root] [leaf-file] [proof...]",
		Short: "Check that the bytes of leaf-file fold to root through proof",
		Long: `Check a claim offline. The leaf file is hashed byte for byte.

Example:
  $ aioracle-tree verify 8f43...e1 leaf.json 1a2b...ff 9c8d...01`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			leaf, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read leaf: %w", err)
			}
			root, err := types.NormalizeMerkleRoot(args[0])
			if err != nil {
				return err
			}
			ok, err := merkle.VerifyHex(root, leaf, args[2:])
			if err != nil {
				return err
			}
			return printOutput(cmd, v, cast.ToString(ok), map[string]any{
				"verified": ok,
			})
		},
	}
}

// loadLeaves reads a JSON array of reports and returns their canonical leaves.
func loadLeaves(path string) ([][]byte, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reports: %w", err)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(bz, &raw); err != nil {
		return nil, fmt.Errorf("reports file must hold a JSON array: %w", err)
	}

	leaves := make([][]byte, 0, len(raw))
	for i, r := range raw {
		var report types.Report
		if err := types.ModuleCdc.UnmarshalJSON(r, &report); err != nil {
			return nil, fmt.Errorf("report %d: %w", i, err)
		}
		if err := report.Validate(); err != nil {
			return nil, fmt.Errorf("report %d: %w", i, err)
		}
		leaf, err := report.Leaf()
		if err != nil {
			return nil, fmt.Errorf("report %d: %w", i, err)
		}
		leaves = append(leaves, leaf)
	}
	return leaves, nil
}

func printOutput(cmd *cobra.Command, v *viper.Viper, text string, obj any) error {
	switch format := v.GetString(FlagOutput); format {
	case OutputJSON:
		bz, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	case OutputText, "":
		fmt.Fprintln(cmd.OutOrStdout(), text)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}
