package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/yolosplit/internal/config"
	"github.com/shinji-kodama/yolosplit/internal/model"
)

// NewConfigCommand creates the "config" cobra command, which prints the
// configuration a split would run with.
func NewConfigCommand() *cobra.Command {
	flags := &pathFlags{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after applying the --config file and flags.
The YAML output can be saved and passed back with --config.

Examples:
  yolosplit config > split.yaml
  yolosplit config --config split.jsonc --out build/yolo`,

		// Args rejects positional arguments.
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			return printConfig(cmd.OutOrStdout(), cfg)
		},
	}

	// The same override flags as split, so the printed config matches
	// what "split" would run with the same arguments.
	addPathFlags(cmd, flags)
	return cmd
}

// printConfig writes cfg as YAML, or as JSON with --json.
func printConfig(out io.Writer, cfg config.Config) error {
	if IsJSONOutput() {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to serialize config", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	data, err := cfg.Marshal()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to serialize config", err)
	}
	_, _ = out.Write(data)
	return nil
}
