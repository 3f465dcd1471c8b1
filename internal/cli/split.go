// split.go implements the "yolosplit split" command.
//
// Orchestration steps:
//  1. Resolve the configuration (defaults, --config file, flags)
//  2. Create the four destination directories
//  3. Copy the train manifest's pairs into images/train and labels/train
//  4. Copy the test manifest's pairs into images/val and labels/val
//  5. Print the confirmation line and counts (text) or a report (JSON)
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/yolosplit/internal/config"
	"github.com/shinji-kodama/yolosplit/internal/dataset"
	"github.com/shinji-kodama/yolosplit/internal/model"
)

// pathFlags holds the config overrides shared by split and config.
type pathFlags struct {
	dataDir       string // --data
	trainManifest string // --train
	valManifest   string // --val
	outputDir     string // --out
	keepGoing     bool   // --keep-going
	dataYAML      bool   // --data-yaml
}

// splitFlags holds the flag values for the split command.
type splitFlags struct {
	pathFlags
	dryRun bool // --dry-run
}

// addPathFlags registers the config override flags on cmd. Defaults are the
// built-in config values; a flag only overrides the config file when it is
// set explicitly.
func addPathFlags(cmd *cobra.Command, flags *pathFlags) {
	def := config.Default()
	cmd.Flags().StringVar(&flags.dataDir, "data", def.DataDir, "Source directory holding <id>.jpg and <id>.txt")
	cmd.Flags().StringVar(&flags.trainManifest, "train", def.TrainManifest, "Manifest for the train split")
	cmd.Flags().StringVar(&flags.valManifest, "val", def.ValManifest, "Manifest for the val split")
	cmd.Flags().StringVar(&flags.outputDir, "out", def.OutputDir, "Root of the YOLO output tree")
	cmd.Flags().BoolVar(&flags.keepGoing, "keep-going", false, "Record copy failures and continue instead of aborting")
	cmd.Flags().BoolVar(&flags.dataYAML, "data-yaml", false, "Write a data.yaml dataset descriptor into the output tree")
}

// NewSplitCommand creates the "split" cobra command.
func NewSplitCommand() *cobra.Command {
	flags := &splitFlags{}

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Copy manifest-listed pairs into the train/val tree",
		Long: `Copy every image/label pair listed in the train and val manifests into the
YOLO directory tree. With no flags the historical layout is used:
data/ as source, train.txt and test.txt as manifests, dataset_yolo/ as output.

Examples:
  yolosplit split
  yolosplit split --data raw --out build/yolo
  yolosplit split --config split.yaml --keep-going
  yolosplit split --dry-run --json`,

		// All inputs come from flags or the config file.
		Args: cobra.NoArgs,

		// RunE is used instead of Run so errors reach the exit-code
		// handling in Execute.
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &flags.pathFlags)
			if err != nil {
				return err
			}
			return runSplit(cmd.Context(), cmd.OutOrStdout(), cfg, flags.dryRun)
		},
	}

	// Register command-specific flags.
	addPathFlags(cmd, &flags.pathFlags)
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Report what would be copied without writing anything")

	return cmd
}

// resolveConfig layers defaults, the --config file, and explicitly set flags.
func resolveConfig(cmd *cobra.Command, flags *pathFlags) (config.Config, error) {
	// Step 1: Built-in defaults, replaced by the config file when given.
	// Load itself starts from the defaults, so missing keys keep them.
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
		VerboseLog("Loaded config file: %s", configPath)
	}

	// Step 2: Only flags the user actually set override the file.
	// Changed distinguishes "--out dataset_yolo" from the flag default.
	changed := cmd.Flags().Changed
	if changed("data") {
		cfg.DataDir = flags.dataDir
	}
	if changed("train") {
		cfg.TrainManifest = flags.trainManifest
	}
	if changed("val") {
		cfg.ValManifest = flags.valManifest
	}
	if changed("out") {
		cfg.OutputDir = flags.outputDir
	}
	if changed("keep-going") {
		cfg.KeepGoing = flags.keepGoing
	}
	if changed("data-yaml") {
		cfg.DataYAML.Enabled = flags.dataYAML
	}

	// Step 3: Validate the merged result, since flags can introduce
	// values the file check never saw.
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// runSplit executes a full split and prints the result to out.
// In text mode, diagnostics and the confirmation line stream to out as
// they happen; in JSON mode a single report is printed at the end.
func runSplit(ctx context.Context, out io.Writer, cfg config.Config, dryRun bool) error {
	VerboseLog("Source directory: %s", cfg.DataDir)
	VerboseLog("Manifests: train=%s val=%s", cfg.TrainManifest, cfg.ValManifest)
	VerboseLog("Output tree: %s", cfg.OutputDir)

	// In JSON mode stdout must hold only the final document, so the
	// per-pair diagnostics and confirmation line are dropped.
	console := out
	if IsJSONOutput() {
		console = io.Discard
	}

	splitter := dataset.New(cfg,
		dataset.WithOutput(console),
		dataset.WithLogger(logger),
		dataset.WithDryRun(dryRun),
	)

	// Run prints diagnostics and the confirmation line as it goes.
	report, err := splitter.Run(ctx)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		printSplitResultJSON(out, report)
	}
	return nil
}

// splitMissingJSON describes a skipped pair.
type splitMissingJSON struct {
	ID        string `json:"id"`
	ImagePath string `json:"imagePath"`
	LabelPath string `json:"labelPath"`
}

// splitFailureJSON describes a pair whose copy failed in keep-going mode.
type splitFailureJSON struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// splitReportJSON is the per-split section of the JSON output.
type splitReportJSON struct {
	Split    string             `json:"split"`
	Manifest string             `json:"manifest"`
	Copied   int                `json:"copied"`
	Skipped  int                `json:"skipped"`
	Failed   int                `json:"failed"`
	Missing  []splitMissingJSON `json:"missing"`
	Failures []splitFailureJSON `json:"failures"`
}

// splitResultJSON is the top-level JSON output of the split command.
type splitResultJSON struct {
	DryRun  bool              `json:"dryRun"`
	Copied  int               `json:"copied"`
	Skipped int               `json:"skipped"`
	Failed  int               `json:"failed"`
	Splits  []splitReportJSON `json:"splits"`
}

// buildSplitResultJSON converts a report into its JSON shape. Slices are
// never nil so the output shows [] instead of null.
func buildSplitResultJSON(report *model.Report) splitResultJSON {
	copied, skipped, failed := report.Totals()
	result := splitResultJSON{
		DryRun:  report.DryRun,
		Copied:  copied,
		Skipped: skipped,
		Failed:  failed,
		Splits:  make([]splitReportJSON, 0, len(report.Splits)),
	}

	// One entry per processed split, in processing order.
	for _, sr := range report.Splits {
		entry := splitReportJSON{
			Split:    sr.Split.String(),
			Manifest: sr.Manifest,
			Copied:   sr.Copied,
			Skipped:  sr.Skipped,
			Failed:   sr.Failed,
			Missing:  make([]splitMissingJSON, 0, len(sr.Missing)),
			Failures: make([]splitFailureJSON, 0, len(sr.Failures)),
		}
		for _, m := range sr.Missing {
			entry.Missing = append(entry.Missing, splitMissingJSON{
				ID:        string(m.ID),
				ImagePath: m.ImagePath,
				LabelPath: m.LabelPath,
			})
		}
		for _, f := range sr.Failures {
			entry.Failures = append(entry.Failures, splitFailureJSON{
				ID:    string(f.ID),
				Error: f.Error(),
			})
		}
		result.Splits = append(result.Splits, entry)
	}
	return result
}

// printSplitResultJSON writes the report as indented JSON.
func printSplitResultJSON(out io.Writer, report *model.Report) {
	// MarshalIndent cannot fail on these plain structs.
	data, _ := json.MarshalIndent(buildSplitResultJSON(report), "", "  ")
	fmt.Fprintln(out, string(data))
}
