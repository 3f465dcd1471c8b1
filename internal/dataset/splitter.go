package dataset

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/shinji-kodama/yolosplit/internal/config"
	"github.com/shinji-kodama/yolosplit/internal/manifest"
	"github.com/shinji-kodama/yolosplit/internal/model"
)

// ConfirmationMessage is printed once both splits have been processed,
// regardless of how many pairs were actually copied. The summary line that
// follows it carries the real counts.
const ConfirmationMessage = "Archivos copiados exitosamente."

// Splitter copies manifest-listed image/label pairs into a Layout.
type Splitter struct {
	cfg    config.Config
	layout Layout
	out    io.Writer
	logger *zap.Logger
	dryRun bool
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithOutput sets where console diagnostics and the confirmation line go.
func WithOutput(w io.Writer) Option {
	return func(s *Splitter) { s.out = w }
}

// WithLogger sets the structured logger for per-pair debug records.
func WithLogger(l *zap.Logger) Option {
	return func(s *Splitter) { s.logger = l }
}

// WithDryRun makes the splitter report what it would do without touching
// the filesystem.
func WithDryRun(dryRun bool) Option {
	return func(s *Splitter) { s.dryRun = dryRun }
}

// New creates a Splitter for cfg. Output defaults to io.Discard and the
// logger to a no-op logger.
func New(cfg config.Config, opts ...Option) *Splitter {
	s := &Splitter{
		cfg:    cfg,
		layout: NewLayout(cfg.OutputDir),
		out:    io.Discard,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SourcePair returns the expected source image and label paths for id.
func (s *Splitter) SourcePair(id model.SampleID) model.SourcePair {
	return model.SourcePair{
		ID:        id,
		ImagePath: filepath.Join(s.cfg.DataDir, string(id)+s.cfg.ImageExt),
		LabelPath: filepath.Join(s.cfg.DataDir, string(id)+s.cfg.LabelExt),
	}
}

// PrepareOutputTree creates the four split directories. It is a no-op in
// dry-run mode.
func (s *Splitter) PrepareOutputTree() error {
	if s.dryRun {
		s.logger.Debug("dry run: skipping output tree creation", zap.String("root", s.layout.Root))
		return nil
	}
	return s.layout.Prepare()
}

// CopySplit copies every pair listed in the manifest at manifestPath into
// the images and labels directories of split, in manifest order.
//
// A pair with a missing image or label is skipped: a diagnostic naming both
// expected source paths is written to the output and the next identifier is
// processed. An I/O failure while copying a present pair aborts the split
// and is returned as a CLIError with ExitCopyFailed, unless the config has
// KeepGoing set, in which case the failure is recorded in the report.
//
// The destination directories must already exist (see PrepareOutputTree).
// The returned report is valid even when an error is returned.
func (s *Splitter) CopySplit(ctx context.Context, manifestPath string, split model.Split) (model.SplitReport, error) {
	report := model.SplitReport{Split: split, Manifest: manifestPath}

	// The split name becomes a directory under images/ and labels/, so only
	// the known splits are accepted.
	if !split.IsValid() {
		return report, model.NewCLIError(model.ExitGeneralError, fmt.Sprintf("invalid split: %q (valid: train, val)", split))
	}

	// Step 1: Read the manifest. A missing manifest is fatal.
	ids, err := manifest.Read(manifestPath)
	if err != nil {
		return report, err
	}
	s.logger.Debug("manifest loaded",
		zap.String("split", split.String()),
		zap.String("manifest", manifestPath),
		zap.Int("samples", len(ids)))

	imagesDir := s.layout.ImagesDir(split)
	labelsDir := s.layout.LabelsDir(split)

	for _, id := range ids {
		// Cancellation is only observed between pairs; a copy in progress
		// always completes.
		if err := ctx.Err(); err != nil {
			return report, err
		}

		// Step 2: Both source files must exist, otherwise the pair is
		// reported on the console and skipped.
		pair := s.SourcePair(id)
		if !exists(pair.ImagePath) || !exists(pair.LabelPath) {
			missing := model.MissingPair{
				Split:     split,
				ID:        id,
				ImagePath: pair.ImagePath,
				LabelPath: pair.LabelPath,
			}
			report.Skipped++
			report.Missing = append(report.Missing, missing)
			fmt.Fprintln(s.out, missing.String())
			s.logger.Debug("pair missing, skipped",
				zap.String("split", split.String()),
				zap.String("id", string(id)))
			continue
		}

		// Step 3: Destinations keep the identifier as-is. An identifier with
		// a separator points into a subdirectory that PrepareOutputTree never
		// creates, so its copy fails instead of colliding with another sample.
		dstImage := filepath.Join(imagesDir, string(id)+s.cfg.ImageExt)
		dstLabel := filepath.Join(labelsDir, string(id)+s.cfg.LabelExt)

		if s.dryRun {
			report.Copied++
			s.logger.Debug("dry run: would copy pair",
				zap.String("split", split.String()),
				zap.String("id", string(id)))
			continue
		}

		// Step 4: Copy image then label. Failures abort unless KeepGoing.
		if err := s.copyPair(pair, dstImage, dstLabel); err != nil {
			report.Failed++
			report.Failures = append(report.Failures, model.CopyFailure{Split: split, ID: id, Err: err})
			if !s.cfg.KeepGoing {
				return report, model.WrapCLIError(
					model.ExitCopyFailed,
					fmt.Sprintf("failed to copy sample %q into %s split", id, split),
					err,
				)
			}
			s.logger.Warn("copy failed, continuing",
				zap.String("split", split.String()),
				zap.String("id", string(id)),
				zap.Error(err))
			continue
		}

		report.Copied++
		s.logger.Debug("pair copied",
			zap.String("split", split.String()),
			zap.String("id", string(id)))
	}

	return report, nil
}

// copyPair copies the image and then the label. If the label copy fails the
// image copy is not rolled back.
func (s *Splitter) copyPair(pair model.SourcePair, dstImage, dstLabel string) error {
	if err := copyFile(pair.ImagePath, dstImage); err != nil {
		return err
	}
	return copyFile(pair.LabelPath, dstLabel)
}

// Run performs a full split: prepare the output tree, copy the train
// manifest into the train split, copy the val manifest into the val split,
// then print the confirmation line and a count summary.
//
// When data.yaml generation is enabled it is written after both splits.
// On error, the report covers everything processed so far.
func (s *Splitter) Run(ctx context.Context) (*model.Report, error) {
	report := &model.Report{DryRun: s.dryRun}

	// Step 1: Create images/{train,val} and labels/{train,val}
	if err := s.PrepareOutputTree(); err != nil {
		return report, err
	}

	// Step 2: Process the train manifest, then the val manifest.
	// The first fatal error stops the run; the val split is not attempted.
	manifests := map[model.Split]string{
		model.SplitTrain: s.cfg.TrainManifest,
		model.SplitVal:   s.cfg.ValManifest,
	}
	for _, split := range model.AllSplits() {
		sr, err := s.CopySplit(ctx, manifests[split], split)
		report.Add(sr)
		if err != nil {
			return report, err
		}
		s.logger.Info("split processed",
			zap.String("split", split.String()),
			zap.Int("copied", sr.Copied),
			zap.Int("skipped", sr.Skipped),
			zap.Int("failed", sr.Failed))
	}

	// Step 3: Optional dataset descriptor, only once both splits succeeded
	if s.cfg.DataYAML.Enabled && !s.dryRun {
		path := s.cfg.DataYAMLPath()
		if err := WriteDataYAML(path, s.layout, s.cfg.DataYAML.Names); err != nil {
			return report, model.WrapCLIError(model.ExitGeneralError, "failed to write dataset descriptor", err)
		}
		s.logger.Info("dataset descriptor written", zap.String("path", path))
	}

	// Step 4: The confirmation line is printed regardless of how many
	// pairs were skipped; the summary line carries the counts.
	if s.dryRun {
		fmt.Fprintf(s.out, "Dry run, nothing copied (%s)\n", report.Summary())
		return report, nil
	}
	fmt.Fprintln(s.out, ConfirmationMessage)
	fmt.Fprintf(s.out, "(%s)\n", report.Summary())
	return report, nil
}
