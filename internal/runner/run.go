package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"bankrip/internal/bankerr"
	"bankrip/internal/config"
	"bankrip/internal/extract"
	"bankrip/internal/index"
	"bankrip/internal/logging"
	"bankrip/internal/manifest"
	"bankrip/internal/output"
)

// LockFileName is created inside the output root while a run holds it.
const LockFileName = ".bankrip.lock"

// Options configure a single extraction run.
type Options struct {
	// DryRun classifies every entry without touching the output tree.
	DryRun bool
	// Logger receives run diagnostics. Nil discards them.
	Logger *slog.Logger
	// Now overrides the clock used for manifest timestamps.
	Now func() time.Time
}

// BankSummary reports the outcome of one bank.
type BankSummary struct {
	Bank      index.BankID `json:"bank"`
	Entries   int          `json:"entries"`
	Validated int          `json:"validated"`
	Salvaged  int          `json:"salvaged"`
	Raw       int          `json:"raw"`
	Failed    int          `json:"failed"`
	// Extracted counts validated and salvaged samples that were written, or
	// that would be written on a dry run.
	Extracted int `json:"extracted"`
	// Missing is set when the bank blob could not be loaded.
	Missing bool `json:"missing"`
	// Removed is the number of stale files deleted before extraction.
	Removed int `json:"removed"`
}

// Summary reports the outcome of a whole run.
type Summary struct {
	RunID  string        `json:"run_id"`
	DryRun bool          `json:"dry_run"`
	Banks  []BankSummary `json:"banks"`
	Total  int           `json:"total"`
}

// Run builds the sample index and extracts every bank under cfg.
//
// Only a configuration problem, an unreadable description, a held lock, or
// cancellation abort the run. A missing bank contributes zero and the next
// bank is processed; a failing entry contributes zero and the next entry is
// processed.
func Run(ctx context.Context, cfg *config.Config, opts Options) (Summary, error) {
	if cfg == nil {
		return Summary{}, bankerr.Wrap(bankerr.ErrConfiguration, "", "run", "config is required", nil)
	}
	if err := cfg.Validate(); err != nil {
		return Summary{}, bankerr.Wrap(bankerr.ErrConfiguration, "", "validate", "", err)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.NewComponentLogger(opts.Logger, "runner").With(logging.String(logging.FieldRunID, runID))
	summary := Summary{RunID: runID, DryRun: opts.DryRun}
	started := now()

	if !opts.DryRun {
		unlock, err := acquireLock(cfg.Paths.OutputRoot)
		if err != nil {
			return summary, err
		}
		defer unlock()
	}

	idx, err := index.BuildFile(cfg.Paths.DescriptionPath, index.Options{BankName: cfg.Extraction.BankName})
	if err != nil {
		return summary, err
	}
	logger.Info("sample index built",
		logging.String(logging.FieldEventType, "index_built"),
		logging.String("description", cfg.Paths.DescriptionPath),
		logging.Int("samples", idx.Total()),
		logging.Int("lines", idx.Stats.Lines),
	)
	if idx.Stats.Orphaned > 0 || idx.Stats.Duplicates > 0 || idx.Stats.Malformed > 0 {
		logger.Debug("description data-quality notes",
			logging.Int("orphaned", idx.Stats.Orphaned),
			logging.Int("duplicates", idx.Stats.Duplicates),
			logging.Int("malformed", idx.Stats.Malformed))
	}

	writer := output.NewWriter(cfg.Paths.OutputRoot, cfg.Extraction.ValidatedExtension, cfg.Extraction.RawExtension, opts.Logger)
	extractor := extract.NewExtractor(opts.Logger)
	var records []manifest.Record

	for _, bank := range index.Banks() {
		bankCtx := logging.WithBank(ctx, bank.String())
		bankLogger := logger.With(logging.String(logging.FieldBank, bank.String()))
		entries := idx.Entries(bank)
		bs := BankSummary{Bank: bank, Entries: len(entries)}

		if !opts.DryRun {
			removed, err := writer.Clean(bank)
			bs.Removed = removed
			if err != nil {
				logging.WarnWithContext(bankLogger, "stale output cleanup failed", "bank_clean_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "bank skipped"),
					logging.String(logging.FieldErrorHint, "check permissions on output_root"))
				summary.Banks = append(summary.Banks, bs)
				continue
			}
		}
		if len(entries) == 0 {
			bankLogger.Debug("bank has no entries", logging.Int("removed", bs.Removed))
			summary.Banks = append(summary.Banks, bs)
			continue
		}

		blob, err := extract.LoadBank(cfg.Paths.BankRoot, bank, cfg.BankFileName())
		if err != nil {
			bs.Missing = true
			logging.WarnWithContext(bankLogger, "bank file unavailable", "bank_missing",
				logging.Error(err),
				logging.String("path", extract.BankPath(cfg.Paths.BankRoot, bank, cfg.BankFileName())),
				logging.String(logging.FieldImpact, "bank skipped"),
				logging.String(logging.FieldErrorHint, "check paths.bank_root"))
			summary.Banks = append(summary.Banks, bs)
			continue
		}

		if !opts.DryRun {
			if err := writer.Ensure(bank); err != nil {
				logging.WarnWithContext(bankLogger, "bank output directory unavailable", "bank_output_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "bank skipped"),
					logging.String(logging.FieldErrorHint, "check permissions on output_root"))
				summary.Banks = append(summary.Banks, bs)
				continue
			}
		}

		results, err := extractor.Run(bankCtx, blob, entries)
		for _, res := range results {
			tally(&bs, res)
			outPath := ""
			if res.Kind != extract.KindFailed && !opts.DryRun {
				outPath = writeResult(writer, bankLogger, &res)
				if outPath != "" && res.Kind.Counted() {
					bs.Extracted++
				}
			}
			records = append(records, manifest.NewRecord(len(records), res, outPath))
		}
		if opts.DryRun {
			bs.Extracted = extract.Count(results)
		}
		summary.Banks = append(summary.Banks, bs)
		summary.Total += bs.Extracted
		if err != nil {
			logging.ErrorWithContext(bankLogger, "extraction interrupted", "run_interrupted",
				logging.Error(err),
				logging.Int("processed", len(results)),
				logging.Int("entries", bs.Entries))
			return summary, err
		}

		bankLogger.Info("bank extracted",
			logging.String(logging.FieldEventType, "bank_extracted"),
			logging.Int("entries", bs.Entries),
			logging.Int("extracted", bs.Extracted),
			logging.Int("validated", bs.Validated),
			logging.Int("salvaged", bs.Salvaged),
			logging.Int("raw", bs.Raw),
			logging.Int("failed", bs.Failed),
		)
	}

	if cfg.Manifest.Enabled {
		run := manifest.Run{
			ID:              runID,
			StartedAt:       started,
			FinishedAt:      now(),
			BankRoot:        cfg.Paths.BankRoot,
			OutputRoot:      cfg.Paths.OutputRoot,
			DescriptionPath: cfg.Paths.DescriptionPath,
			DryRun:          opts.DryRun,
			TotalExtracted:  summary.Total,
			Records:         records,
		}
		if err := recordRun(ctx, cfg.Manifest.Path, run); err != nil {
			logging.WarnWithContext(logger, "run history not recorded", "manifest_failed",
				logging.Error(err),
				logging.String("path", cfg.Manifest.Path),
				logging.String(logging.FieldImpact, "run missing from bankrip history"))
		}
	}

	logger.Info("extraction complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("extracted", summary.Total),
		logging.Bool("dry_run", opts.DryRun),
		logging.Duration("elapsed", now().Sub(started)),
	)
	return summary, nil
}

// writeResult persists res and returns the written path, or "" after logging
// a write failure into res.Err.
func writeResult(writer *output.Writer, logger *slog.Logger, res *extract.Result) string {
	written, err := writer.Write(*res)
	if err != nil {
		logging.WarnWithContext(logger, "sample write failed", "entry_write_failed",
			logging.String(logging.FieldSample, res.Entry.Name),
			logging.Error(err),
			logging.String(logging.FieldImpact, "sample not extracted"))
		res.Err = err
		return ""
	}
	return written
}

func tally(bs *BankSummary, res extract.Result) {
	switch res.Kind {
	case extract.KindValidated:
		bs.Validated++
	case extract.KindSalvaged:
		bs.Salvaged++
	case extract.KindRawFallback:
		bs.Raw++
	default:
		bs.Failed++
	}
}

func acquireLock(outputRoot string) (func(), error) {
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, bankerr.Wrap(bankerr.ErrConfiguration, "", "lock", outputRoot, err)
	}
	lock := flock.New(filepath.Join(outputRoot, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, bankerr.Wrap(bankerr.ErrConfiguration, "", "lock", lock.Path(), err)
	}
	if !ok {
		return nil, bankerr.Wrap(bankerr.ErrLocked, "", "lock", fmt.Sprintf("another run holds %s", lock.Path()), nil)
	}
	return func() { _ = lock.Unlock() }, nil
}

func recordRun(ctx context.Context, path string, run manifest.Run) error {
	store, err := manifest.Open(ctx, path)
	if err != nil {
		return err
	}
	return errors.Join(store.RecordRun(ctx, run), store.Close())
}
