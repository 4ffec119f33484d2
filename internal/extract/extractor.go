package extract

import (
	"context"
	"fmt"
	"log/slog"

	"bankrip/internal/bankerr"
	"bankrip/internal/index"
	"bankrip/internal/logging"
)

// Extractor classifies every entry of a bank in list order.
type Extractor struct {
	logger   *slog.Logger
	progress *logging.ProgressSampler
	classify func([]byte, index.SampleEntry) Result
}

// NewExtractor returns an Extractor logging through logger (nil discards).
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{
		logger:   logging.NewComponentLogger(logger, "extractor"),
		progress: logging.NewProgressSampler(25),
		classify: Classify,
	}
}

// Run classifies entries against bank. One result is returned per entry, in
// order. A failing entry never stops the remaining entries; cancellation of
// ctx does, and the results gathered so far are returned with ctx.Err().
func (e *Extractor) Run(ctx context.Context, bank *Bank, entries []index.SampleEntry) ([]Result, error) {
	logger := logging.WithContext(ctx, e.logger)
	results := make([]Result, 0, len(entries))
	e.progress.Reset()

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := e.classifyGuarded(bank.Data, entry)
		e.report(logger, res)
		results = append(results, res)

		if e.progress.ShouldLog(bank.ID.String(), i+1, len(entries)) {
			logger.Debug("extraction progress",
				logging.Int("done", i+1),
				logging.Int("total", len(entries)))
		}
	}
	return results, nil
}

func (e *Extractor) classifyGuarded(blob []byte, entry index.SampleEntry) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Entry: entry,
				Kind:  KindFailed,
				Err:   bankerr.Wrap(bankerr.ErrEntry, entry.Bank.String(), "classify", fmt.Sprintf("%s: %v", entry.Name, r), nil),
			}
		}
	}()
	return e.classify(blob, entry)
}

func (e *Extractor) report(logger *slog.Logger, res Result) {
	attrs := []logging.Attr{
		logging.String(logging.FieldSample, res.Entry.Name),
		logging.String(logging.FieldOutcome, res.Kind.String()),
		logging.Uint64("offset", res.Entry.Offset),
		logging.Uint64("length", res.Entry.Length),
	}
	switch res.Kind {
	case KindValidated:
		logger.Debug("sample validated", logging.Args(append(attrs, logging.Int("bytes", len(res.Payload)))...)...)
	case KindSalvaged:
		logger.Debug("sample salvaged from declared window", logging.Args(append(attrs,
			logging.Uint64("signature_at", res.Offset-res.Entry.Offset),
			logging.Int("bytes", len(res.Payload)))...)...)
	case KindRawFallback:
		logging.WarnWithContext(logger, "no signature in declared window; keeping raw bytes", "entry_raw_fallback",
			append(attrs,
				logging.String(logging.FieldErrorHint, "check the sample offset in the description"),
				logging.String(logging.FieldImpact, "sample written unvalidated"))...)
	default:
		logging.WarnWithContext(logger, "sample skipped", "entry_failed",
			append(attrs,
				logging.Error(res.Err),
				logging.String(logging.FieldImpact, "sample not extracted"))...)
	}
}
