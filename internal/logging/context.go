package logging

import (
	"context"
	"log/slog"
)

type contextKey int

const (
	runIDKey contextKey = iota
	bankKey
)

// WithRunID stores the extraction run identifier on ctx.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run identifier stored by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// WithBank stores the bank currently being processed on ctx.
func WithBank(ctx context.Context, bank string) context.Context {
	return context.WithValue(ctx, bankKey, bank)
}

// BankFromContext returns the bank stored by WithBank.
func BankFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	bank, ok := ctx.Value(bankKey).(string)
	return bank, ok && bank != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if bank, ok := BankFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldBank, bank))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
