package logging

import (
	"context"
	"log/slog"
)

type mediaKeyType struct{}

type runIDKeyType struct{}

// WithMedia returns a context carrying the media file path being analyzed.
func WithMedia(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, mediaKeyType{}, path)
}

// MediaFromContext extracts the media file path from the context.
func MediaFromContext(ctx context.Context) (string, bool) {
	path, ok := ctx.Value(mediaKeyType{}).(string)
	return path, ok && path != ""
}

// WithRunID returns a context carrying the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKeyType{}, id)
}

// RunIDFromContext extracts the run identifier from the context.
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKeyType{}).(string)
	return id, ok && id != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if path, ok := MediaFromContext(ctx); ok {
		fields = append(fields, String(FieldMedia, path))
	}
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, String(FieldRunID, id))
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
	return logger.With(attrsToArgs(fields)...)
}
