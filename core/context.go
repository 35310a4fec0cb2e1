package core

import "context"

type contextKey int

const (
	_ctxKeyCollectAll contextKey = iota
	_ctxKeyShapeOnly
)

// WithCollectAll returns a child context that makes Validate keep going past
// the first failing field and return every issue. Validation short-circuits
// by default.
func WithCollectAll(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyCollectAll, enabled)
}

// IsCollectAll reports whether validation should aggregate all issues.
func IsCollectAll(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	b, _ := ctx.Value(_ctxKeyCollectAll).(bool)
	return b
}

// withShapeOnly marks a validation pass that checks only the wire shape:
// presence, nulls and decodability. Open enum values and unresolved nested
// unions pass, since those are reported by an explicit Validate.
func withShapeOnly(ctx context.Context) context.Context {
	return context.WithValue(ctx, _ctxKeyShapeOnly, true)
}

func isShapeOnly(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	b, _ := ctx.Value(_ctxKeyShapeOnly).(bool)
	return b
}
