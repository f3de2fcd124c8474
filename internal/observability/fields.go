package observability

import "go.uber.org/zap"

// Field constructors so callers only import this package.
//
//nolint:gochecknoglobals // Aliases of zap constructors.
var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Bool     = zap.Bool
	Float64  = zap.Float64
	Duration = zap.Duration
	Error    = zap.Error
	Any      = zap.Any
)
