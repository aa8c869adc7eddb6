package logadapter

import (
	"go.uber.org/zap"

	"btree"
)

// Zap wraps a zap.Logger to implement btree.Logger. Unlike a SugaredLogger,
// it builds typed zap.Field values directly from the key-value pairs
// instead of going through zap's reflection-based Sugar() path, since
// btree.Logger.Warn is called from Iterator.Next on every latch handoff to
// a contended sibling and the allocation cost of Sugar() is not free on
// that path.
type Zap struct {
	logger *zap.Logger
}

// NewZap creates a btree.Logger from a zap.Logger.
func NewZap(logger *zap.Logger) btree.Logger {
	return &Zap{logger: logger}
}

// Error logs an error message with key-value pairs.
func (z *Zap) Error(msg string, args ...any) {
	z.logger.Error(msg, argsToFields(args)...)
}

// Warn logs a warning message with key-value pairs.
func (z *Zap) Warn(msg string, args ...any) {
	z.logger.Warn(msg, argsToFields(args)...)
}

// Info logs an info message with key-value pairs.
func (z *Zap) Info(msg string, args ...any) {
	z.logger.Info(msg, argsToFields(args)...)
}

// Debug logs a debug message with key-value pairs.
func (z *Zap) Debug(msg string, args ...any) {
	z.logger.Debug(msg, argsToFields(args)...)
}

func argsToFields(args []any) []zap.Field {
	fields := make([]zap.Field, 0, len(args)/2)
	for i := 0; i < len(args)-1; i += 2 {
		if key, ok := args[i].(string); ok {
			fields = append(fields, zap.Any(key, args[i+1]))
		}
	}
	return fields
}
