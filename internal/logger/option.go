package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// levelOverrideCore replaces the level check of the wrapped core, so a
// derived logger can be more or less verbose than the shared atomic level.
type levelOverrideCore struct {
	zapcore.Core

	level zapcore.Level
}

// Enabled reports whether lvl passes the override.
func (c *levelOverrideCore) Enabled(lvl zapcore.Level) bool {
	return c.level.Enabled(lvl)
}

// Check adds the core to ce when the entry level passes the override.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *levelOverrideCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}

	return ce.AddCore(ent, c)
}

//nolint:ireturn,nolintlint // zapcore.Core is the interface zap expects.
func (c *levelOverrideCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelOverrideCore{Core: c.Core.With(fields), level: c.level}
}

// WithLevelOverride returns a zap option that makes the logger use lvl
// instead of the level it was built with.
//
//nolint:ireturn,nolintlint // zap.Option is the interface zap expects.
func WithLevelOverride(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &levelOverrideCore{Core: core, level: lvl}
	})
}

// WithLevel returns a context whose logger logs at lvl regardless of the global level.
func WithLevel(ctx context.Context, lvl zapcore.Level) context.Context {
	l := FromContext(ctx).Desugar().WithOptions(WithLevelOverride(lvl)).Sugar()

	return ToContext(ctx, l)
}
