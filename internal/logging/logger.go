package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls how the process logger is built
type Options struct {
	Verbose     bool
	Development bool
}

// DebugEnabled returns true if debug mode is enabled via DASH_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("DASH_DEBUG") != ""
}

// New builds the process logger. Production config writes JSON to stderr;
// development switches to the console encoder. Debug level is enabled by
// Verbose or DASH_DEBUG.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	if opts.Verbose || DebugEnabled() {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// Nop returns a logger that discards everything
func Nop() *zap.Logger {
	return zap.NewNop()
}

// OrNop returns l, or a no-op logger when l is nil
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
