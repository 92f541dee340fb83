// Package logging holds the process-wide zap logger. Everything goes
// to stderr so stdout stays clean for report output.
package logging

import (
	"go.uber.org/zap"
)

// logger is a nop until Init runs, so packages can grab component
// loggers at construction time in any order.
var logger = zap.NewNop().Sugar()

// Init builds the real logger. Verbose enables the development
// encoder at debug level; otherwise only warnings and errors are
// emitted.
func Init(verbose bool) error {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	built, err := cfg.Build()
	if err != nil {
		return err
	}
	logger = built.Sugar()
	return nil
}

// L returns the process logger.
func L() *zap.SugaredLogger {
	return logger
}

// Named returns a component-scoped logger.
func Named(name string) *zap.SugaredLogger {
	return logger.Named(name)
}

// Sync flushes buffered log entries. Safe to call on the nop logger.
func Sync() {
	_ = logger.Sync()
}
