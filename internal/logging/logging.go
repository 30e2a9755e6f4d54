// Package logging constructs the relay's single structured logger. Every
// component receives a *zap.SugaredLogger via constructor injection rather
// than reaching for a package-level global.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls the logger's output format and level.
type Options struct {
	// Development enables human-readable console output and debug level.
	// Production uses JSON output at info level, suitable for log
	// aggregation.
	Development bool
}

// New builds the relay's root logger.
func New(opts Options) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
