// Package logging builds the process-wide zap logger.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a sugared logger configured for the given mode.
// "prod"/"production" selects the JSON production config, anything
// else the human-readable development config. debug=true lowers the
// level to Debug.
func New(mode string, debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Nop returns a logger that discards everything. Used in tests and as
// the fallback when callers pass a nil logger.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
