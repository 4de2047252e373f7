// Package logging builds the zap loggers used by fluckybackup.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file written inside the config directory by the TUI.
const FileName = "fluckybackup.log"

// ParseLevel converts a level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// NewStderr returns a console logger for CLI commands.
func NewStderr(level string) (*zap.Logger, error) {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logConfig.DisableStacktrace = true
	return logConfig.Build()
}

// NewFile returns a JSON logger appending to FileName in configDir. The TUI
// owns the terminal, so it must not log to stdout or stderr.
func NewFile(configDir, level string) (*zap.Logger, error) {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	logConfig := zap.NewProductionConfig()
	logConfig.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logConfig.OutputPaths = []string{filepath.Join(configDir, FileName)}
	logConfig.ErrorOutputPaths = []string{filepath.Join(configDir, FileName)}
	return logConfig.Build()
}
