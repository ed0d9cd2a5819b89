// Package logging builds the process logger.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Production selects JSON output at info level. Any other environment
// gets human-readable console output at debug level.
const Production = "production"

// New returns a logger that writes INFO and WARN to stdout and ERROR and
// above to stderr. If filePath is non-empty every enabled level is also
// appended to that file. The returned cleanup flushes and closes it.
func New(env, filePath string) (*zap.Logger, func(), error) {
	level := zapcore.DebugLevel
	encCfg := zap.NewDevelopmentEncoderConfig()
	if env == Production {
		level = zapcore.InfoLevel
		encCfg = zap.NewProductionEncoderConfig()
	}
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	newEncoder := func() zapcore.Encoder {
		if env == Production {
			return zapcore.NewJSONEncoder(encCfg)
		}
		return zapcore.NewConsoleEncoder(encCfg)
	}

	var file zapcore.WriteSyncer
	closeFile := func() {}
	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		file = zapcore.Lock(f)
		closeFile = func() { f.Close() }
	}

	core := newCore(newEncoder, zapcore.Lock(os.Stdout), zapcore.Lock(os.Stderr), file, level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	cleanup := func() {
		_ = logger.Sync()
		closeFile()
	}
	return logger, cleanup, nil
}

func newCore(newEncoder func() zapcore.Encoder, stdout, stderr, file zapcore.WriteSyncer, level zapcore.Level) zapcore.Core {
	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= level && l < zapcore.ErrorLevel
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= level && l >= zapcore.ErrorLevel
	})

	cores := []zapcore.Core{
		zapcore.NewCore(newEncoder(), stdout, low),
		zapcore.NewCore(newEncoder(), stderr, high),
	}
	if file != nil {
		cores = append(cores, zapcore.NewCore(newEncoder(), file, zap.NewAtomicLevelAt(level)))
	}
	return zapcore.NewTee(cores...)
}
