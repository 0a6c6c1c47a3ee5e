package logger

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.Logger
}

// NewLogger builds a zap logger. format is "json" or "console".
func NewLogger(level, format string) (*Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(format, "json") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, err
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: l}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func (l *Logger) CommandStarted(command string) {
	l.Info("running command",
		zap.String("type", "command"),
		zap.String("command", command),
	)
}

func (l *Logger) CommandOutput(stream, line string) {
	if stream == "stderr" {
		l.Warn("command stderr", zap.String("type", "command"), zap.String("line", line))
		return
	}
	l.Debug("command stdout", zap.String("type", "command"), zap.String("line", line))
}

func (l *Logger) CommandFinished(command string, exitCode int, elapsed time.Duration) {
	l.Info("command finished",
		zap.String("type", "command"),
		zap.String("command", command),
		zap.Int("exit_code", exitCode),
		zap.Duration("elapsed", elapsed),
	)
}

func (l *Logger) CommandFailed(command string, err error) {
	l.Error("command failed",
		zap.String("type", "command"),
		zap.String("command", command),
		zap.Error(err),
	)
}

func (l *Logger) OperationFailed(op string, err error) {
	l.Error("operation failed",
		zap.String("type", "operation"),
		zap.String("op", op),
		zap.Error(err),
	)
}
