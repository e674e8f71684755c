package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the encoder, level and optional rotating file output.
type Options struct {
	Env   string
	Level string
	File  string
}

// New builds a zap logger. Production env logs JSON, anything else logs
// console lines. When File is set, JSON lines are also written to a
// lumberjack-rotated file.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stdout"}

	if lvl, err := zapcore.ParseLevel(strings.ToLower(opts.Level)); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	if opts.File == "" {
		return cfg.Build(zap.AddCaller())
	}

	rotating := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
	}
	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	if opts.Env == "production" {
		consoleEncoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotating),
			cfg.Level,
		),
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), cfg.Level),
	)
	return zap.New(core, zap.AddCaller()), nil
}
