package main

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type logger struct {
	*zap.Logger
	sugar *zap.SugaredLogger
}

func newLogger(verbose bool, w io.Writer) *logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	l := zap.New(core, zap.AddCaller())
	return &logger{l, l.Sugar()}
}

// Logf only writes when verbose.
func (l *logger) Logf(format string, a ...interface{}) {
	l.sugar.Debugf(format, a...)
}
