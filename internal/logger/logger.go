// Package logger wraps zap with the map-of-fields call style used across the
// dashboard. Every entry carries the application name and its caller.
package logger

import (
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	appName string
	l       *zap.Logger
}

// New builds a JSON logger writing to the given writers (stdout when none).
func New(appName, level string, writers ...io.Writer) *Logger {
	var syncers []zapcore.WriteSyncer

	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = timeEncoder("2006-01-02T15:04:05.000Z07:00", time.UTC)
	cfg.TimeKey = "timestamp"

	if len(writers) == 0 {
		syncers = append(syncers, os.Stdout)
	} else {
		for _, w := range writers {
			syncers = append(syncers, zapcore.AddSync(w))
		}
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.NewMultiWriteSyncer(syncers...),
		parseLevel(level),
	)

	return &Logger{
		appName: appName,
		l:       zap.New(core),
	}
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *Logger {
	return &Logger{appName: "nop", l: zap.NewNop()}
}

func (l *Logger) Stop() error {
	return l.l.Sync()
}

func (l *Logger) Error(err error, fields ...map[string]any) {
	l.with(fields).Error(err.Error(), append(l.caller(), zap.String("error", err.Error()))...)
}

func (l *Logger) Info(msg string, fields ...map[string]any) {
	l.with(fields).Info(msg, l.caller()...)
}

func (l *Logger) Warning(msg string, fields ...map[string]any) {
	l.with(fields).Warn(msg, l.caller()...)
}

func (l *Logger) Debug(msg string, fields ...map[string]any) {
	l.with(fields).Debug(msg, l.caller()...)
}

func (l *Logger) Fatal(msg string, fields ...map[string]any) {
	l.with(fields).Fatal(msg, l.caller()...)
}

func (l *Logger) with(fields []map[string]any) *zap.Logger {
	if len(fields) == 0 {
		return l.l
	}
	return l.l.With(mapToZapFields(fields[0])...)
}

func (l *Logger) caller() []zap.Field {
	file, line, funcName := getRuntimeParams()
	return []zap.Field{
		zap.String("app_name", l.appName),
		zap.String("caller_file", file),
		zap.Int("caller_line", line),
		zap.String("caller_func", funcName),
	}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func mapToZapFields(data map[string]any) []zap.Field {
	zapFields := make([]zap.Field, 0, len(data))
	for k, v := range data {
		if err, ok := v.(error); ok {
			zapFields = append(zapFields, zap.NamedError(k, err))
			continue
		}
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return zapFields
}

// getRuntimeParams reports the caller of the exported logging method.
func getRuntimeParams() (file string, line int, funcName string) {
	pc, file, line, ok := runtime.Caller(3)
	if !ok {
		return "not_defined", 0, "not_defined"
	}
	return file, line, runtime.FuncForPC(pc).Name()
}

func timeEncoder(layout string, location *time.Location) zapcore.TimeEncoder {
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(location).Format(layout))
	}
}
