// Package logger provides structured logging for the service, grounded on
// _examples/ridhomain-mc/pkg/logger/logger.go: a small interface over a
// zap.SugaredLogger so call sites never import zap directly.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured-logging interface threaded through handlers and
// services by constructor parameter, never a package global.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Fatal(msg string, keysAndValues ...interface{})
	With(keysAndValues ...interface{}) Logger
}

// ZapLogger implements Logger using zap.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

// New builds a production-configured ZapLogger. env selects a human-readable
// console encoder outside of "prod" so local development logs stay legible.
func New(env string) *ZapLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig = encoderConfig
	if env != "prod" && env != "production" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	built, _ := cfg.Build()
	return &ZapLogger{logger: built.Sugar()}
}

func (l *ZapLogger) Debug(msg string, kv ...interface{}) { l.logger.Debugw(msg, kv...) }
func (l *ZapLogger) Info(msg string, kv ...interface{})  { l.logger.Infow(msg, kv...) }
func (l *ZapLogger) Warn(msg string, kv ...interface{})  { l.logger.Warnw(msg, kv...) }
func (l *ZapLogger) Error(msg string, kv ...interface{}) { l.logger.Errorw(msg, kv...) }
func (l *ZapLogger) Fatal(msg string, kv ...interface{}) { l.logger.Fatalw(msg, kv...) }

func (l *ZapLogger) With(kv ...interface{}) Logger {
	return &ZapLogger{logger: l.logger.With(kv...)}
}
