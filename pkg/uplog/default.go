// Copyright 2025 FIAP Grupo 11SOAT
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package uplog

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger Logger = newZapLogger(os.Stderr, LevelInfo)

// DefaultLogger returns the logger used by the package-level functions.
func DefaultLogger() Logger {
	return logger
}

// SetLogger replaces the default logger.
// Not concurrent-safe; call it before any logging starts.
func SetLogger(v Logger) {
	logger = v
}

// SetOutput sets the output of the default logger. By default, it is stderr.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetLevel sets the level of logs below which logs will not be output.
func SetLevel(lv Level) {
	logger.SetLevel(lv)
}

func Fatal(v ...any) { logger.Fatal(v...) }
func Error(v ...any) { logger.Error(v...) }
func Warn(v ...any)  { logger.Warn(v...) }
func Info(v ...any)  { logger.Info(v...) }
func Debug(v ...any) { logger.Debug(v...) }

func Fatalf(format string, v ...any) { logger.Fatalf(format, v...) }
func Errorf(format string, v ...any) { logger.Errorf(format, v...) }
func Warnf(format string, v ...any)  { logger.Warnf(format, v...) }
func Infof(format string, v ...any)  { logger.Infof(format, v...) }
func Debugf(format string, v ...any) { logger.Debugf(format, v...) }

func (lv Level) toZapLevel() zapcore.Level {
	switch lv {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// zapLogger implements Logger on top of a zap.SugaredLogger.
// The level is held in a zap.AtomicLevel so SetLevel is cheap and
// does not rebuild the logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

func newZapLogger(w io.Writer, lv Level) *zapLogger {
	level := zap.NewAtomicLevelAt(lv.toZapLevel())

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), level)
	return &zapLogger{
		sugar: zap.New(core).Sugar(),
		level: level,
	}
}

func (l *zapLogger) Debugf(format string, v ...any) { l.sugar.Debugf(format, v...) }
func (l *zapLogger) Infof(format string, v ...any)  { l.sugar.Infof(format, v...) }
func (l *zapLogger) Warnf(format string, v ...any)  { l.sugar.Warnf(format, v...) }
func (l *zapLogger) Errorf(format string, v ...any) { l.sugar.Errorf(format, v...) }
func (l *zapLogger) Fatalf(format string, v ...any) { l.sugar.Fatalf(format, v...) }

func (l *zapLogger) Debug(v ...any) { l.sugar.Debug(v...) }
func (l *zapLogger) Info(v ...any)  { l.sugar.Info(v...) }
func (l *zapLogger) Warn(v ...any)  { l.sugar.Warn(v...) }
func (l *zapLogger) Error(v ...any) { l.sugar.Error(v...) }
func (l *zapLogger) Fatal(v ...any) { l.sugar.Fatal(v...) }

func (l *zapLogger) SetLevel(lv Level) {
	l.level.SetLevel(lv.toZapLevel())
}

func (l *zapLogger) SetOutput(w io.Writer) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), l.level)
	l.sugar = zap.New(core).Sugar()
}
