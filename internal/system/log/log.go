/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package log provides the structured logger used across the module.
package log

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevelEnvironmentVariable is the environment variable used to override the log level.
const LogLevelEnvironmentVariable = "JOBSYNC_LOG_LEVEL"

// DefaultLogLevel is the level used when no override is configured.
const DefaultLogLevel = "info"

var (
	logger *Logger
	once   sync.Once
)

// Logger is a thin wrapper around the zap logger.
type Logger struct {
	internal *zap.Logger
}

// GetLogger returns the singleton logger, initializing it on first use.
func GetLogger() *Logger {
	once.Do(func() {
		l, err := newLogger(os.Getenv(LogLevelEnvironmentVariable))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
		logger = l
	})
	return logger
}

// SetLevel replaces the singleton logger with one writing at the given level.
// The current logger is kept when the level cannot be parsed.
func SetLevel(level string) error {
	l, err := newLogger(level)
	if err != nil {
		return err
	}
	once.Do(func() {})
	logger = l
	return nil
}

// newLogger builds a logger with a plain text format.
func newLogger(level string) (*Logger, error) {
	if level == "" {
		level = DefaultLogLevel
	}
	zapLevel, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder, // INFO, ERROR, etc.
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	// Logs go to stderr so that command output on stdout stays machine readable.
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(zapcore.Lock(os.Stderr)),
		zapLevel,
	)

	return &Logger{
		internal: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)),
	}, nil
}

// With creates a child logger carrying the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{
		internal: l.internal.With(fields...),
	}
}

// IsDebugEnabled checks if the logger is set to debug level.
func (l *Logger) IsDebugEnabled() bool {
	return l.internal.Core().Enabled(zapcore.DebugLevel)
}

// Debug logs a debug message with custom fields.
func (l *Logger) Debug(msg string, fields ...Field) {
	l.internal.Debug(msg, fields...)
}

// Info logs an informational message with custom fields.
func (l *Logger) Info(msg string, fields ...Field) {
	l.internal.Info(msg, fields...)
}

// Warn logs a warning message with custom fields.
func (l *Logger) Warn(msg string, fields ...Field) {
	l.internal.Warn(msg, fields...)
}

// Error logs an error message with custom fields.
func (l *Logger) Error(msg string, fields ...Field) {
	l.internal.Error(msg, fields...)
}

// Fatal logs a fatal message with custom fields and exits the application.
func (l *Logger) Fatal(msg string, fields ...Field) {
	l.internal.Fatal(msg, fields...)
}

// Sync flushes any buffered log entries.
func Sync() {
	if logger != nil {
		_ = logger.internal.Sync()
	}
}
