// 指示: miu200521358
// Package logging は変換処理全体で共有するロガーを提供する。
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// LogLevel はログ出力レベルを表す。
type LogLevel string

const (
	// LOG_LEVEL_DEBUG はデバッグレベルを表す。
	LOG_LEVEL_DEBUG LogLevel = "DEBUG"
	// LOG_LEVEL_INFO は情報レベルを表す。
	LOG_LEVEL_INFO LogLevel = "INFO"
	// LOG_LEVEL_WARN は警告レベルを表す。
	LOG_LEVEL_WARN LogLevel = "WARN"
	// LOG_LEVEL_ERROR はエラーレベルを表す。
	LOG_LEVEL_ERROR LogLevel = "ERROR"
)

// ILogger はフォーマット指定でログを出力する契約を表す。
type ILogger interface {
	Debug(format string, params ...any)
	Info(format string, params ...any)
	Warn(format string, params ...any)
	Error(format string, params ...any)
}

// Logger は slog をフォーマット指定APIで包んだロガー。
type Logger struct {
	base *slog.Logger
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewLogger(os.Stderr, LOG_LEVEL_INFO))
}

// NewLogger は出力先とレベルを指定してロガーを生成する。
func NewLogger(w io.Writer, level LogLevel) *Logger {
	if w == nil {
		w = io.Discard
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.slogLevel()})
	return &Logger{base: slog.New(handler)}
}

// DefaultLogger は既定ロガーを返す。
func DefaultLogger() ILogger {
	logger := defaultLogger.Load()
	if logger == nil {
		return nil
	}
	return logger
}

// SetDefaultLogger は既定ロガーを差し替える。nil の場合は出力を破棄する。
func SetDefaultLogger(logger *Logger) {
	if logger == nil {
		logger = NewLogger(io.Discard, LOG_LEVEL_ERROR)
	}
	defaultLogger.Store(logger)
}

// ParseLogLevel は文字列からログレベルを解決する。
func ParseLogLevel(value string) (LogLevel, error) {
	switch LogLevel(strings.ToUpper(strings.TrimSpace(value))) {
	case LOG_LEVEL_DEBUG:
		return LOG_LEVEL_DEBUG, nil
	case "", LOG_LEVEL_INFO:
		return LOG_LEVEL_INFO, nil
	case LOG_LEVEL_WARN:
		return LOG_LEVEL_WARN, nil
	case LOG_LEVEL_ERROR:
		return LOG_LEVEL_ERROR, nil
	}
	return LOG_LEVEL_INFO, fmt.Errorf("ログレベルが不正です: %s", value)
}

// Debug はデバッグログを出力する。
func (l *Logger) Debug(format string, params ...any) {
	l.log(slog.LevelDebug, format, params...)
}

// Info は情報ログを出力する。
func (l *Logger) Info(format string, params ...any) {
	l.log(slog.LevelInfo, format, params...)
}

// Warn は警告ログを出力する。
func (l *Logger) Warn(format string, params ...any) {
	l.log(slog.LevelWarn, format, params...)
}

// Error はエラーログを出力する。
func (l *Logger) Error(format string, params ...any) {
	l.log(slog.LevelError, format, params...)
}

func (l *Logger) log(level slog.Level, format string, params ...any) {
	if l == nil || l.base == nil {
		return
	}
	if len(params) == 0 {
		l.base.Log(context.Background(), level, format)
		return
	}
	l.base.Log(context.Background(), level, fmt.Sprintf(format, params...))
}

// slogLevel はslogのレベルへ変換する。
func (level LogLevel) slogLevel() slog.Level {
	switch level {
	case LOG_LEVEL_DEBUG:
		return slog.LevelDebug
	case LOG_LEVEL_WARN:
		return slog.LevelWarn
	case LOG_LEVEL_ERROR:
		return slog.LevelError
	}
	return slog.LevelInfo
}
