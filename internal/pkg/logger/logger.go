package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// logWriter открывает файл лога и возвращает writer в файл + stderr (и в файл, и в консоль).
// Пустое имя или ошибка открытия файла — только stderr.
func logWriter(file string) io.Writer {
	if file == "" {
		return os.Stderr
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return os.Stderr
	}
	return io.MultiWriter(f, os.Stderr)
}

// NewWithLevel возвращает логгер с заданным уровнем (debug, info, warn, error) и файлом.
func NewWithLevel(level, file string) *slog.Logger {
	return slog.New(slog.NewTextHandler(logWriter(file), &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// ParseLevel переводит строку уровня в slog.Level. Неизвестное значение — Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
