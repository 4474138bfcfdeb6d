// Package sl содержит вспомогательные функции для структурированного логгера slog.
// Используется, чтобы единообразно добавлять поля об ошибках в записи лога.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
// Пример:
//
//	log.Error("failed to place order", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
