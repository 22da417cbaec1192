package models

import "errors"

// Таксономия ошибок сервиса. Слои заворачивают их через fmt.Errorf("...: %w", ...),
// обработчики проверяют errors.Is и подбирают HTTP-статус.
var (
	ErrNotFound = errors.New("запись не найдена")
	ErrWrite    = errors.New("ошибка записи")
	ErrUpload   = errors.New("ошибка загрузки файла")
	ErrAuth     = errors.New("ошибка аутентификации")
)
