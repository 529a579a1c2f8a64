package models

import "errors"

// ErrNotFound стандартная ошибка, когда запись не найдена в хранилище.
// Обработчики сами решают, какой внешний статус вернуть.
var ErrNotFound = errors.New("not found")

// ErrValidation возвращается при невалидном входе; никогда не маскируется
// fallback-цепочками и не ретраится.
var ErrValidation = errors.New("validation failed")
