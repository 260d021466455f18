package services

import (
	"errors"
	"fmt"
)

// ValidationError описывает некорректное поле формы.
// Message показывается пользователю как есть.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("поле %s: %s", e.Field, e.Message)
}

// Is позволяет сопоставлять любую ValidationError с ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ErrValidation - общий вид ошибок валидации форм.
var ErrValidation = errors.New("ошибка валидации")
