// Package validate agrupa los errores de input que se rechazan antes de tocar el backend.
package validate

import "fmt"

// Error es un error de validación; su mensaje siempre es apto para el cliente.
type Error struct {
	Field   string // opcional
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(msg string) *Error { return &Error{Message: msg} }

func Field(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}
