// Package respond centraliza el envelope JSON de los handlers.
// Antes writeJSON estaba duplicado por módulo; con cuatro módulos ya conviene el helper común.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"dog-breed-social/internal/platform/validate"
	"dog-breed-social/internal/ports/backend"
)

// Envelope es la forma uniforme {message, data}.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorBody es la forma de toda respuesta de error.
type ErrorBody struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Data(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Message: message, Data: data})
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Message: message})
}

// StatusFor traduce el Kind del backend a status HTTP.
// Invalid y Conflict son corregibles por el cliente (400).
func StatusFor(err error) int {
	switch backend.KindOf(err) {
	case backend.KindInvalid, backend.KindConflict:
		return http.StatusBadRequest
	case backend.KindUnauthorized:
		return http.StatusUnauthorized
	case backend.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FromBackend escribe el error del backend sin filtrar detalles internos:
// solo los kinds corregibles por el cliente exponen el mensaje del colaborador.
func FromBackend(w http.ResponseWriter, err error, fallback string) {
	status := StatusFor(err)
	msg := fallback
	if status < http.StatusInternalServerError {
		msg = backend.MessageOf(err, fallback)
	}
	Error(w, status, msg)
}

// Fail es el camino común de error de los handlers: validación => 400 con su mensaje,
// el resto pasa por FromBackend.
func Fail(w http.ResponseWriter, err error, fallback string) {
	var ve *validate.Error
	if errors.As(err, &ve) {
		Error(w, http.StatusBadRequest, ve.Message)
		return
	}
	FromBackend(w, err, fallback)
}
