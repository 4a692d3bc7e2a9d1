// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the standard API response envelope. Every response carries a
// message; failures additionally carry a human-readable error cause.
type Envelope struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a 200 response with data.
func OK(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusOK, Envelope{Message: message, Data: data})
}

// Created writes a 201 response with data.
func Created(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusCreated, Envelope{Message: message, Data: data})
}

// Fail writes an error response with the given status, message, and cause.
func Fail(w http.ResponseWriter, status int, message, cause string) {
	JSON(w, status, Envelope{Message: message, Error: cause})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, message, cause string) {
	Fail(w, http.StatusBadRequest, message, cause)
}

// Unauthorized writes a 401 response.
func Unauthorized(w http.ResponseWriter, cause string) {
	Fail(w, http.StatusUnauthorized, "unauthorized", cause)
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, cause string) {
	Fail(w, http.StatusNotFound, "not found", cause)
}

// InternalError writes a 500 response with a generic message.
func InternalError(w http.ResponseWriter) {
	Fail(w, http.StatusInternalServerError, "internal server error", "internal server error")
}
