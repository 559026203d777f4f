// Package jsonutil provides helper functions for JSON API responses.
//
// Every handler in the API writes through these helpers so that bodies
// carry Content-Type: application/json and errors share the
// {"error": message} shape.
package jsonutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodyBytes bounds request bodies read by Decode.
const MaxBodyBytes = 1 << 20

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// OK writes a 200 OK JSON response.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// SuccessResponse is the body of operations that return no resource.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Success writes 200 {"success": true, "message": message}.
func Success(w http.ResponseWriter, message string) {
	OK(w, SuccessResponse{Success: true, Message: message})
}

// Error writes an error response with the given status code.
// The response body is {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// BadRequest writes a 400 Bad Request error response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 response with a Bearer challenge.
func Unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	Error(w, http.StatusUnauthorized, message)
}

// NotFound writes a 404 Not Found error response.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// Conflict writes a 409 Conflict error response.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, message)
}

// InternalError writes a 500 Internal Server Error response.
// Do not expose internal details to clients; log the actual error separately.
func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}

// Decode reads and decodes a JSON body into v.
func Decode(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes)).Decode(v)
}

// DecodeOptional is Decode for endpoints whose body may be omitted.
// An empty body leaves v untouched and returns nil.
func DecodeOptional(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	err := Decode(r, v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
