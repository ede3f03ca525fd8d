// Package apperr defines the typed failures the service layer reports
// to its callers. Each error carries an HTTP-like status so controller
// code can map it to a response without inspecting messages.
package apperr

import "net/http"

type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}
