// Package http serves the dashboard page, its htmx partials and JSON views.
//
// This file implements the Builder Pattern for constructing HTMX responses.
// It provides a fluent API for building HX-Trigger headers and consistent
// response formatting.
package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// EventThemeChanged is the client event that re-runs the dashboard tick.
const EventThemeChanged = "theme:changed"

// HTMXResponseBuilder provides a fluent API for building HTMX responses.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewHTMXResponse creates a new response builder with default 200 status.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named trigger with optional data to the HX-Trigger header.
func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerThemeChanged tells the page which theme is now active.
func (b *HTMXResponseBuilder) TriggerThemeChanged(theme string) *HTMXResponseBuilder {
	return b.Trigger(EventThemeChanged, map[string]string{"theme": theme})
}

// Header adds a custom header to the response.
func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers[name] = value
	return b
}

// BodyHTML sets the response body as HTML content.
func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		triggerJSON, err := json.Marshal(b.triggers)
		if err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse creates a standard error response with HTML formatting.
// The message is HTML-escaped for safety.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`)
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// TooManyRequestsError creates a 429 response; htmx keeps the current
// dashboard on screen because it does not swap error responses.
func TooManyRequestsError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}
