// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing HTMX responses.
// It provides a type-safe, fluent API for building HX-Trigger headers and
// consistent response formatting.

package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// HTMXResponseBuilder provides a fluent interface for building HTMX responses.
type HTMXResponseBuilder struct {
	triggers   map[string]interface{}
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewHTMXResponse creates a new HTMX response builder.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]interface{}),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code.
func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds an HX-Trigger event with optional data.
func (b *HTMXResponseBuilder) Trigger(event string, data interface{}) *HTMXResponseBuilder {
	b.triggers[event] = data
	return b
}

// Header adds a custom header to the response.
func (b *HTMXResponseBuilder) Header(key, value string) *HTMXResponseBuilder {
	b.headers[key] = value
	return b
}

// Body sets the response body.
func (b *HTMXResponseBuilder) Body(body []byte) *HTMXResponseBuilder {
	b.body = body
	return b
}

// BodyString sets the response body from a string.
func (b *HTMXResponseBuilder) BodyString(body string) *HTMXResponseBuilder {
	b.body = []byte(body)
	return b
}

// BodyHTML sets an HTML response body and content type.
func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// Write sends the response to the client.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	for key, value := range b.headers {
		w.Header().Set(key, value)
	}

	w.WriteHeader(b.statusCode)

	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// TriggerRecordCreated adds the record:created event with the record
// kind and the month it lands in.
func (b *HTMXResponseBuilder) TriggerRecordCreated(kind string, year, month int) *HTMXResponseBuilder {
	return b.Trigger("record:created", map[string]interface{}{
		"kind":  kind,
		"year":  year,
		"month": month,
	})
}

// TriggerRecordDeleted adds the record:deleted event.
func (b *HTMXResponseBuilder) TriggerRecordDeleted(kind string) *HTMXResponseBuilder {
	return b.Trigger("record:deleted", map[string]string{"kind": kind})
}

// TriggerDashboardRefresh adds the dashboard:refresh event.
func (b *HTMXResponseBuilder) TriggerDashboardRefresh() *HTMXResponseBuilder {
	return b.Trigger("dashboard:refresh", struct{}{})
}

// TriggerDebtsChanged adds the debts:changed event.
func (b *HTMXResponseBuilder) TriggerDebtsChanged() *HTMXResponseBuilder {
	return b.Trigger("debts:changed", struct{}{})
}

// TriggerGoalsChanged adds the goals:changed event.
func (b *HTMXResponseBuilder) TriggerGoalsChanged() *HTMXResponseBuilder {
	return b.Trigger("goals:changed", struct{}{})
}

// TriggerBudgetsChanged adds the budgets:changed event.
func (b *HTMXResponseBuilder) TriggerBudgetsChanged() *HTMXResponseBuilder {
	return b.Trigger("budgets:changed", struct{}{})
}

// TriggerFormReset adds the form:reset event.
func (b *HTMXResponseBuilder) TriggerFormReset() *HTMXResponseBuilder {
	return b.Trigger("form:reset", struct{}{})
}

// NotificationType represents the type of notification to display.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// TriggerNotification adds a show-notification event.
func (b *HTMXResponseBuilder) TriggerNotification(notificationType NotificationType, message string, durationMs int) *HTMXResponseBuilder {
	return b.Trigger("show-notification", map[string]interface{}{
		"type":     string(notificationType),
		"message":  message,
		"duration": durationMs,
	})
}

// TriggerSuccessNotification adds a success notification with default duration.
func (b *HTMXResponseBuilder) TriggerSuccessNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationSuccess, message, 3000)
}

// TriggerErrorNotification adds an error notification with default duration.
func (b *HTMXResponseBuilder) TriggerErrorNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationError, message, 5000)
}

// ErrorResponse creates a standardized HTML error response.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`)
}

// BadRequestError creates a 400 error response.
func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 error response.
func UnprocessableEntityError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// InternalServerError creates a 500 error response.
func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// NotFoundError creates a 404 error response.
func NotFoundError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// MethodNotAllowedError creates a 405 error response with an Allow header.
func MethodNotAllowedError(allowedMethods string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowedMethods).
		BodyHTML(`<div class="error">Method not allowed</div>`)
}
