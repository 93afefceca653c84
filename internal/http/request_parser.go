// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// It reduces code duplication by providing reusable functions for common
// query parsing, body extraction, and input sanitization patterns.

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MonthParams holds parsed year/month parameters from HTTP requests.
type MonthParams struct {
	Year  int
	Month int
}

// ParseMonthParams extracts year/month from query parameters with
// current-date defaults. Invalid values are ignored.
func ParseMonthParams(query url.Values) MonthParams {
	now := time.Now()
	params := MonthParams{
		Year:  now.Year(),
		Month: int(now.Month()),
	}

	if yearStr := strings.TrimSpace(query.Get("year")); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil {
			params.Year = year
		}
	}
	if monthStr := strings.TrimSpace(query.Get("month")); monthStr != "" {
		if month, err := strconv.Atoi(monthStr); err == nil {
			params.Month = month
		}
	}

	return params
}

// RequestBodyParser handles parsing of request bodies in JSON or form format.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	body, err := io.ReadAll(r.Body)
	parser := &RequestBodyParser{
		body:        body,
		contentType: r.Header.Get("Content-Type"),
	}
	if err != nil {
		parser.err = fmt.Errorf("failed to read request body: %w", err)
	}
	return parser
}

// Parse attempts to parse the body as JSON first, then as form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = make(url.Values)
		return nil
	}

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = fmt.Errorf("invalid JSON body: %w", err)
			return p.err
		}
		return nil
	}

	formData, err := url.ParseQuery(trimmed)
	if err != nil {
		p.err = fmt.Errorf("invalid form body: %w", err)
		return p.err
	}
	p.formData = formData
	return nil
}

// Get retrieves a value by key from the parsed data, sanitized.
func (p *RequestBodyParser) Get(key string) string {
	if !p.parsed || p.err != nil {
		return ""
	}

	if p.jsonData != nil {
		if value, ok := p.jsonData[key]; ok {
			return sanitizeInput(strings.TrimSpace(stringValue(value)))
		}
		return ""
	}

	if p.formData != nil {
		return sanitizeInput(strings.TrimSpace(p.formData.Get(key)))
	}

	return ""
}

// IsJSON reports whether the parsed body was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.parsed && p.jsonData != nil
}

// stringValue converts a JSON value to its string form.
func stringValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// parseBodyID extracts and validates the numeric id field from a JSON
// or form request body. The second return value carries the error
// response when extraction fails.
func parseBodyID(r *http.Request) (int64, *HTMXResponseBuilder) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		return 0, BadRequestError("Invalid request format")
	}

	idStr := parser.Get("id")
	if idStr == "" {
		return 0, BadRequestError("Missing record id")
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, BadRequestError("Invalid record id")
	}

	return id, nil
}

// RequireMethod returns an error response if the request method is not
// one of the allowed methods.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, method := range methods {
		if r.Method == method {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST returns an error response if the request is not a POST.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireDeleteOrPOST returns an error response if the request is
// neither DELETE nor POST.
func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}

// ParseFormOrFail parses form data, returning an error response on failure.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}
