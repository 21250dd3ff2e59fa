package vmerr

import (
	"net/http"
	"strings"
)

// Rule maps a diagnostic substring to a kind
type Rule struct {
	Match string
	Kind  Kind
}

// Rules is an ordered rule table; the first match wins
type Rules []Rule

// Classify returns the kind of the first rule whose Match occurs in text,
// compared case-insensitively, or fallback.
func (r Rules) Classify(text string, fallback Kind) Kind {
	lower := strings.ToLower(text)
	for _, rule := range r {
		if strings.Contains(lower, strings.ToLower(rule.Match)) {
			return rule.Kind
		}
	}
	return fallback
}

// Error classifies text and returns it as the detail of a new error
func (r Rules) Error(text string) *Error {
	return New(r.Classify(text, BackendError), text)
}

// FromStatus maps an HTTP status code of a failed request to a kind
func FromStatus(code int) Kind {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return AuthenticationFailure
	case http.StatusNotFound:
		return NotFound
	case http.StatusNotImplemented, http.StatusMethodNotAllowed:
		return UnsupportedOperation
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return Timeout
	}
	return BackendError
}
