// Package types holds the JSON envelopes every Guia Mercado response is
// wrapped in. The API writes them and the shopper client reads them back.
package types

// SuccessEnvelope wraps a 2xx body: {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public part of a failure. Code is one of the
// pkg/errors codes, e.g. "VALIDATION_ERROR" or "IDEMPOTENCY_KEY_REUSED".
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps a 4xx/5xx body: {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Coded reports whether the body carried an API error code, which tells
// an envelope apart from a proxy's plain-text or HTML error page.
func (e ErrorEnvelope) Coded() bool {
	return e.Error.Code != ""
}
