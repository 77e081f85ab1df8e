// Package types holds the JSON envelopes shared by every API response.
package types

// SuccessEnvelope wraps successful payloads under a top-level "data" key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire form of a pkg/errors code plus its client-safe
// message and optional field details.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError under a top-level "error" key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
