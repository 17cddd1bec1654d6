package types

// SuccessEnvelope wraps every successful response body so kiosk clients
// can always read the payload from a "data" field.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing shape of a failure. Code is a stable
// machine-readable string; Message is safe to show on the kiosk screen.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError under an "error" field, mirroring the
// "data" field of successful responses.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
