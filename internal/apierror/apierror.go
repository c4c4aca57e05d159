// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Confirmacion is the envelope for operations that are valid but require the
// caller to acknowledge a warning before proceeding (venta a pérdida, reinicio
// de historial). It is not a hard failure: the client repeats the request with
// the explicit confirmation flag set.
type Confirmacion struct {
	Detail               string      `json:"detail"`
	RequiereConfirmacion bool        `json:"requiere_confirmacion"`
	Datos                interface{} `json:"datos,omitempty"`
}

func NewConfirmacion(msg string, datos interface{}) *Confirmacion {
	return &Confirmacion{Detail: msg, RequiereConfirmacion: true, Datos: datos}
}
