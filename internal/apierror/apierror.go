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

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Field builds a ValidationError for a single field.
func Field(name, msg string) *ValidationError {
	return NewValidation(map[string]string{name: msg})
}

// Shared client-facing messages. They never mention whether a row exists.
const (
	MsgAuthRequired       = "Autenticacion requerida"
	MsgInvalidToken       = "Token invalido o expirado"
	MsgInvalidCredentials = "Credenciales invalidas"
	MsgForbidden          = "No tiene permiso para realizar esta accion"
	MsgNotFound           = "No encontrado"
	MsgConflict           = "El recurso no admite esta operacion en su estado actual"
	MsgInternal           = "Error interno del servidor"
	MsgTooManyRequests    = "Demasiadas solicitudes. Intente nuevamente en un momento."
	MsgTooManyLogins      = "Demasiados intentos de login. Intente en 1 minuto."
)
