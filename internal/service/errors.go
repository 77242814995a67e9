package service

import (
	"errors"
	"sort"
	"strings"

	"koalgroup/internal/policy"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("no encontrado")
	ErrForbidden          = errors.New("no tiene permiso para realizar esta accion")
	ErrInvalidCredentials = errors.New("credenciales invalidas")
	// ErrConflict is returned when the resource is not in a state that allows
	// the operation, e.g. downloading a report that is still pending.
	ErrConflict = errors.New("conflicto de estado")
)

// ValidationError reports invalid input keyed by JSON field name. Nothing is
// persisted when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validacion: " + strings.Join(parts, "; ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// fromPolicy maps policy refusals to ErrForbidden.
func fromPolicy(err error) error {
	if errors.Is(err, policy.ErrNotExposed) || errors.Is(err, policy.ErrCreateDenied) {
		return ErrForbidden
	}
	return err
}

// fromDB maps GORM sentinel errors to service errors.
func fromDB(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fieldError("non_field_errors", "ya existe un registro con estos datos")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fieldError("non_field_errors", "referencia invalida")
	}
	return err
}
