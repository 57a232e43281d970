package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	// ErrLockTimeout: el bloqueo de fila no se adquirió dentro del lock_timeout.
	// Es transitorio; el caller puede reintentar (HTTP 503 + Retry-After).
	ErrLockTimeout = errors.New("bloqueo de fila no disponible, reintentar")
)

// Códigos de regla de negocio.
const (
	RuleInsufficientStock = "INSUFFICIENT_STOCK"
	RuleInvalidCountState = "INVALID_COUNT_STATE"
	RuleWarehouseInUse    = "WAREHOUSE_IN_USE"
	RuleDuplicateCode     = "DUPLICATE_CODE"
)

// RuleError es una violación de regla de negocio con código legible por máquina.
// Se mapea a 409 en el borde HTTP; distinta de ErrLockTimeout (reintentable).
type RuleError struct {
	Code    string
	Message string
}

func (e *RuleError) Error() string { return e.Message }

// NewRuleError construye una violación de regla de negocio.
func NewRuleError(code, format string, args ...any) *RuleError {
	return &RuleError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsRule indica si err es una RuleError con el código dado.
func IsRule(err error, code string) bool {
	var re *RuleError
	return errors.As(err, &re) && re.Code == code
}
