package service

import (
	"fmt"
	"strings"

	"github.com/Takuas77/BonitasCreaciones/internal/dto"
)

// Typed errors the handlers translate into HTTP responses. Plain errors.New
// is used for one-off messages; these carry structured context the UI needs
// to resolve the situation (colliding names, shortfall lists, loss figures).

// ValidacionError rejects bad input before any persistence call.
type ValidacionError struct{ Detalle string }

func (e *ValidacionError) Error() string { return e.Detalle }

// ConflictoError signals a state conflict (duplicate name) the caller must
// resolve before retrying.
type ConflictoError struct{ Detalle string }

func (e *ConflictoError) Error() string { return e.Detalle }

// MaterialEnUsoError blocks material deletion while recipes reference it.
type MaterialEnUsoError struct{ Productos []string }

func (e *MaterialEnUsoError) Error() string {
	return fmt.Sprintf("El material está siendo usado en: %s", strings.Join(e.Productos, ", "))
}

// StockInsuficienteError aborts a production batch; carries every short
// ingredient so the UI can show the full shortfall table.
type StockInsuficienteError struct {
	Cantidad  int
	Faltantes []dto.FaltanteStock
}

func (e *StockInsuficienteError) Error() string {
	nombres := make([]string, 0, len(e.Faltantes))
	for _, f := range e.Faltantes {
		nombres = append(nombres, f.MaterialNombre)
	}
	return fmt.Sprintf("Stock insuficiente para producir %d unidad(es): %s",
		e.Cantidad, strings.Join(nombres, ", "))
}

// ConfirmacionRequeridaError is not a failure: the operation is valid but the
// caller must acknowledge a warning (venta a pérdida, reinicio de historial)
// by repeating the request with the confirmation flag set.
type ConfirmacionRequeridaError struct {
	Detalle string
	Datos   interface{}
}

func (e *ConfirmacionRequeridaError) Error() string { return e.Detalle }
