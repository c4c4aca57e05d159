// Package costing holds the pure cost/price/margin math. Functions here are
// deterministic, touch no storage and are safe to call from any layer.
package costing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Takuas77/BonitasCreaciones/internal/model"
)

var cien = decimal.NewFromInt(100)

// IndexarMateriales builds the lookup map CostoReceta expects.
func IndexarMateriales(materiales []model.Material) map[uuid.UUID]model.Material {
	idx := make(map[uuid.UUID]model.Material, len(materiales))
	for _, m := range materiales {
		idx[m.ID] = m
	}
	return idx
}

// CostoReceta suma cantidad × costo sobre todas las líneas cuya referencia de
// material resuelve en el índice. Lines pointing at a material that no longer
// exists contribute 0 — documented policy, not an error (legacy data may carry
// dangling references). Empty recipe → 0.
func CostoReceta(lineas []model.RecetaItem, materiales map[uuid.UUID]model.Material) decimal.Decimal {
	total := decimal.Zero
	for _, linea := range lineas {
		mat, ok := materiales[linea.MaterialID]
		if !ok {
			continue
		}
		total = total.Add(linea.Cantidad.Mul(mat.Costo))
	}
	return total
}

// PrecioDesdeMargen deriva el precio de venta: costo × (1 + margen/100).
// El margen no se limita — un valor negativo representa un descuento.
func PrecioDesdeMargen(costo, margenPct decimal.Decimal) decimal.Decimal {
	return costo.Mul(decimal.NewFromInt(1).Add(margenPct.Div(cien)))
}

// MargenDesdePrecio deriva el margen: ((precio − costo) / costo) × 100.
// Returns ok=false when costo is zero — the margin is undefined and the
// caller must leave the stored margin untouched.
func MargenDesdePrecio(costo, precio decimal.Decimal) (decimal.Decimal, bool) {
	if costo.IsZero() {
		return decimal.Zero, false
	}
	return precio.Sub(costo).Div(costo).Mul(cien), true
}
