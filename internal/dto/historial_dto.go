package dto

import "github.com/shopspring/decimal"

// ─── Filter ──────────────────────────────────────────────────────────────────

type HistorialFilter struct {
	ProductoID string `form:"producto_id"`
	Limit      int    `form:"limit,default=50" validate:"min=0,max=500"`
}

// ReiniciarHistorialRequest clears the whole ledger. Irreversible — the
// explicit flag is required so no client wipes history by accident.
type ReiniciarHistorialRequest struct {
	Confirmar bool `json:"confirmar"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ConsumoMaterial struct {
	MaterialID     string          `json:"material_id"`
	MaterialNombre string          `json:"material_nombre"`
	CantidadTotal  decimal.Decimal `json:"cantidad_total"`
}

// ResumenResponse feeds the dashboard: ledger-wide totals plus the five most
// consumed materials.
type ResumenResponse struct {
	VentasTotales  decimal.Decimal   `json:"ventas_totales"`
	CostosTotales  decimal.Decimal   `json:"costos_totales"`
	Ganancia       decimal.Decimal   `json:"ganancia"`
	Producciones   int               `json:"producciones"`
	TopConsumidos  []ConsumoMaterial `json:"top_consumidos"`
}
