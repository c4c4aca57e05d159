package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProducirRequest registers a production batch: validates stock for the whole
// batch, deducts every ingredient and appends one ledger entry — all or nothing.
type ProducirRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,gt=0"`
	// PrecioVenta is the per-unit sale price for this batch.
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	// ConfirmarPerdida acknowledges the below-cost warning (stage 3).
	ConfirmarPerdida bool `json:"confirmar_perdida"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// FaltanteStock describes one short ingredient when a batch cannot be produced.
type FaltanteStock struct {
	MaterialID     string          `json:"material_id"`
	MaterialNombre string          `json:"material_nombre"`
	Unidad         string          `json:"unidad"`
	Necesario      decimal.Decimal `json:"necesario"`
	Disponible     decimal.Decimal `json:"disponible"`
	Faltante       decimal.Decimal `json:"faltante"`
}

type MaterialUsadoResponse struct {
	MaterialID     string          `json:"material_id"`
	MaterialNombre string          `json:"material_nombre"`
	Cantidad       decimal.Decimal `json:"cantidad"`
}

type ProduccionResponse struct {
	ID             string                  `json:"id"`
	ProductoID     string                  `json:"producto_id"`
	ProductoNombre string                  `json:"producto_nombre"`
	Cantidad       int                     `json:"cantidad"`
	CostoTotal     decimal.Decimal         `json:"costo_total"`
	PrecioVenta    decimal.Decimal         `json:"precio_venta"`
	Ganancia       decimal.Decimal         `json:"ganancia"`
	Materiales     []MaterialUsadoResponse `json:"materiales_usados"`
	Fecha          string                  `json:"fecha"`
}
