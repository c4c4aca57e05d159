package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RecetaItemRequest struct {
	MaterialID string          `json:"material_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"required,gt=0"`
}

// GuardarProductoRequest upserts a product: empty ID creates, known ID edits.
// ConfirmarPerdida acknowledges the "selling below cost" warning; without it
// a below-cost price yields a requiere_confirmacion response instead of a save.
type GuardarProductoRequest struct {
	ID               string              `json:"id"        validate:"omitempty,uuid"`
	Nombre           string              `json:"nombre"    validate:"required,min=2,max=120"`
	Categoria        string              `json:"categoria"`
	Receta           []RecetaItemRequest `json:"receta"    validate:"dive"`
	Margen           *decimal.Decimal    `json:"margen"`
	Precio           decimal.Decimal     `json:"precio"`
	ImagenURL        string              `json:"imagen_url"`
	ConfirmarPerdida bool                `json:"confirmar_perdida"`
}

// CotizarRequest derives the missing side of the margin/price pair for a draft
// recipe. Exactly one of Margen or Precio drives the other per call.
type CotizarRequest struct {
	Receta []RecetaItemRequest `json:"receta" validate:"required,min=1,dive"`
	Margen *decimal.Decimal    `json:"margen"`
	Precio *decimal.Decimal    `json:"precio"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RecetaItemResponse struct {
	MaterialID     string          `json:"material_id"`
	MaterialNombre string          `json:"material_nombre,omitempty"`
	Cantidad       decimal.Decimal `json:"cantidad"`
}

type ProductoResponse struct {
	ID         string               `json:"id"`
	Nombre     string               `json:"nombre"`
	Categoria  string               `json:"categoria"`
	Receta     []RecetaItemResponse `json:"receta"`
	CostoTotal decimal.Decimal      `json:"costo_total"`
	Margen     decimal.Decimal      `json:"margen"`
	Precio     decimal.Decimal      `json:"precio"`
	ImagenURL  string               `json:"imagen_url,omitempty"`
}

type CotizarResponse struct {
	CostoTotal decimal.Decimal `json:"costo_total"`
	Margen     decimal.Decimal `json:"margen"`
	Precio     decimal.Decimal `json:"precio"`
	// MargenAplicable=false means costo_total is zero and the stored margin
	// was left untouched (price→margin derivation is undefined at cost 0).
	MargenAplicable bool `json:"margen_aplicable"`
}

// PerdidaDatos travels inside the requiere_confirmacion envelope so the UI can
// show cost, price and loss before asking the user to proceed.
type PerdidaDatos struct {
	Costo   decimal.Decimal `json:"costo"`
	Precio  decimal.Decimal `json:"precio"`
	Perdida decimal.Decimal `json:"perdida"`
}
