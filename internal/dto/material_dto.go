package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// GuardarMaterialRequest upserts a material: empty ID creates, known ID edits.
type GuardarMaterialRequest struct {
	ID               string          `json:"id"                validate:"omitempty,uuid"`
	Nombre           string          `json:"nombre"            validate:"required,min=2,max=120"`
	Categoria        string          `json:"categoria"`
	Unidad           string          `json:"unidad"`
	Costo            decimal.Decimal `json:"costo"`
	Stock            decimal.Decimal `json:"stock"`
	FactorConversion decimal.Decimal `json:"factor_conversion"`
	ImagenURL        string          `json:"imagen_url"`
}

type AjustarStockRequest struct {
	// Delta: positive = entrada (compra), negative = salida (merma, rotura).
	Delta  decimal.Decimal `json:"delta" validate:"required"`
	Motivo string          `json:"motivo"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type MaterialFilter struct {
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MaterialResponse struct {
	ID               string          `json:"id"`
	Nombre           string          `json:"nombre"`
	Categoria        string          `json:"categoria"`
	Unidad           string          `json:"unidad"`
	Costo            decimal.Decimal `json:"costo"`
	Stock            decimal.Decimal `json:"stock"`
	FactorConversion decimal.Decimal `json:"factor_conversion"`
	ImagenURL        string          `json:"imagen_url,omitempty"`
}

type HistorialPrecioResponse struct {
	MaterialID     string          `json:"material_id"`
	MaterialNombre string          `json:"material_nombre"`
	CostoAnterior  decimal.Decimal `json:"costo_anterior"`
	CostoNuevo     decimal.Decimal `json:"costo_nuevo"`
	VariacionPct   decimal.Decimal `json:"variacion_pct"`
	Fecha          string          `json:"fecha"`
}

type MovimientoStockResponse struct {
	MaterialID    string          `json:"material_id"`
	Tipo          string          `json:"tipo"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	StockAnterior decimal.Decimal `json:"stock_anterior"`
	StockNuevo    decimal.Decimal `json:"stock_nuevo"`
	Motivo        string          `json:"motivo,omitempty"`
	Fecha         string          `json:"fecha"`
}
