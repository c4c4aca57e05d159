package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovimientoStock registra cada cambio de stock de un material.
// Se crea automáticamente al producir o al ajustar manualmente.
type MovimientoStock struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UsuarioID  uuid.UUID `gorm:"type:uuid;not null;index"`
	MaterialID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo       string    `gorm:"not null"` // "produccion" | "ajuste_manual"
	// Cantidad: positive = entrada, negative = salida.
	Cantidad      decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	StockAnterior decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	StockNuevo    decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	Motivo        string
	// ReferenciaID points at the historial_produccion entry when Tipo == "produccion".
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }
