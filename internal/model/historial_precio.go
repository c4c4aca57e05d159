package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialPrecio registra cada cambio de costo de un material.
// Los registros son inmutables — nunca se eliminan ni modifican.
type HistorialPrecio struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialNombre string          `gorm:"not null"`
	CostoAnterior  decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	CostoNuevo     decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	// VariacionPct = (nuevo − anterior) / anterior × 100; zero when the
	// previous cost was zero (no meaningful percentage exists).
	VariacionPct decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	CreatedAt    time.Time
}

func (HistorialPrecio) TableName() string { return "historial_precios" }
