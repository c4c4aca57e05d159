package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Material is a purchased input with a per-unit cost and on-hand stock.
// Nombre is unique (case-insensitive) within a user's registry — enforced in
// the service layer, not by a DB constraint, so the error can carry context.
type Material struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UsuarioID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre    string    `gorm:"index;not null"`
	Categoria string    `gorm:"not null;default:'Otros'"`
	// Unidad is a display label (kg, litros, unidades…) — never converted.
	Unidad string          `gorm:"not null;default:'unidad'"`
	Costo  decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	Stock  decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	// FactorConversion is stored for compatibility with existing exports.
	// No computation consumes it.
	FactorConversion decimal.Decimal `gorm:"type:decimal(12,4);not null;default:1"`
	ImagenURL        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Material) TableName() string { return "materiales" }
