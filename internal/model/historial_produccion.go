package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialProduccion is an immutable record of one production event: a batch
// of a product converted from material stock. ProductoNombre is denormalized —
// the snapshot survives renames and deletions of the product.
// Rows are never mutated; the only delete path is the bulk ledger reset.
type HistorialProduccion struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoNombre string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	CostoTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"` // batch cost
	PrecioVenta    decimal.Decimal `gorm:"type:decimal(12,2);not null"` // batch revenue
	Ganancia       decimal.Decimal `gorm:"type:decimal(12,2);not null"` // PrecioVenta − CostoTotal
	CreatedAt      time.Time       `gorm:"index"`

	Materiales []MaterialConsumido `gorm:"foreignKey:HistorialID;constraint:OnDelete:CASCADE"`
}

func (HistorialProduccion) TableName() string { return "historial_produccion" }

// MaterialConsumido records how much of one material a production event
// deducted. MaterialNombre is a snapshot for the dashboard ranking.
type MaterialConsumido struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	HistorialID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialNombre string          `gorm:"not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,4);not null"`
}

func (MaterialConsumido) TableName() string { return "materiales_consumidos" }
