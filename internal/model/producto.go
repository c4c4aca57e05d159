package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a sellable item composed from a recipe of materials.
// CostoTotal is derived (Σ cantidad × costo del material) and recomputed on
// every save and on every cost change of a referenced material.
type Producto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UsuarioID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre    string    `gorm:"index;not null"`
	Categoria string    `gorm:"not null;default:'General'"`
	// Margen is the percentage markup over cost (50 → precio = costo × 1.5).
	Margen     decimal.Decimal `gorm:"type:decimal(8,2);not null;default:50"`
	Precio     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoTotal decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	ImagenURL  string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Receta []RecetaItem `gorm:"foreignKey:ProductoID;constraint:OnDelete:CASCADE"`
}

func (Producto) TableName() string { return "productos" }

// RecetaItem is one line of a product's recipe: the quantity of a material
// consumed per unit produced. MaterialID is a weak reference — integrity is
// checked at use time (costing silently skips dangling lines; deletion of a
// referenced material is blocked by the service layer).
type RecetaItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	// Posicion preserves the order in which ingredients were added.
	Posicion int `gorm:"not null;default:0"`
}

func (RecetaItem) TableName() string { return "receta_items" }
