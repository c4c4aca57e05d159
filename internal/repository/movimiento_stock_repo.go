package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Takuas77/BonitasCreaciones/internal/model"
)

// MovimientoStockRepository stores the per-material stock movement log.
type MovimientoStockRepository interface {
	ListByMaterial(ctx context.Context, usuarioID, materialID uuid.UUID, limit int) ([]model.MovimientoStock, error)
	CreateTx(tx *gorm.DB, m *model.MovimientoStock) error
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) ListByMaterial(ctx context.Context, usuarioID, materialID uuid.UUID, limit int) ([]model.MovimientoStock, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var rows []model.MovimientoStock
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND material_id = ?", usuarioID, materialID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *movimientoStockRepo) CreateTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Create(m).Error
}
