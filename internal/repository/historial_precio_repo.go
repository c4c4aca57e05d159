package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Takuas77/BonitasCreaciones/internal/model"
)

// HistorialPrecioRepository stores the immutable material cost-change log.
type HistorialPrecioRepository interface {
	// ListByMaterial returns cost changes for one material, newest-first.
	ListByMaterial(ctx context.Context, usuarioID, materialID uuid.UUID, limit int) ([]model.HistorialPrecio, error)
	// ListAll feeds the full-state export.
	ListAll(ctx context.Context, usuarioID uuid.UUID) ([]model.HistorialPrecio, error)
	CreateTx(tx *gorm.DB, h *model.HistorialPrecio) error
}

type historialPrecioRepo struct{ db *gorm.DB }

func NewHistorialPrecioRepository(db *gorm.DB) HistorialPrecioRepository {
	return &historialPrecioRepo{db: db}
}

func (r *historialPrecioRepo) ListByMaterial(ctx context.Context, usuarioID, materialID uuid.UUID, limit int) ([]model.HistorialPrecio, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var rows []model.HistorialPrecio
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND material_id = ?", usuarioID, materialID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *historialPrecioRepo) ListAll(ctx context.Context, usuarioID uuid.UUID) ([]model.HistorialPrecio, error) {
	var rows []model.HistorialPrecio
	err := r.db.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *historialPrecioRepo) CreateTx(tx *gorm.DB, h *model.HistorialPrecio) error {
	return tx.Create(h).Error
}
