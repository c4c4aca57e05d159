package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Takuas77/BonitasCreaciones/internal/dto"
	"github.com/Takuas77/BonitasCreaciones/internal/model"
)

// HistorialRepository is the append-only production ledger. Entries are never
// updated; the only delete paths are the retention trim and the bulk reset.
type HistorialRepository interface {
	// List returns entries newest-first. filter.Limit == 0 means no limit
	// (used by the dashboard aggregation and the full export).
	List(ctx context.Context, usuarioID uuid.UUID, filter dto.HistorialFilter) ([]model.HistorialProduccion, error)
	Clear(ctx context.Context, usuarioID uuid.UUID) error

	// Used inside the production commit transaction.
	CreateTx(tx *gorm.DB, h *model.HistorialProduccion) error
	// TrimTx drops the oldest entries beyond the retention cap. cap <= 0 keeps
	// everything.
	TrimTx(tx *gorm.DB, usuarioID uuid.UUID, cap int) error

	DB() *gorm.DB
}

type historialRepo struct{ db *gorm.DB }

func NewHistorialRepository(db *gorm.DB) HistorialRepository { return &historialRepo{db: db} }

func (r *historialRepo) List(ctx context.Context, usuarioID uuid.UUID, filter dto.HistorialFilter) ([]model.HistorialProduccion, error) {
	var entradas []model.HistorialProduccion
	q := r.db.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Preload("Materiales").
		Order("created_at DESC")
	if filter.ProductoID != "" {
		q = q.Where("producto_id = ?", filter.ProductoID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	err := q.Find(&entradas).Error
	return entradas, err
}

func (r *historialRepo) Clear(ctx context.Context, usuarioID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("historial_id IN (?)",
			tx.Model(&model.HistorialProduccion{}).Select("id").Where("usuario_id = ?", usuarioID),
		).Delete(&model.MaterialConsumido{}).Error; err != nil {
			return err
		}
		return tx.Where("usuario_id = ?", usuarioID).
			Delete(&model.HistorialProduccion{}).Error
	})
}

func (r *historialRepo) CreateTx(tx *gorm.DB, h *model.HistorialProduccion) error {
	return tx.Create(h).Error
}

func (r *historialRepo) TrimTx(tx *gorm.DB, usuarioID uuid.UUID, cap int) error {
	if cap <= 0 {
		return nil
	}
	keep := tx.Model(&model.HistorialProduccion{}).
		Select("id").
		Where("usuario_id = ?", usuarioID).
		Order("created_at DESC").
		Limit(cap)
	drop := tx.Model(&model.HistorialProduccion{}).
		Select("id").
		Where("usuario_id = ?", usuarioID).
		Where("id NOT IN (?)", keep)
	if err := tx.Where("historial_id IN (?)", drop).
		Delete(&model.MaterialConsumido{}).Error; err != nil {
		return err
	}
	return tx.Where("usuario_id = ? AND id NOT IN (?)", usuarioID, keep).
		Delete(&model.HistorialProduccion{}).Error
}

func (r *historialRepo) DB() *gorm.DB { return r.db }
