package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Takuas77/BonitasCreaciones/internal/dto"
	"github.com/Takuas77/BonitasCreaciones/internal/model"
)

// MaterialRepository defines the data access contract for materials.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type MaterialRepository interface {
	List(ctx context.Context, usuarioID uuid.UUID, filter dto.MaterialFilter) ([]model.Material, error)
	FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Material, error)
	// FindByNombre matches case-insensitively (duplicate-name guard).
	FindByNombre(ctx context.Context, usuarioID uuid.UUID, nombre string) (*model.Material, error)
	Delete(ctx context.Context, usuarioID, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance.
	SaveTx(tx *gorm.DB, m *model.Material) error
	// DescontarStockTx deducts cantidad only when the current stock covers it.
	// Returns false (no rows affected) when a concurrent deduction got there
	// first — the caller must abort and roll back the enclosing transaction.
	DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (bool, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type materialRepo struct{ db *gorm.DB }

func NewMaterialRepository(db *gorm.DB) MaterialRepository { return &materialRepo{db: db} }

func (r *materialRepo) List(ctx context.Context, usuarioID uuid.UUID, filter dto.MaterialFilter) ([]model.Material, error) {
	var materiales []model.Material
	q := r.db.WithContext(ctx).Where("usuario_id = ?", usuarioID)
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	err := q.Order("nombre ASC").Find(&materiales).Error
	return materiales, err
}

func (r *materialRepo) FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Material, error) {
	var m model.Material
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND id = ?", usuarioID, id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *materialRepo) FindByNombre(ctx context.Context, usuarioID uuid.UUID, nombre string) (*model.Material, error) {
	var m model.Material
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND LOWER(nombre) = LOWER(?)", usuarioID, nombre).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *materialRepo) Delete(ctx context.Context, usuarioID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("usuario_id = ? AND id = ?", usuarioID, id).
		Delete(&model.Material{}).Error
}

func (r *materialRepo) SaveTx(tx *gorm.DB, m *model.Material) error {
	return tx.Save(m).Error
}

func (r *materialRepo) DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (bool, error) {
	res := tx.Model(&model.Material{}).
		Where("id = ? AND stock >= ?", id, cantidad).
		Update("stock", gorm.Expr("stock - ?", cantidad))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *materialRepo) DB() *gorm.DB { return r.db }
