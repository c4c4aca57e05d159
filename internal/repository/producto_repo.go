package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Takuas77/BonitasCreaciones/internal/dto"
	"github.com/Takuas77/BonitasCreaciones/internal/model"
)

// ProductoRepository defines the data access contract for products and their
// recipe lines. Recipe lines are always loaded with the product, ordered by
// the position in which ingredients were added.
type ProductoRepository interface {
	List(ctx context.Context, usuarioID uuid.UUID, filter dto.ProductoFilter) ([]model.Producto, error)
	FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Producto, error)
	FindByNombre(ctx context.Context, usuarioID uuid.UUID, nombre string) (*model.Producto, error)
	// FindByMaterial returns every product whose recipe references materialID —
	// drives the cascade recompute and the delete-in-use guard.
	FindByMaterial(ctx context.Context, usuarioID, materialID uuid.UUID) ([]model.Producto, error)
	Delete(ctx context.Context, usuarioID, id uuid.UUID) error

	// SaveTx upserts the product and replaces its recipe lines atomically.
	SaveTx(tx *gorm.DB, p *model.Producto) error
	// UpdateDerivadosTx rewrites the derived costo_total/precio pair (cascade).
	UpdateDerivadosTx(tx *gorm.DB, id uuid.UUID, costoTotal, precio decimal.Decimal) error

	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func recetaOrdenada(db *gorm.DB) *gorm.DB { return db.Order("receta_items.posicion ASC") }

func (r *productoRepo) List(ctx context.Context, usuarioID uuid.UUID, filter dto.ProductoFilter) ([]model.Producto, error) {
	var productos []model.Producto
	q := r.db.WithContext(ctx).Where("usuario_id = ?", usuarioID)
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	err := q.Preload("Receta", recetaOrdenada).Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND id = ?", usuarioID, id).
		Preload("Receta", recetaOrdenada).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) FindByNombre(ctx context.Context, usuarioID uuid.UUID, nombre string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND LOWER(nombre) = LOWER(?)", usuarioID, nombre).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) FindByMaterial(ctx context.Context, usuarioID, materialID uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Joins("JOIN receta_items ON receta_items.producto_id = productos.id").
		Where("productos.usuario_id = ? AND receta_items.material_id = ?", usuarioID, materialID).
		Distinct().
		Preload("Receta", recetaOrdenada).
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Delete(ctx context.Context, usuarioID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("producto_id = ?", id).Delete(&model.RecetaItem{}).Error; err != nil {
			return err
		}
		return tx.Where("usuario_id = ? AND id = ?", usuarioID, id).
			Delete(&model.Producto{}).Error
	})
}

func (r *productoRepo) SaveTx(tx *gorm.DB, p *model.Producto) error {
	// Replace-all semantics for the recipe: drop existing lines, re-insert.
	if err := tx.Where("producto_id = ?", p.ID).Delete(&model.RecetaItem{}).Error; err != nil {
		return err
	}
	receta := p.Receta
	if err := tx.Omit("Receta").Save(p).Error; err != nil {
		return err
	}
	for i := range receta {
		receta[i].ProductoID = p.ID
		if receta[i].ID == uuid.Nil {
			receta[i].ID = uuid.New()
		}
		receta[i].Posicion = i
	}
	if len(receta) == 0 {
		return nil
	}
	return tx.Create(&receta).Error
}

func (r *productoRepo) UpdateDerivadosTx(tx *gorm.DB, id uuid.UUID, costoTotal, precio decimal.Decimal) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Updates(map[string]interface{}{
		"costo_total": costoTotal,
		"precio":      precio,
	}).Error
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
