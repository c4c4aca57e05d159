package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Takuas77/BonitasCreaciones/internal/costing"
	"github.com/Takuas77/BonitasCreaciones/internal/dto"
	"github.com/Takuas77/BonitasCreaciones/internal/model"
	"github.com/Takuas77/BonitasCreaciones/internal/repository"
)

// MaterialService defines the business logic contract for the material registry.
type MaterialService interface {
	Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.MaterialFilter) ([]dto.MaterialResponse, error)
	// Guardar upserts a material and returns the updated full list. A cost
	// change on an existing material appends a price-history record and
	// synchronously recomputes every dependent product, all in one transaction.
	Guardar(ctx context.Context, usuarioID uuid.UUID, req dto.GuardarMaterialRequest) ([]dto.MaterialResponse, error)
	// Eliminar rejects with MaterialEnUsoError while any recipe references the id.
	Eliminar(ctx context.Context, usuarioID, id uuid.UUID) ([]dto.MaterialResponse, error)
	AjustarStock(ctx context.Context, usuarioID, id uuid.UUID, req dto.AjustarStockRequest) (*dto.MaterialResponse, error)
	HistorialPrecios(ctx context.Context, usuarioID, materialID uuid.UUID, limit int) ([]dto.HistorialPrecioResponse, error)
	Movimientos(ctx context.Context, usuarioID, materialID uuid.UUID, limit int) ([]dto.MovimientoStockResponse, error)
}

type materialService struct {
	repo         repository.MaterialRepository
	productoRepo repository.ProductoRepository
	precioRepo   repository.HistorialPrecioRepository
	movRepo      repository.MovimientoStockRepository
}

func NewMaterialService(
	repo repository.MaterialRepository,
	productoRepo repository.ProductoRepository,
	precioRepo repository.HistorialPrecioRepository,
	movRepo repository.MovimientoStockRepository,
) MaterialService {
	return &materialService{
		repo:         repo,
		productoRepo: productoRepo,
		precioRepo:   precioRepo,
		movRepo:      movRepo,
	}
}

func mapMaterial(m model.Material) dto.MaterialResponse {
	return dto.MaterialResponse{
		ID:               m.ID.String(),
		Nombre:           m.Nombre,
		Categoria:        m.Categoria,
		Unidad:           m.Unidad,
		Costo:            m.Costo,
		Stock:            m.Stock,
		FactorConversion: m.FactorConversion,
		ImagenURL:        m.ImagenURL,
	}
}

func mapMateriales(materiales []model.Material) []dto.MaterialResponse {
	result := make([]dto.MaterialResponse, 0, len(materiales))
	for _, m := range materiales {
		result = append(result, mapMaterial(m))
	}
	return result
}

func (s *materialService) Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.MaterialFilter) ([]dto.MaterialResponse, error) {
	materiales, err := s.repo.List(ctx, usuarioID, filter)
	if err != nil {
		return nil, err
	}
	return mapMateriales(materiales), nil
}

func (s *materialService) Guardar(ctx context.Context, usuarioID uuid.UUID, req dto.GuardarMaterialRequest) ([]dto.MaterialResponse, error) {
	if req.Costo.IsNegative() || req.Stock.IsNegative() || req.FactorConversion.IsNegative() {
		return nil, &ValidacionError{Detalle: "Los valores no pueden ser negativos"}
	}

	id := uuid.New()
	var existente *model.Material
	if req.ID != "" {
		parsed, err := uuid.Parse(req.ID)
		if err != nil {
			return nil, &ValidacionError{Detalle: "ID de material inválido"}
		}
		id = parsed
		if m, err := s.repo.FindByID(ctx, usuarioID, id); err == nil {
			existente = m
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	// Duplicate name (case-insensitive) against a different material.
	if otro, err := s.repo.FindByNombre(ctx, usuarioID, req.Nombre); err == nil && otro.ID != id {
		return nil, &ConflictoError{Detalle: fmt.Sprintf("Ya existe un material con el nombre %q", req.Nombre)}
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	material := model.Material{
		ID:               id,
		UsuarioID:        usuarioID,
		Nombre:           req.Nombre,
		Categoria:        req.Categoria,
		Unidad:           req.Unidad,
		Costo:            req.Costo,
		Stock:            req.Stock,
		FactorConversion: req.FactorConversion,
		ImagenURL:        req.ImagenURL,
	}
	if material.Categoria == "" {
		material.Categoria = "Otros"
	}
	if material.Unidad == "" {
		material.Unidad = "unidad"
	}
	if material.FactorConversion.IsZero() {
		material.FactorConversion = decimal.NewFromInt(1)
	}
	if existente != nil {
		material.CreatedAt = existente.CreatedAt
	}

	cambioCosto := existente != nil && !existente.Costo.Equal(material.Costo)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.SaveTx(tx, &material); err != nil {
			return err
		}
		if cambioCosto {
			if err := s.precioRepo.CreateTx(tx, &model.HistorialPrecio{
				ID:             uuid.New(),
				UsuarioID:      usuarioID,
				MaterialID:     material.ID,
				MaterialNombre: material.Nombre,
				CostoAnterior:  existente.Costo,
				CostoNuevo:     material.Costo,
				VariacionPct:   variacionPct(existente.Costo, material.Costo),
			}); err != nil {
				return err
			}
			// Cascade: keep every dependent product's derived economics
			// consistent before the transaction commits.
			if err := s.recalcularDependientes(ctx, tx, usuarioID, material); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.Listar(ctx, usuarioID, dto.MaterialFilter{})
}

// variacionPct = (nuevo − anterior) / anterior × 100; zero when the previous
// cost was zero (no meaningful percentage).
func variacionPct(anterior, nuevo decimal.Decimal) decimal.Decimal {
	if anterior.IsZero() {
		return decimal.Zero
	}
	return nuevo.Sub(anterior).Div(anterior).Mul(decimal.NewFromInt(100)).Round(2)
}

// recalcularDependientes recomputes costo_total (and precio, when a margin is
// set) for every product whose recipe references the saved material.
func (s *materialService) recalcularDependientes(ctx context.Context, tx *gorm.DB, usuarioID uuid.UUID, material model.Material) error {
	dependientes, err := s.productoRepo.FindByMaterial(ctx, usuarioID, material.ID)
	if err != nil {
		return err
	}
	if len(dependientes) == 0 {
		return nil
	}

	materiales, err := s.repo.List(ctx, usuarioID, dto.MaterialFilter{})
	if err != nil {
		return err
	}
	idx := costing.IndexarMateriales(materiales)
	// The save above may not be visible outside the tx yet — overlay it.
	idx[material.ID] = material

	for _, p := range dependientes {
		costoTotal := costing.CostoReceta(p.Receta, idx)
		precio := p.Precio
		if !p.Margen.IsZero() {
			precio = costing.PrecioDesdeMargen(costoTotal, p.Margen).Round(2)
		}
		if err := s.productoRepo.UpdateDerivadosTx(tx, p.ID, costoTotal, precio); err != nil {
			return err
		}
	}
	return nil
}

func (s *materialService) Eliminar(ctx context.Context, usuarioID, id uuid.UUID) ([]dto.MaterialResponse, error) {
	dependientes, err := s.productoRepo.FindByMaterial(ctx, usuarioID, id)
	if err != nil {
		return nil, err
	}
	if len(dependientes) > 0 {
		nombres := make([]string, 0, len(dependientes))
		for _, p := range dependientes {
			nombres = append(nombres, p.Nombre)
		}
		return nil, &MaterialEnUsoError{Productos: nombres}
	}

	if err := s.repo.Delete(ctx, usuarioID, id); err != nil {
		return nil, err
	}
	return s.Listar(ctx, usuarioID, dto.MaterialFilter{})
}

func (s *materialService) AjustarStock(ctx context.Context, usuarioID, id uuid.UUID, req dto.AjustarStockRequest) (*dto.MaterialResponse, error) {
	material, err := s.repo.FindByID(ctx, usuarioID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidacionError{Detalle: "Material no encontrado"}
		}
		return nil, err
	}

	stockNuevo := material.Stock.Add(req.Delta)
	if stockNuevo.IsNegative() {
		return nil, &ValidacionError{Detalle: "El ajuste dejaría el stock en negativo"}
	}

	stockAnterior := material.Stock
	material.Stock = stockNuevo

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.SaveTx(tx, material); err != nil {
			return err
		}
		return s.movRepo.CreateTx(tx, &model.MovimientoStock{
			ID:            uuid.New(),
			UsuarioID:     usuarioID,
			MaterialID:    material.ID,
			Tipo:          "ajuste_manual",
			Cantidad:      req.Delta,
			StockAnterior: stockAnterior,
			StockNuevo:    stockNuevo,
			Motivo:        req.Motivo,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := mapMaterial(*material)
	return &resp, nil
}

func (s *materialService) HistorialPrecios(ctx context.Context, usuarioID, materialID uuid.UUID, limit int) ([]dto.HistorialPrecioResponse, error) {
	rows, err := s.precioRepo.ListByMaterial(ctx, usuarioID, materialID, limit)
	if err != nil {
		return nil, err
	}
	result := make([]dto.HistorialPrecioResponse, 0, len(rows))
	for _, h := range rows {
		result = append(result, dto.HistorialPrecioResponse{
			MaterialID:     h.MaterialID.String(),
			MaterialNombre: h.MaterialNombre,
			CostoAnterior:  h.CostoAnterior,
			CostoNuevo:     h.CostoNuevo,
			VariacionPct:   h.VariacionPct,
			Fecha:          h.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return result, nil
}

func (s *materialService) Movimientos(ctx context.Context, usuarioID, materialID uuid.UUID, limit int) ([]dto.MovimientoStockResponse, error) {
	rows, err := s.movRepo.ListByMaterial(ctx, usuarioID, materialID, limit)
	if err != nil {
		return nil, err
	}
	result := make([]dto.MovimientoStockResponse, 0, len(rows))
	for _, m := range rows {
		result = append(result, dto.MovimientoStockResponse{
			MaterialID:    m.MaterialID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			Fecha:         m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return result, nil
}
