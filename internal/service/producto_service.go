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

// margenPorDefecto applies when a save request carries no margin at all.
var margenPorDefecto = decimal.NewFromInt(50)

// ProductoService defines the business logic contract for the product registry.
type ProductoService interface {
	Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.ProductoFilter) ([]dto.ProductoResponse, error)
	// Guardar upserts a product. Empty recipes and duplicate names are
	// rejected; a price below cost requires the explicit confirmation flag
	// (ConfirmacionRequeridaError otherwise). costo_total is recomputed from
	// the recipe before persisting.
	Guardar(ctx context.Context, usuarioID uuid.UUID, req dto.GuardarProductoRequest) ([]dto.ProductoResponse, error)
	Eliminar(ctx context.Context, usuarioID, id uuid.UUID) ([]dto.ProductoResponse, error)
	// Cotizar derives the missing side of the margin/price pair for a draft
	// recipe without persisting anything.
	Cotizar(ctx context.Context, usuarioID uuid.UUID, req dto.CotizarRequest) (*dto.CotizarResponse, error)
}

type productoService struct {
	repo         repository.ProductoRepository
	materialRepo repository.MaterialRepository
}

func NewProductoService(repo repository.ProductoRepository, materialRepo repository.MaterialRepository) ProductoService {
	return &productoService{repo: repo, materialRepo: materialRepo}
}

func mapProducto(p model.Producto, materiales map[uuid.UUID]model.Material) dto.ProductoResponse {
	receta := make([]dto.RecetaItemResponse, 0, len(p.Receta))
	for _, linea := range p.Receta {
		nombre := ""
		if mat, ok := materiales[linea.MaterialID]; ok {
			nombre = mat.Nombre
		}
		receta = append(receta, dto.RecetaItemResponse{
			MaterialID:     linea.MaterialID.String(),
			MaterialNombre: nombre,
			Cantidad:       linea.Cantidad,
		})
	}
	return dto.ProductoResponse{
		ID:         p.ID.String(),
		Nombre:     p.Nombre,
		Categoria:  p.Categoria,
		Receta:     receta,
		CostoTotal: p.CostoTotal,
		Margen:     p.Margen,
		Precio:     p.Precio,
		ImagenURL:  p.ImagenURL,
	}
}

func (s *productoService) listarConMateriales(ctx context.Context, usuarioID uuid.UUID, filter dto.ProductoFilter) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.List(ctx, usuarioID, filter)
	if err != nil {
		return nil, err
	}
	materiales, err := s.materialRepo.List(ctx, usuarioID, dto.MaterialFilter{})
	if err != nil {
		return nil, err
	}
	idx := costing.IndexarMateriales(materiales)
	result := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		result = append(result, mapProducto(p, idx))
	}
	return result, nil
}

func (s *productoService) Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.ProductoFilter) ([]dto.ProductoResponse, error) {
	return s.listarConMateriales(ctx, usuarioID, filter)
}

func parseReceta(lineas []dto.RecetaItemRequest) ([]model.RecetaItem, error) {
	receta := make([]model.RecetaItem, 0, len(lineas))
	for i, linea := range lineas {
		materialID, err := uuid.Parse(linea.MaterialID)
		if err != nil {
			return nil, &ValidacionError{Detalle: "material_id inválido en la receta"}
		}
		if !linea.Cantidad.IsPositive() {
			return nil, &ValidacionError{Detalle: "La cantidad de cada ingrediente debe ser mayor a cero"}
		}
		receta = append(receta, model.RecetaItem{
			ID:         uuid.New(),
			MaterialID: materialID,
			Cantidad:   linea.Cantidad,
			Posicion:   i,
		})
	}
	return receta, nil
}

func (s *productoService) Guardar(ctx context.Context, usuarioID uuid.UUID, req dto.GuardarProductoRequest) ([]dto.ProductoResponse, error) {
	if len(req.Receta) == 0 {
		return nil, &ValidacionError{Detalle: "No puedes guardar un producto sin materiales: agrega al menos un ingrediente a la receta"}
	}

	id := uuid.New()
	var existente *model.Producto
	if req.ID != "" {
		parsed, err := uuid.Parse(req.ID)
		if err != nil {
			return nil, &ValidacionError{Detalle: "ID de producto inválido"}
		}
		id = parsed
		if p, err := s.repo.FindByID(ctx, usuarioID, id); err == nil {
			existente = p
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if otro, err := s.repo.FindByNombre(ctx, usuarioID, req.Nombre); err == nil && otro.ID != id {
		return nil, &ConflictoError{Detalle: fmt.Sprintf("Ya existe un producto con el nombre %q", req.Nombre)}
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	receta, err := parseReceta(req.Receta)
	if err != nil {
		return nil, err
	}

	materiales, err := s.materialRepo.List(ctx, usuarioID, dto.MaterialFilter{})
	if err != nil {
		return nil, err
	}
	costoTotal := costing.CostoReceta(receta, costing.IndexarMateriales(materiales))

	margen := margenPorDefecto
	if req.Margen != nil {
		margen = *req.Margen
	}
	precio := req.Precio
	if precio.IsZero() {
		precio = costing.PrecioDesdeMargen(costoTotal, margen).Round(2)
	}

	// Selling below cost is allowed, but only with explicit acknowledgment.
	if precio.IsPositive() && precio.LessThan(costoTotal) && !req.ConfirmarPerdida {
		return nil, &ConfirmacionRequeridaError{
			Detalle: "El precio de venta es menor al costo: venderías a pérdida",
			Datos: dto.PerdidaDatos{
				Costo:   costoTotal,
				Precio:  precio,
				Perdida: costoTotal.Sub(precio),
			},
		}
	}

	producto := model.Producto{
		ID:         id,
		UsuarioID:  usuarioID,
		Nombre:     req.Nombre,
		Categoria:  req.Categoria,
		Margen:     margen,
		Precio:     precio,
		CostoTotal: costoTotal,
		ImagenURL:  req.ImagenURL,
		Receta:     receta,
	}
	if producto.Categoria == "" {
		producto.Categoria = "General"
	}
	if existente != nil {
		producto.CreatedAt = existente.CreatedAt
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.SaveTx(tx, &producto)
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.listarConMateriales(ctx, usuarioID, dto.ProductoFilter{})
}

func (s *productoService) Eliminar(ctx context.Context, usuarioID, id uuid.UUID) ([]dto.ProductoResponse, error) {
	// Nothing references a product, so deletion is unconditional.
	if err := s.repo.Delete(ctx, usuarioID, id); err != nil {
		return nil, err
	}
	return s.listarConMateriales(ctx, usuarioID, dto.ProductoFilter{})
}

func (s *productoService) Cotizar(ctx context.Context, usuarioID uuid.UUID, req dto.CotizarRequest) (*dto.CotizarResponse, error) {
	if req.Margen == nil && req.Precio == nil {
		return nil, &ValidacionError{Detalle: "Indica margen o precio para cotizar"}
	}

	receta, err := parseReceta(req.Receta)
	if err != nil {
		return nil, err
	}
	materiales, err := s.materialRepo.List(ctx, usuarioID, dto.MaterialFilter{})
	if err != nil {
		return nil, err
	}
	costoTotal := costing.CostoReceta(receta, costing.IndexarMateriales(materiales))

	// One side drives the other per call — margin wins when both are present,
	// mirroring the form behavior where the margin field was edited last.
	if req.Margen != nil {
		return &dto.CotizarResponse{
			CostoTotal:      costoTotal,
			Margen:          *req.Margen,
			Precio:          costing.PrecioDesdeMargen(costoTotal, *req.Margen).Round(2),
			MargenAplicable: true,
		}, nil
	}

	margen, ok := costing.MargenDesdePrecio(costoTotal, *req.Precio)
	if !ok {
		// Cost 0: margin is undefined, leave it out and echo the price back.
		return &dto.CotizarResponse{
			CostoTotal:      costoTotal,
			Margen:          decimal.Zero,
			Precio:          *req.Precio,
			MargenAplicable: false,
		}, nil
	}
	return &dto.CotizarResponse{
		CostoTotal:      costoTotal,
		Margen:          margen.Round(1),
		Precio:          *req.Precio,
		MargenAplicable: true,
	}, nil
}
