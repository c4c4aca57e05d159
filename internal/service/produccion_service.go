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

// ResumenInvalidator drops the cached dashboard summary after a ledger write.
type ResumenInvalidator interface {
	InvalidarResumen(ctx context.Context, usuarioID uuid.UUID)
}

// ProduccionService registers production batches.
type ProduccionService interface {
	// Producir runs the staged flow: batch size, stock coverage, sale price and
	// loss acknowledgment are checked in order, and only then does the commit
	// transaction deduct stock, log movements and append the ledger entry.
	Producir(ctx context.Context, usuarioID uuid.UUID, req dto.ProducirRequest) (*dto.ProduccionResponse, error)
}

type produccionService struct {
	materialRepo  repository.MaterialRepository
	productoRepo  repository.ProductoRepository
	historialRepo repository.HistorialRepository
	movRepo       repository.MovimientoStockRepository
	resumen       ResumenInvalidator
	retencion     int
}

func NewProduccionService(
	materialRepo repository.MaterialRepository,
	productoRepo repository.ProductoRepository,
	historialRepo repository.HistorialRepository,
	movRepo repository.MovimientoStockRepository,
	resumen ResumenInvalidator,
	retencion int,
) ProduccionService {
	return &produccionService{
		materialRepo:  materialRepo,
		productoRepo:  productoRepo,
		historialRepo: historialRepo,
		movRepo:       movRepo,
		resumen:       resumen,
		retencion:     retencion,
	}
}

// consumo is one resolved recipe line scaled to the batch.
type consumo struct {
	material  model.Material
	necesario decimal.Decimal
}

func (s *produccionService) Producir(ctx context.Context, usuarioID uuid.UUID, req dto.ProducirRequest) (*dto.ProduccionResponse, error) {
	if req.Cantidad <= 0 {
		return nil, &ValidacionError{Detalle: "La cantidad a producir debe ser mayor a cero"}
	}
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, &ValidacionError{Detalle: "ID de producto inválido"}
	}

	producto, err := s.productoRepo.FindByID(ctx, usuarioID, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidacionError{Detalle: "Producto no encontrado"}
		}
		return nil, err
	}

	materiales, err := s.materialRepo.List(ctx, usuarioID, dto.MaterialFilter{})
	if err != nil {
		return nil, err
	}
	idx := costing.IndexarMateriales(materiales)

	cantidad := decimal.NewFromInt(int64(req.Cantidad))
	consumos := make([]consumo, 0, len(producto.Receta))
	faltantes := make([]dto.FaltanteStock, 0)
	for _, linea := range producto.Receta {
		mat, ok := idx[linea.MaterialID]
		if !ok {
			// Dangling recipe line: the material was deleted after the recipe
			// was saved. It contributes nothing and consumes nothing.
			continue
		}
		necesario := linea.Cantidad.Mul(cantidad)
		if mat.Stock.LessThan(necesario) {
			faltantes = append(faltantes, dto.FaltanteStock{
				MaterialID:     mat.ID.String(),
				MaterialNombre: mat.Nombre,
				Unidad:         mat.Unidad,
				Necesario:      necesario,
				Disponible:     mat.Stock,
				Faltante:       necesario.Sub(mat.Stock),
			})
			continue
		}
		consumos = append(consumos, consumo{material: mat, necesario: necesario})
	}
	if len(faltantes) > 0 {
		return nil, &StockInsuficienteError{Cantidad: req.Cantidad, Faltantes: faltantes}
	}

	if !req.PrecioVenta.IsPositive() {
		return nil, &ValidacionError{Detalle: "El precio de venta debe ser mayor a cero"}
	}

	// Per-unit comparison: producing at a loss needs explicit acknowledgment.
	if req.PrecioVenta.LessThan(producto.CostoTotal) && !req.ConfirmarPerdida {
		perdidaUnitaria := producto.CostoTotal.Sub(req.PrecioVenta)
		return nil, &ConfirmacionRequeridaError{
			Detalle: "El precio de venta es menor al costo del producto: registrarías una pérdida",
			Datos: dto.PerdidaDatos{
				Costo:   producto.CostoTotal,
				Precio:  req.PrecioVenta,
				Perdida: perdidaUnitaria.Mul(cantidad),
			},
		}
	}

	costoLote := producto.CostoTotal.Mul(cantidad)
	ventaLote := req.PrecioVenta.Mul(cantidad)

	entrada := model.HistorialProduccion{
		ID:             uuid.New(),
		UsuarioID:      usuarioID,
		ProductoID:     producto.ID,
		ProductoNombre: producto.Nombre,
		Cantidad:       req.Cantidad,
		CostoTotal:     costoLote,
		PrecioVenta:    ventaLote,
		Ganancia:       ventaLote.Sub(costoLote),
	}
	for _, c := range consumos {
		entrada.Materiales = append(entrada.Materiales, model.MaterialConsumido{
			ID:             uuid.New(),
			HistorialID:    entrada.ID,
			MaterialID:     c.material.ID,
			MaterialNombre: c.material.Nombre,
			Cantidad:       c.necesario,
		})
	}

	txErr := runTx(ctx, s.materialRepo.DB(), func(tx *gorm.DB) error {
		for _, c := range consumos {
			// The conditional deduct closes the window between the coverage
			// check above and this write: a concurrent batch that drained the
			// stock first makes it fail, rolling back the whole production.
			ok, err := s.materialRepo.DescontarStockTx(tx, c.material.ID, c.necesario)
			if err != nil {
				return err
			}
			if !ok {
				return &StockInsuficienteError{
					Cantidad: req.Cantidad,
					Faltantes: []dto.FaltanteStock{{
						MaterialID:     c.material.ID.String(),
						MaterialNombre: c.material.Nombre,
						Unidad:         c.material.Unidad,
						Necesario:      c.necesario,
						Disponible:     c.material.Stock,
						Faltante:       c.necesario.Sub(c.material.Stock),
					}},
				}
			}
			if err := s.movRepo.CreateTx(tx, &model.MovimientoStock{
				ID:            uuid.New(),
				UsuarioID:     usuarioID,
				MaterialID:    c.material.ID,
				Tipo:          "produccion",
				Cantidad:      c.necesario.Neg(),
				StockAnterior: c.material.Stock,
				StockNuevo:    c.material.Stock.Sub(c.necesario),
				Motivo:        fmt.Sprintf("Producción de %d × %s", req.Cantidad, producto.Nombre),
				ReferenciaID:  &entrada.ID,
			}); err != nil {
				return err
			}
		}
		if err := s.historialRepo.CreateTx(tx, &entrada); err != nil {
			return err
		}
		return s.historialRepo.TrimTx(tx, usuarioID, s.retencion)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.resumen != nil {
		s.resumen.InvalidarResumen(ctx, usuarioID)
	}

	return mapProduccion(entrada), nil
}

func mapProduccion(h model.HistorialProduccion) *dto.ProduccionResponse {
	usados := make([]dto.MaterialUsadoResponse, 0, len(h.Materiales))
	for _, m := range h.Materiales {
		usados = append(usados, dto.MaterialUsadoResponse{
			MaterialID:     m.MaterialID.String(),
			MaterialNombre: m.MaterialNombre,
			Cantidad:       m.Cantidad,
		})
	}
	return &dto.ProduccionResponse{
		ID:             h.ID.String(),
		ProductoID:     h.ProductoID.String(),
		ProductoNombre: h.ProductoNombre,
		Cantidad:       h.Cantidad,
		CostoTotal:     h.CostoTotal,
		PrecioVenta:    h.PrecioVenta,
		Ganancia:       h.Ganancia,
		Materiales:     usados,
		Fecha:          h.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
