package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Takuas77/BonitasCreaciones/internal/dto"
	"github.com/Takuas77/BonitasCreaciones/internal/repository"
)

// HistorialService exposes the production ledger and the dashboard summary.
type HistorialService interface {
	Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.HistorialFilter) ([]dto.ProduccionResponse, error)
	// Resumen aggregates the whole ledger. The result is cached in Redis and
	// invalidated on every ledger write; a cache outage degrades to recomputing.
	Resumen(ctx context.Context, usuarioID uuid.UUID) (*dto.ResumenResponse, error)
	// Reiniciar wipes the ledger. Without the confirmation flag it returns
	// ConfirmacionRequeridaError instead of deleting anything.
	Reiniciar(ctx context.Context, usuarioID uuid.UUID, req dto.ReiniciarHistorialRequest) error
	InvalidarResumen(ctx context.Context, usuarioID uuid.UUID)
}

type historialService struct {
	repo repository.HistorialRepository
	rdb  *redis.Client
	ttl  time.Duration
}

func NewHistorialService(repo repository.HistorialRepository, rdb *redis.Client, cacheTTL time.Duration) HistorialService {
	return &historialService{repo: repo, rdb: rdb, ttl: cacheTTL}
}

func resumenCacheKey(usuarioID uuid.UUID) string {
	return fmt.Sprintf("resumen:%s", usuarioID)
}

func (s *historialService) Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.HistorialFilter) ([]dto.ProduccionResponse, error) {
	entradas, err := s.repo.List(ctx, usuarioID, filter)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ProduccionResponse, 0, len(entradas))
	for _, h := range entradas {
		result = append(result, *mapProduccion(h))
	}
	return result, nil
}

func (s *historialService) Resumen(ctx context.Context, usuarioID uuid.UUID) (*dto.ResumenResponse, error) {
	key := resumenCacheKey(usuarioID)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var cached dto.ResumenResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	entradas, err := s.repo.List(ctx, usuarioID, dto.HistorialFilter{})
	if err != nil {
		return nil, err
	}

	resumen := dto.ResumenResponse{
		Producciones:  len(entradas),
		TopConsumidos: []dto.ConsumoMaterial{},
	}
	porMaterial := make(map[uuid.UUID]*dto.ConsumoMaterial)
	for _, h := range entradas {
		resumen.VentasTotales = resumen.VentasTotales.Add(h.PrecioVenta)
		resumen.CostosTotales = resumen.CostosTotales.Add(h.CostoTotal)
		for _, m := range h.Materiales {
			acc, ok := porMaterial[m.MaterialID]
			if !ok {
				acc = &dto.ConsumoMaterial{
					MaterialID:     m.MaterialID.String(),
					MaterialNombre: m.MaterialNombre,
				}
				porMaterial[m.MaterialID] = acc
			}
			acc.CantidadTotal = acc.CantidadTotal.Add(m.Cantidad)
		}
	}
	resumen.Ganancia = resumen.VentasTotales.Sub(resumen.CostosTotales)

	consumos := make([]dto.ConsumoMaterial, 0, len(porMaterial))
	for _, c := range porMaterial {
		consumos = append(consumos, *c)
	}
	sort.Slice(consumos, func(i, j int) bool {
		if !consumos[i].CantidadTotal.Equal(consumos[j].CantidadTotal) {
			return consumos[i].CantidadTotal.GreaterThan(consumos[j].CantidadTotal)
		}
		return consumos[i].MaterialNombre < consumos[j].MaterialNombre
	})
	if len(consumos) > 5 {
		consumos = consumos[:5]
	}
	resumen.TopConsumidos = consumos

	if s.rdb != nil {
		if raw, err := json.Marshal(resumen); err == nil {
			if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("no se pudo cachear el resumen")
			}
		}
	}
	return &resumen, nil
}

func (s *historialService) Reiniciar(ctx context.Context, usuarioID uuid.UUID, req dto.ReiniciarHistorialRequest) error {
	if !req.Confirmar {
		return &ConfirmacionRequeridaError{
			Detalle: "Reiniciar el historial borra todos los registros de producción y no se puede deshacer",
		}
	}
	if err := s.repo.Clear(ctx, usuarioID); err != nil {
		return err
	}
	s.InvalidarResumen(ctx, usuarioID)
	return nil
}

func (s *historialService) InvalidarResumen(ctx context.Context, usuarioID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, resumenCacheKey(usuarioID)).Err(); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar el resumen cacheado")
	}
}

var _ ResumenInvalidator = (*historialService)(nil)
