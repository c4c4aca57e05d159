package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Takuas77/BonitasCreaciones/internal/dto"
	"github.com/Takuas77/BonitasCreaciones/internal/model"
)

// In-memory repository stubs. DB() returns nil, so runTx executes the callback
// directly and the *gorm.DB tx argument is ignored.

// ── MaterialRepository ───────────────────────────────────────────────────────

type stubMaterialRepo struct {
	materiales map[uuid.UUID]*model.Material
}

func newStubMaterialRepo() *stubMaterialRepo {
	return &stubMaterialRepo{materiales: make(map[uuid.UUID]*model.Material)}
}

func (r *stubMaterialRepo) List(_ context.Context, usuarioID uuid.UUID, filter dto.MaterialFilter) ([]model.Material, error) {
	var result []model.Material
	for _, m := range r.materiales {
		if m.UsuarioID != usuarioID {
			continue
		}
		if filter.Nombre != "" && !strings.Contains(strings.ToLower(m.Nombre), strings.ToLower(filter.Nombre)) {
			continue
		}
		if filter.Categoria != "" && m.Categoria != filter.Categoria {
			continue
		}
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Nombre < result[j].Nombre })
	return result, nil
}

func (r *stubMaterialRepo) FindByID(_ context.Context, usuarioID, id uuid.UUID) (*model.Material, error) {
	m, ok := r.materiales[id]
	if !ok || m.UsuarioID != usuarioID {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *m
	return &copia, nil
}

func (r *stubMaterialRepo) FindByNombre(_ context.Context, usuarioID uuid.UUID, nombre string) (*model.Material, error) {
	for _, m := range r.materiales {
		if m.UsuarioID == usuarioID && strings.EqualFold(m.Nombre, nombre) {
			copia := *m
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMaterialRepo) Delete(_ context.Context, usuarioID, id uuid.UUID) error {
	if m, ok := r.materiales[id]; ok && m.UsuarioID == usuarioID {
		delete(r.materiales, id)
	}
	return nil
}

func (r *stubMaterialRepo) SaveTx(_ *gorm.DB, m *model.Material) error {
	copia := *m
	r.materiales[m.ID] = &copia
	return nil
}

func (r *stubMaterialRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (bool, error) {
	m, ok := r.materiales[id]
	if !ok || m.Stock.LessThan(cantidad) {
		return false, nil
	}
	m.Stock = m.Stock.Sub(cantidad)
	return true, nil
}

func (r *stubMaterialRepo) DB() *gorm.DB { return nil }

// ── ProductoRepository ───────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) List(_ context.Context, usuarioID uuid.UUID, filter dto.ProductoFilter) ([]model.Producto, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if p.UsuarioID != usuarioID {
			continue
		}
		if filter.Nombre != "" && !strings.Contains(strings.ToLower(p.Nombre), strings.ToLower(filter.Nombre)) {
			continue
		}
		if filter.Categoria != "" && p.Categoria != filter.Categoria {
			continue
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Nombre < result[j].Nombre })
	return result, nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, usuarioID, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok || p.UsuarioID != usuarioID {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *stubProductoRepo) FindByNombre(_ context.Context, usuarioID uuid.UUID, nombre string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.UsuarioID == usuarioID && strings.EqualFold(p.Nombre, nombre) {
			copia := *p
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) FindByMaterial(_ context.Context, usuarioID, materialID uuid.UUID) ([]model.Producto, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if p.UsuarioID != usuarioID {
			continue
		}
		for _, linea := range p.Receta {
			if linea.MaterialID == materialID {
				result = append(result, *p)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Nombre < result[j].Nombre })
	return result, nil
}

func (r *stubProductoRepo) Delete(_ context.Context, usuarioID, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok && p.UsuarioID == usuarioID {
		delete(r.productos, id)
	}
	return nil
}

func (r *stubProductoRepo) SaveTx(_ *gorm.DB, p *model.Producto) error {
	copia := *p
	r.productos[p.ID] = &copia
	return nil
}

func (r *stubProductoRepo) UpdateDerivadosTx(_ *gorm.DB, id uuid.UUID, costoTotal, precio decimal.Decimal) error {
	if p, ok := r.productos[id]; ok {
		p.CostoTotal = costoTotal
		p.Precio = precio
	}
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

// ── HistorialRepository ──────────────────────────────────────────────────────

type stubHistorialRepo struct {
	entradas []model.HistorialProduccion
}

func newStubHistorialRepo() *stubHistorialRepo { return &stubHistorialRepo{} }

func (r *stubHistorialRepo) List(_ context.Context, usuarioID uuid.UUID, filter dto.HistorialFilter) ([]model.HistorialProduccion, error) {
	var result []model.HistorialProduccion
	for i := len(r.entradas) - 1; i >= 0; i-- {
		h := r.entradas[i]
		if h.UsuarioID != usuarioID {
			continue
		}
		if filter.ProductoID != "" && h.ProductoID.String() != filter.ProductoID {
			continue
		}
		result = append(result, h)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

func (r *stubHistorialRepo) Clear(_ context.Context, usuarioID uuid.UUID) error {
	restantes := r.entradas[:0]
	for _, h := range r.entradas {
		if h.UsuarioID != usuarioID {
			restantes = append(restantes, h)
		}
	}
	r.entradas = restantes
	return nil
}

func (r *stubHistorialRepo) CreateTx(_ *gorm.DB, h *model.HistorialProduccion) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	r.entradas = append(r.entradas, *h)
	return nil
}

func (r *stubHistorialRepo) TrimTx(_ *gorm.DB, usuarioID uuid.UUID, cap int) error {
	if cap <= 0 {
		return nil
	}
	propias := 0
	for _, h := range r.entradas {
		if h.UsuarioID == usuarioID {
			propias++
		}
	}
	sobran := propias - cap
	if sobran <= 0 {
		return nil
	}
	restantes := make([]model.HistorialProduccion, 0, len(r.entradas)-sobran)
	for _, h := range r.entradas {
		if h.UsuarioID == usuarioID && sobran > 0 {
			sobran--
			continue
		}
		restantes = append(restantes, h)
	}
	r.entradas = restantes
	return nil
}

func (r *stubHistorialRepo) DB() *gorm.DB { return nil }

// ── HistorialPrecioRepository ────────────────────────────────────────────────

type stubPrecioRepo struct {
	rows []model.HistorialPrecio
}

func newStubPrecioRepo() *stubPrecioRepo { return &stubPrecioRepo{} }

func (r *stubPrecioRepo) ListByMaterial(_ context.Context, usuarioID, materialID uuid.UUID, _ int) ([]model.HistorialPrecio, error) {
	var result []model.HistorialPrecio
	for i := len(r.rows) - 1; i >= 0; i-- {
		h := r.rows[i]
		if h.UsuarioID == usuarioID && h.MaterialID == materialID {
			result = append(result, h)
		}
	}
	return result, nil
}

func (r *stubPrecioRepo) ListAll(_ context.Context, usuarioID uuid.UUID) ([]model.HistorialPrecio, error) {
	var result []model.HistorialPrecio
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UsuarioID == usuarioID {
			result = append(result, r.rows[i])
		}
	}
	return result, nil
}

func (r *stubPrecioRepo) CreateTx(_ *gorm.DB, h *model.HistorialPrecio) error {
	r.rows = append(r.rows, *h)
	return nil
}

// ── MovimientoStockRepository ────────────────────────────────────────────────

type stubMovimientoRepo struct {
	rows []model.MovimientoStock
}

func newStubMovimientoRepo() *stubMovimientoRepo { return &stubMovimientoRepo{} }

func (r *stubMovimientoRepo) ListByMaterial(_ context.Context, usuarioID, materialID uuid.UUID, _ int) ([]model.MovimientoStock, error) {
	var result []model.MovimientoStock
	for i := len(r.rows) - 1; i >= 0; i-- {
		m := r.rows[i]
		if m.UsuarioID == usuarioID && m.MaterialID == materialID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.rows = append(r.rows, *m)
	return nil
}
