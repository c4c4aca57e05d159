package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"github.com/Takuas77/BonitasCreaciones/internal/dto"
	"github.com/Takuas77/BonitasCreaciones/internal/repository"
)

// ExportService produces the downloadable views of the user's data: per-entity
// CSV, a full-state JSON backup and the product catalog PDF.
type ExportService interface {
	// ExportarCSV renders one entity ("materiales", "productos" or "historial").
	// Every cell is JSON-encoded, so free text with commas or quotes survives a
	// plain comma join.
	ExportarCSV(ctx context.Context, usuarioID uuid.UUID, entidad string) ([]byte, error)
	ExportarTodo(ctx context.Context, usuarioID uuid.UUID) ([]byte, error)
	CatalogoPDF(ctx context.Context, usuarioID uuid.UUID) ([]byte, error)
}

type exportService struct {
	materialRepo  repository.MaterialRepository
	productoRepo  repository.ProductoRepository
	historialRepo repository.HistorialRepository
	precioRepo    repository.HistorialPrecioRepository
}

func NewExportService(
	materialRepo repository.MaterialRepository,
	productoRepo repository.ProductoRepository,
	historialRepo repository.HistorialRepository,
	precioRepo repository.HistorialPrecioRepository,
) ExportService {
	return &exportService{
		materialRepo:  materialRepo,
		productoRepo:  productoRepo,
		historialRepo: historialRepo,
		precioRepo:    precioRepo,
	}
}

const fechaExport = "2006-01-02T15:04:05Z"

func (s *exportService) ExportarCSV(ctx context.Context, usuarioID uuid.UUID, entidad string) ([]byte, error) {
	var registros []map[string]interface{}
	switch entidad {
	case "materiales":
		materiales, err := s.materialRepo.List(ctx, usuarioID, dto.MaterialFilter{})
		if err != nil {
			return nil, err
		}
		for _, m := range materiales {
			registros = append(registros, map[string]interface{}{
				"id":        m.ID.String(),
				"nombre":    m.Nombre,
				"categoria": m.Categoria,
				"unidad":    m.Unidad,
				"costo":     m.Costo,
				"stock":     m.Stock,
			})
		}
	case "productos":
		productos, err := s.productoRepo.List(ctx, usuarioID, dto.ProductoFilter{})
		if err != nil {
			return nil, err
		}
		for _, p := range productos {
			registros = append(registros, map[string]interface{}{
				"id":           p.ID.String(),
				"nombre":       p.Nombre,
				"categoria":    p.Categoria,
				"costo_total":  p.CostoTotal,
				"margen":       p.Margen,
				"precio":       p.Precio,
				"ingredientes": len(p.Receta),
			})
		}
	case "historial":
		entradas, err := s.historialRepo.List(ctx, usuarioID, dto.HistorialFilter{})
		if err != nil {
			return nil, err
		}
		for _, h := range entradas {
			registros = append(registros, map[string]interface{}{
				"id":           h.ID.String(),
				"producto":     h.ProductoNombre,
				"cantidad":     h.Cantidad,
				"costo_total":  h.CostoTotal,
				"precio_venta": h.PrecioVenta,
				"ganancia":     h.Ganancia,
				"fecha":        h.CreatedAt.Format(fechaExport),
			})
		}
	default:
		return nil, &ValidacionError{Detalle: fmt.Sprintf("Entidad desconocida: %q", entidad)}
	}

	return renderCSV(registros)
}

// renderCSV flattens records into lines: the header is the sorted key set of
// the first record; each cell is its JSON encoding.
func renderCSV(registros []map[string]interface{}) ([]byte, error) {
	if len(registros) == 0 {
		return []byte{}, nil
	}

	claves := make([]string, 0, len(registros[0]))
	for k := range registros[0] {
		claves = append(claves, k)
	}
	sort.Strings(claves)

	var buf bytes.Buffer
	buf.WriteString(strings.Join(claves, ","))
	buf.WriteByte('\n')
	for _, registro := range registros {
		celdas := make([]string, 0, len(claves))
		for _, k := range claves {
			raw, err := json.Marshal(registro[k])
			if err != nil {
				return nil, err
			}
			celdas = append(celdas, string(raw))
		}
		buf.WriteString(strings.Join(celdas, ","))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (s *exportService) ExportarTodo(ctx context.Context, usuarioID uuid.UUID) ([]byte, error) {
	materiales, err := s.materialRepo.List(ctx, usuarioID, dto.MaterialFilter{})
	if err != nil {
		return nil, err
	}
	productos, err := s.productoRepo.List(ctx, usuarioID, dto.ProductoFilter{})
	if err != nil {
		return nil, err
	}
	historial, err := s.historialRepo.List(ctx, usuarioID, dto.HistorialFilter{})
	if err != nil {
		return nil, err
	}
	precios, err := s.precioRepo.ListAll(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	// Key names match the format earlier exports used, so old backups and new
	// ones stay interchangeable.
	backup := map[string]interface{}{
		"materials":    materiales,
		"products":     productos,
		"history":      historial,
		"priceHistory": precios,
		"exportDate":   time.Now().UTC().Format(fechaExport),
	}
	return json.MarshalIndent(backup, "", "  ")
}

// CatalogoPDF renders an A4 price list: one row per product with cost, margin
// and sale price.
func (s *exportService) CatalogoPDF(ctx context.Context, usuarioID uuid.UUID) ([]byte, error) {
	productos, err := s.productoRepo.List(ctx, usuarioID, dto.ProductoFilter{})
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 10, "Catálogo de productos", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, time.Now().Format("02/01/2006"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	col1 := contentW * 0.40 // name
	col2 := contentW * 0.20 // cost
	col3 := contentW * 0.15 // margin
	col4 := contentW * 0.25 // price

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 7, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Costo", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col3, 7, "Margen", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "Precio", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, p := range productos {
		nombre := p.Nombre
		if len(nombre) > 40 {
			nombre = nombre[:39] + "…"
		}
		pdf.CellFormat(col1, 6, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, "$"+p.CostoTotal.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col3, 6, p.Margen.StringFixed(0)+"%", "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+p.Precio.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if len(productos) == 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 6, "Todavía no hay productos cargados", "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render catálogo: %w", err)
	}
	return buf.Bytes(), nil
}
