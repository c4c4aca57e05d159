package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Takuas77/BonitasCreaciones/internal/model"
)

type exportFixture struct {
	svc           ExportService
	materialRepo  *stubMaterialRepo
	productoRepo  *stubProductoRepo
	historialRepo *stubHistorialRepo
	precioRepo    *stubPrecioRepo
	usuarioID     uuid.UUID
}

func newExportFixture() *exportFixture {
	f := &exportFixture{
		materialRepo:  newStubMaterialRepo(),
		productoRepo:  newStubProductoRepo(),
		historialRepo: newStubHistorialRepo(),
		precioRepo:    newStubPrecioRepo(),
		usuarioID:     uuid.New(),
	}
	f.svc = NewExportService(f.materialRepo, f.productoRepo, f.historialRepo, f.precioRepo)
	return f
}

func TestExportarCSVMateriales(t *testing.T) {
	f := newExportFixture()
	m := &model.Material{
		ID:        uuid.New(),
		UsuarioID: f.usuarioID,
		Nombre:    `Dulce "extra", lote 3`,
		Categoria: "Otros",
		Unidad:    "kg",
		Costo:     dec("2.5"),
		Stock:     dec("10"),
	}
	f.materialRepo.materiales[m.ID] = m

	data, err := f.svc.ExportarCSV(context.Background(), f.usuarioID, "materiales")
	require.NoError(t, err)

	lineas := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lineas, 2)
	assert.Equal(t, "categoria,costo,id,nombre,stock,unidad", lineas[0], "claves ordenadas alfabéticamente")
	// El nombre con comas y comillas viaja JSON-escapado en una sola celda.
	assert.Contains(t, lineas[1], `"Dulce \"extra\", lote 3"`)
}

func TestExportarCSVEntidadDesconocida(t *testing.T) {
	f := newExportFixture()

	_, err := f.svc.ExportarCSV(context.Background(), f.usuarioID, "clientes")
	var valErr *ValidacionError
	require.ErrorAs(t, err, &valErr)
}

func TestExportarCSVVacio(t *testing.T) {
	f := newExportFixture()

	data, err := f.svc.ExportarCSV(context.Background(), f.usuarioID, "materiales")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestExportarTodoIncluyeTodasLasColecciones(t *testing.T) {
	f := newExportFixture()
	m := &model.Material{ID: uuid.New(), UsuarioID: f.usuarioID, Nombre: "Harina", Costo: dec("2"), Stock: dec("100")}
	f.materialRepo.materiales[m.ID] = m
	f.precioRepo.rows = append(f.precioRepo.rows, model.HistorialPrecio{
		ID: uuid.New(), UsuarioID: f.usuarioID, MaterialID: m.ID, MaterialNombre: "Harina",
		CostoAnterior: dec("2"), CostoNuevo: dec("3"), VariacionPct: dec("50"),
	})

	data, err := f.svc.ExportarTodo(context.Background(), f.usuarioID)
	require.NoError(t, err)

	var backup map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &backup))
	for _, clave := range []string{"materials", "products", "history", "priceHistory", "exportDate"} {
		assert.Contains(t, backup, clave)
	}
}

func TestCatalogoPDFGeneraDocumento(t *testing.T) {
	f := newExportFixture()
	p := &model.Producto{
		ID: uuid.New(), UsuarioID: f.usuarioID, Nombre: "Torta",
		CostoTotal: dec("4"), Margen: dec("50"), Precio: dec("6"),
	}
	f.productoRepo.productos[p.ID] = p

	data, err := f.svc.CatalogoPDF(context.Background(), f.usuarioID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "la salida debe ser un PDF")
}
