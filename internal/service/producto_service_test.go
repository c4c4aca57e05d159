package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Takuas77/BonitasCreaciones/internal/dto"
	"github.com/Takuas77/BonitasCreaciones/internal/model"
)

type productoFixture struct {
	svc          ProductoService
	materialRepo *stubMaterialRepo
	productoRepo *stubProductoRepo
	usuarioID    uuid.UUID
}

func newProductoFixture() *productoFixture {
	f := &productoFixture{
		materialRepo: newStubMaterialRepo(),
		productoRepo: newStubProductoRepo(),
		usuarioID:    uuid.New(),
	}
	f.svc = NewProductoService(f.productoRepo, f.materialRepo)
	return f
}

func (f *productoFixture) seedMaterial(nombre, costo, stock string) *model.Material {
	m := &model.Material{
		ID:        uuid.New(),
		UsuarioID: f.usuarioID,
		Nombre:    nombre,
		Unidad:    "kg",
		Costo:     dec(costo),
		Stock:     dec(stock),
	}
	f.materialRepo.materiales[m.ID] = m
	return m
}

func TestGuardarProductoRecetaVacia(t *testing.T) {
	f := newProductoFixture()

	_, err := f.svc.Guardar(context.Background(), f.usuarioID, dto.GuardarProductoRequest{
		Nombre: "Torta",
	})
	var valErr *ValidacionError
	require.ErrorAs(t, err, &valErr)
}

func TestGuardarProductoDerivaCostoYPrecio(t *testing.T) {
	f := newProductoFixture()
	harina := f.seedMaterial("Harina", "2", "100")

	lista, err := f.svc.Guardar(context.Background(), f.usuarioID, dto.GuardarProductoRequest{
		Nombre: "Torta",
		Receta: []dto.RecetaItemRequest{
			{MaterialID: harina.ID.String(), Cantidad: dec("2")},
		},
	})
	require.NoError(t, err)
	require.Len(t, lista, 1)

	torta := lista[0]
	assert.True(t, torta.CostoTotal.Equal(dec("4")), "costo esperado 4, fue %s", torta.CostoTotal)
	assert.True(t, torta.Margen.Equal(dec("50")), "margen por defecto 50")
	assert.True(t, torta.Precio.Equal(dec("6")), "precio esperado 6, fue %s", torta.Precio)
	require.Len(t, torta.Receta, 1)
	assert.Equal(t, "Harina", torta.Receta[0].MaterialNombre)
}

func TestGuardarProductoIgnoraLineasColgantes(t *testing.T) {
	f := newProductoFixture()
	harina := f.seedMaterial("Harina", "2", "100")

	lista, err := f.svc.Guardar(context.Background(), f.usuarioID, dto.GuardarProductoRequest{
		Nombre: "Torta",
		Receta: []dto.RecetaItemRequest{
			{MaterialID: harina.ID.String(), Cantidad: dec("2")},
			{MaterialID: uuid.NewString(), Cantidad: dec("5")}, // material inexistente
		},
	})
	require.NoError(t, err)
	assert.True(t, lista[0].CostoTotal.Equal(dec("4")), "la línea colgante no aporta costo")
}

func TestGuardarProductoNombreDuplicado(t *testing.T) {
	f := newProductoFixture()
	harina := f.seedMaterial("Harina", "2", "100")

	_, err := f.svc.Guardar(context.Background(), f.usuarioID, dto.GuardarProductoRequest{
		Nombre: "Torta",
		Receta: []dto.RecetaItemRequest{{MaterialID: harina.ID.String(), Cantidad: dec("1")}},
	})
	require.NoError(t, err)

	_, err = f.svc.Guardar(context.Background(), f.usuarioID, dto.GuardarProductoRequest{
		Nombre: "TORTA",
		Receta: []dto.RecetaItemRequest{{MaterialID: harina.ID.String(), Cantidad: dec("1")}},
	})
	var conflicto *ConflictoError
	require.ErrorAs(t, err, &conflicto)
}

func TestGuardarProductoPerdidaRequiereConfirmacion(t *testing.T) {
	f := newProductoFixture()
	harina := f.seedMaterial("Harina", "2", "100")
	receta := []dto.RecetaItemRequest{{MaterialID: harina.ID.String(), Cantidad: dec("2")}}

	_, err := f.svc.Guardar(context.Background(), f.usuarioID, dto.GuardarProductoRequest{
		Nombre: "Torta",
		Receta: receta,
		Precio: dec("3"), // costo 4
	})
	var confirmacion *ConfirmacionRequeridaError
	require.ErrorAs(t, err, &confirmacion)
	datos, ok := confirmacion.Datos.(dto.PerdidaDatos)
	require.True(t, ok)
	assert.True(t, datos.Perdida.Equal(dec("1")))

	// Con la confirmación explícita el guardado procede.
	lista, err := f.svc.Guardar(context.Background(), f.usuarioID, dto.GuardarProductoRequest{
		Nombre:           "Torta",
		Receta:           receta,
		Precio:           dec("3"),
		ConfirmarPerdida: true,
	})
	require.NoError(t, err)
	assert.True(t, lista[0].Precio.Equal(dec("3")))
}

func TestGuardarProductoEditarConservaID(t *testing.T) {
	f := newProductoFixture()
	harina := f.seedMaterial("Harina", "2", "100")

	lista, err := f.svc.Guardar(context.Background(), f.usuarioID, dto.GuardarProductoRequest{
		Nombre: "Torta",
		Receta: []dto.RecetaItemRequest{{MaterialID: harina.ID.String(), Cantidad: dec("1")}},
	})
	require.NoError(t, err)
	id := lista[0].ID

	lista, err = f.svc.Guardar(context.Background(), f.usuarioID, dto.GuardarProductoRequest{
		ID:     id,
		Nombre: "Torta grande",
		Receta: []dto.RecetaItemRequest{{MaterialID: harina.ID.String(), Cantidad: dec("3")}},
	})
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, id, lista[0].ID)
	assert.True(t, lista[0].CostoTotal.Equal(dec("6")))
}

func TestCotizarDesdeMargen(t *testing.T) {
	f := newProductoFixture()
	harina := f.seedMaterial("Harina", "2", "100")
	margen := dec("50")

	resp, err := f.svc.Cotizar(context.Background(), f.usuarioID, dto.CotizarRequest{
		Receta: []dto.RecetaItemRequest{{MaterialID: harina.ID.String(), Cantidad: dec("2")}},
		Margen: &margen,
	})
	require.NoError(t, err)
	assert.True(t, resp.CostoTotal.Equal(dec("4")))
	assert.True(t, resp.Precio.Equal(dec("6")))
	assert.True(t, resp.MargenAplicable)
}

func TestCotizarDesdePrecio(t *testing.T) {
	f := newProductoFixture()
	harina := f.seedMaterial("Harina", "2", "100")
	precio := dec("6")

	resp, err := f.svc.Cotizar(context.Background(), f.usuarioID, dto.CotizarRequest{
		Receta: []dto.RecetaItemRequest{{MaterialID: harina.ID.String(), Cantidad: dec("2")}},
		Precio: &precio,
	})
	require.NoError(t, err)
	assert.True(t, resp.Margen.Equal(dec("50")), "margen esperado 50, fue %s", resp.Margen)
	assert.True(t, resp.MargenAplicable)
}

func TestCotizarConCostoCeroNoDefineMargen(t *testing.T) {
	f := newProductoFixture()
	precio := dec("10")

	resp, err := f.svc.Cotizar(context.Background(), f.usuarioID, dto.CotizarRequest{
		Receta: []dto.RecetaItemRequest{{MaterialID: uuid.NewString(), Cantidad: dec("1")}},
		Precio: &precio,
	})
	require.NoError(t, err)
	assert.True(t, resp.CostoTotal.IsZero())
	assert.False(t, resp.MargenAplicable)
	assert.True(t, resp.Precio.Equal(dec("10")))
}

func TestCotizarSinMargenNiPrecio(t *testing.T) {
	f := newProductoFixture()

	_, err := f.svc.Cotizar(context.Background(), f.usuarioID, dto.CotizarRequest{
		Receta: []dto.RecetaItemRequest{{MaterialID: uuid.NewString(), Cantidad: dec("1")}},
	})
	var valErr *ValidacionError
	require.ErrorAs(t, err, &valErr)
}

func TestListarProductosNoMezclaUsuarios(t *testing.T) {
	f := newProductoFixture()
	ajena := &model.Producto{
		ID:        uuid.New(),
		UsuarioID: uuid.New(),
		Nombre:    "Ajena",
		Margen:    decimal.NewFromInt(50),
	}
	f.productoRepo.productos[ajena.ID] = ajena

	lista, err := f.svc.Listar(context.Background(), f.usuarioID, dto.ProductoFilter{})
	require.NoError(t, err)
	assert.Empty(t, lista)
}
