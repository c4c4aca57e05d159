package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Takuas77/BonitasCreaciones/internal/config"
	"github.com/Takuas77/BonitasCreaciones/internal/handler"
	"github.com/Takuas77/BonitasCreaciones/internal/middleware"
	"github.com/Takuas77/BonitasCreaciones/internal/repository"
	"github.com/Takuas77/BonitasCreaciones/internal/service"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	materialRepo := repository.NewMaterialRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	historialRepo := repository.NewHistorialRepository(db)
	precioRepo := repository.NewHistorialPrecioRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	materialSvc := service.NewMaterialService(materialRepo, productoRepo, precioRepo, movimientoRepo)
	productoSvc := service.NewProductoService(productoRepo, materialRepo)
	historialSvc := service.NewHistorialService(historialRepo, rdb,
		time.Duration(cfg.ResumenCacheTTLSeconds)*time.Second)
	produccionSvc := service.NewProduccionService(materialRepo, productoRepo, historialRepo,
		movimientoRepo, historialSvc, cfg.HistoryRetention)
	exportSvc := service.NewExportService(materialRepo, productoRepo, historialRepo, precioRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	materialesH := handler.NewMaterialesHandler(materialSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	produccionH := handler.NewProduccionHandler(produccionSvc)
	historialH := handler.NewHistorialHandler(historialSvc)
	exportH := handler.NewExportHandler(exportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Protected routes — every record is scoped to the token's user
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		materiales := v1.Group("/materiales")
		{
			materiales.GET("", materialesH.Listar)
			materiales.POST("", materialesH.Guardar)
			materiales.DELETE("/:id", materialesH.Eliminar)
			materiales.PATCH("/:id/stock", materialesH.AjustarStock)
			materiales.GET("/:id/historial-precios", materialesH.HistorialPrecios)
			materiales.GET("/:id/movimientos", materialesH.Movimientos)
		}

		productos := v1.Group("/productos")
		{
			productos.GET("", productosH.Listar)
			productos.POST("", productosH.Guardar)
			productos.DELETE("/:id", productosH.Eliminar)
			productos.POST("/cotizar", productosH.Cotizar)
		}

		v1.POST("/produccion", produccionH.Producir)

		historial := v1.Group("/historial")
		{
			historial.GET("", historialH.Listar)
			historial.GET("/resumen", historialH.Resumen)
			historial.DELETE("", historialH.Reiniciar)
		}

		export := v1.Group("/export")
		{
			export.GET("/csv/:entidad", exportH.CSV)
			export.GET("/todo", exportH.Todo)
			export.GET("/catalogo.pdf", exportH.CatalogoPDF)
		}
	}

	return r
}
