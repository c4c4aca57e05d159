package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Takuas77/BonitasCreaciones/internal/middleware"
	"github.com/Takuas77/BonitasCreaciones/internal/service"
)

type ExportHandler struct{ svc service.ExportService }

func NewExportHandler(svc service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

func (h *ExportHandler) CSV(c *gin.Context) {
	entidad := c.Param("entidad")
	data, err := h.svc.ExportarCSV(c.Request.Context(), middleware.CurrentUserID(c), entidad)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	nombre := fmt.Sprintf("%s_%s.csv", entidad, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (h *ExportHandler) Todo(c *gin.Context) {
	data, err := h.svc.ExportarTodo(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	nombre := fmt.Sprintf("backup_%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

func (h *ExportHandler) CatalogoPDF(c *gin.Context) {
	data, err := h.svc.CatalogoPDF(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="catalogo.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
