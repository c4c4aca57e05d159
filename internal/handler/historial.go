package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Takuas77/BonitasCreaciones/internal/apierror"
	"github.com/Takuas77/BonitasCreaciones/internal/dto"
	"github.com/Takuas77/BonitasCreaciones/internal/middleware"
	"github.com/Takuas77/BonitasCreaciones/internal/service"
)

type HistorialHandler struct{ svc service.HistorialService }

func NewHistorialHandler(svc service.HistorialService) *HistorialHandler {
	return &HistorialHandler{svc: svc}
}

func (h *HistorialHandler) Listar(c *gin.Context) {
	var filter dto.HistorialFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Filtros invalidos"))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), middleware.CurrentUserID(c), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HistorialHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HistorialHandler) Reiniciar(c *gin.Context) {
	var req dto.ReiniciarHistorialRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Reiniciar(c.Request.Context(), middleware.CurrentUserID(c), req); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
