package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Takuas77/BonitasCreaciones/internal/dto"
	"github.com/Takuas77/BonitasCreaciones/internal/middleware"
	"github.com/Takuas77/BonitasCreaciones/internal/service"
)

type ProduccionHandler struct{ svc service.ProduccionService }

func NewProduccionHandler(svc service.ProduccionService) *ProduccionHandler {
	return &ProduccionHandler{svc: svc}
}

func (h *ProduccionHandler) Producir(c *gin.Context) {
	var req dto.ProducirRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Producir(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
