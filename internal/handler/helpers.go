package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Takuas77/BonitasCreaciones/internal/apierror"
	"github.com/Takuas77/BonitasCreaciones/internal/service"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondServiceError maps the service layer's typed errors onto HTTP statuses.
// Anything unrecognized goes to the ErrorHandler middleware as a 500.
func respondServiceError(c *gin.Context, err error) {
	var (
		validacion   *service.ValidacionError
		conflicto    *service.ConflictoError
		enUso        *service.MaterialEnUsoError
		stock        *service.StockInsuficienteError
		confirmacion *service.ConfirmacionRequeridaError
	)
	switch {
	case errors.As(err, &confirmacion):
		c.JSON(http.StatusConflict, apierror.NewConfirmacion(confirmacion.Detalle, confirmacion.Datos))
	case errors.As(err, &stock):
		c.JSON(http.StatusConflict, gin.H{
			"detail":    stock.Error(),
			"faltantes": stock.Faltantes,
		})
	case errors.As(err, &enUso):
		c.JSON(http.StatusConflict, gin.H{
			"detail":    enUso.Error(),
			"productos": enUso.Productos,
		})
	case errors.As(err, &conflicto):
		c.JSON(http.StatusConflict, apierror.New(conflicto.Detalle))
	case errors.As(err, &validacion):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(validacion.Detalle))
	default:
		_ = c.Error(err)
	}
}
