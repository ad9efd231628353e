package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"site-energy-sim/internal/api/models"
	"site-energy-sim/internal/model"
	"site-energy-sim/internal/store"
)

// writeError maps err onto a status code and error code by kind.
func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, models.CodeSimulationError
	switch {
	case errors.Is(err, model.ErrConfig):
		status, code = http.StatusBadRequest, models.CodeInvalidConfig
	case errors.Is(err, model.ErrValidation):
		status, code = http.StatusUnprocessableEntity, models.CodeInvalidScenario
	case errors.Is(err, model.ErrInvalidState):
		status, code = http.StatusConflict, models.CodeInvalidState
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, models.CodeNotFound
	}
	_ = c.Error(err)
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
			Details: errorDetails(err),
		},
	})
}

func errorDetails(err error) map[string]interface{} {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return map[string]interface{}{"field": ve.Field}
	}
	var re *model.RangeError
	if errors.As(err, &re) {
		return map[string]interface{}{"field": re.Field, "index": re.Index, "len": re.Len}
	}
	return nil
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    models.CodeInvalidRequest,
			Message: err.Error(),
		},
	})
}
