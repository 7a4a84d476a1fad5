package handlers

import (
	"errors"
	"net/http"

	"taskstore/internal/dto"
	"taskstore/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgNotFound = "Task not found."
	msgInternal = "internal server error"
)

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

// fail maps an error from decoding or the service onto a JSON error response.
func (h *TaskHandler) fail(c *gin.Context, err error) {
	var (
		ve *service.ValidationError
		fe *dto.FieldTypeError
	)
	switch {
	case errors.Is(err, service.ErrNotFound):
		abort(c, http.StatusNotFound, msgNotFound)
	case errors.As(err, &ve):
		abort(c, http.StatusBadRequest, ve.Message)
	case errors.As(err, &fe):
		abort(c, http.StatusBadRequest, fe.Error())
	default:
		h.log.Error().
			Err(err).
			Str("request_id", RequestID(c)).
			Str("path", c.FullPath()).
			Msg("request failed")
		abort(c, http.StatusInternalServerError, msgInternal)
	}
}
