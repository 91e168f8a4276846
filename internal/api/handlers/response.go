package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/rs/zerolog/log"
)

// respondError maps the error taxonomy onto HTTP statuses: data errors
// are the client's problem, everything else is ours.
func respondError(c *gin.Context, err error) {
	var dataErr *domain.DataError
	if errors.As(err, &dataErr) {
		errorResponse(c, http.StatusBadRequest, dataErr.Error())
		return
	}
	errorResponse(c, http.StatusInternalServerError, err.Error())
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}
