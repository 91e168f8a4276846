package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/nhiennh/supply-chain-analytics/internal/service"
)

const (
	defaultBatchLimit   = 15
	defaultHistoryLimit = 20
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// Overall returns the aggregate demand forecast.
func (h *ForecastHandler) Overall(c *gin.Context) {
	result, err := h.service.Overall(c.Request.Context(), parseBool(c, "force"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// All returns the aggregate plus per-category forecasts, successes only.
func (h *ForecastHandler) All(c *gin.Context) {
	limit := defaultBatchLimit
	if v, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultBatchLimit))); err == nil && v > 0 {
		limit = v
	}

	results, err := h.service.All(c.Request.Context(), limit, parseBool(c, "force"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": results})
}

// Category returns one category's forecast. A failed category is an
// error payload with the category's message, not a panic or a 500.
func (h *ForecastHandler) Category(c *gin.Context) {
	name := c.Param("name")
	result, err := h.service.Category(c.Request.Context(), name, parseBool(c, "force"))
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Status != domain.StatusSuccess {
		c.JSON(http.StatusNotFound, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// History lists the most recently persisted forecast results.
func (h *ForecastHandler) History(c *gin.Context) {
	limit := defaultHistoryLimit
	if v, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit))); err == nil && v > 0 {
		limit = v
	}

	results, err := h.service.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": results})
}

func parseBool(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.DefaultQuery(name, "false"))
	return err == nil && v
}
