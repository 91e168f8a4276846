package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nhiennh/supply-chain-analytics/internal/service"
)

type AnalyzeHandler struct {
	service *service.AnalyzeService
}

func NewAnalyzeHandler(service *service.AnalyzeService) *AnalyzeHandler {
	return &AnalyzeHandler{service: service}
}

func (h *AnalyzeHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *AnalyzeHandler) MonthlyOrders(c *gin.Context) {
	data, err := h.service.MonthlyOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (h *AnalyzeHandler) TopCategories(c *gin.Context) {
	data, err := h.service.TopCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (h *AnalyzeHandler) DeliveryDelay(c *gin.Context) {
	rate, err := h.service.DeliveryDelay(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"delayed_pct": rate,
		"on_time_pct": 100 - rate,
	})
}

func (h *AnalyzeHandler) SellerShipping(c *gin.Context) {
	data, err := h.service.SellerShipping(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (h *AnalyzeHandler) CategoryFreight(c *gin.Context) {
	data, err := h.service.CategoryFreight(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (h *AnalyzeHandler) Bottlenecks(c *gin.Context) {
	bottlenecks, err := h.service.Bottlenecks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bottlenecks})
}
