package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nhiennh/supply-chain-analytics/internal/service"
)

type ReorderHandler struct {
	service *service.ReorderService
	analyze *service.AnalyzeService
}

func NewReorderHandler(service *service.ReorderService) *ReorderHandler {
	return &ReorderHandler{service: service}
}

// WithAnalyze wires the clustering endpoint, which lives under the
// reorder group but is computed by the analyze service.
func (h *ReorderHandler) WithAnalyze(analyze *service.AnalyzeService) *ReorderHandler {
	h.analyze = analyze
	return h
}

func (h *ReorderHandler) Strategy(c *gin.Context) {
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))
	policies, err := h.service.Strategy(c.Request.Context(), force)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": policies})
}

func (h *ReorderHandler) Recommendations(c *gin.Context) {
	recs, err := h.service.Recommendations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": recs})
}

// Chart serves /reorder/charts/top-<metric>.
func (h *ReorderHandler) Chart(c *gin.Context) {
	metric := strings.TrimPrefix(c.Param("metric"), "top-")
	values, err := h.service.Chart(c.Request.Context(), metric)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": values})
}

// DownloadRecommendations returns the recommendations workbook as an
// xlsx attachment.
func (h *ReorderHandler) DownloadRecommendations(c *gin.Context) {
	workbook, err := h.service.RecommendationsWorkbook(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("reorder_recommendations_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		workbook)
}

func (h *ReorderHandler) Clustering(c *gin.Context) {
	if h.analyze == nil {
		errorResponse(c, http.StatusServiceUnavailable, "clustering service not configured")
		return
	}
	clusters, err := h.analyze.Clustering(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": clusters})
}
