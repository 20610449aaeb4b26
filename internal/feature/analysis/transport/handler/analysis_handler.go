// Package handler provides the HTTP handlers for the analysis feature.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"disclosure_backend/internal/feature/analysis/domain"
	corpusecase "disclosure_backend/internal/feature/corporations/usecase"
)

// AnalysisUsecase defines the analyzer operations the handler needs.
// Interface is defined by the consumer (handler), not the provider (usecase).
type AnalysisUsecase interface {
	Snapshot(ctx context.Context, corpCode string, year int) (domain.Snapshot, error)
	Ratios(ctx context.Context, corpCode string, year int) (domain.RatioSet, error)
	Growth(ctx context.Context, corpCode string, year int) (domain.GrowthSet, error)
	CAGR(ctx context.Context, corpCode string) (domain.CAGRSet, error)
	Health(ctx context.Context, corpCode string, year int) (domain.HealthScore, error)
	Trend(ctx context.Context, corpCode, metric string) ([]domain.TrendPoint, error)
	GrowthRates(ctx context.Context, corpCode, metric string) ([]domain.GrowthRate, error)
	GrowthStability(ctx context.Context, corpCode, metric string) (domain.Stability, error)
	Summarize(ctx context.Context, corpCode string, year int) (domain.Summary, error)
}

// AnalysisHandler handles HTTP requests for financial analysis.
type AnalysisHandler struct {
	uc AnalysisUsecase
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(uc AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

// Ratios returns the ratio set of one corporation and year.
//
// GET /analysis/:code/ratios?year=2024
func (h *AnalysisHandler) Ratios(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}
	out, err := h.uc.Ratios(c.Request.Context(), c.Param("code"), year)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Growth returns year-over-year growth for one corporation and year.
//
// GET /analysis/:code/growth?year=2024
func (h *AnalysisHandler) Growth(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}
	out, err := h.uc.Growth(c.Request.Context(), c.Param("code"), year)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// CAGR returns compound growth over the full stored range.
//
// GET /analysis/:code/cagr
func (h *AnalysisHandler) CAGR(c *gin.Context) {
	out, err := h.uc.CAGR(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Health returns the health score of one corporation and year.
//
// GET /analysis/:code/health?year=2024
func (h *AnalysisHandler) Health(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}
	out, err := h.uc.Health(c.Request.Context(), c.Param("code"), year)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Trend returns the per-year series of one ratio.
//
// GET /analysis/:code/trend?metric=roe
func (h *AnalysisHandler) Trend(c *gin.Context) {
	out, err := h.uc.Trend(c.Request.Context(), c.Param("code"), c.Query("metric"))
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GrowthRates returns the year-over-year growth series of one account.
//
// GET /analysis/:code/growth-rates?metric=revenue
func (h *AnalysisHandler) GrowthRates(c *gin.Context) {
	out, err := h.uc.GrowthRates(c.Request.Context(), c.Param("code"), c.Query("metric"))
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Stability returns the growth-stability metrics of one account.
//
// GET /analysis/:code/stability?metric=revenue
func (h *AnalysisHandler) Stability(c *gin.Context) {
	out, err := h.uc.GrowthStability(c.Request.Context(), c.Param("code"), c.Query("metric"))
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Summary returns the full analysis bundle of one corporation and year.
//
// GET /analysis/:code/summary?year=2024
func (h *AnalysisHandler) Summary(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}
	out, err := h.uc.Summarize(c.Request.Context(), c.Param("code"), year)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func yearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year query parameter is required"})
		return 0, false
	}
	return year, true
}

func writeAnalysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNoStatements):
		c.JSON(http.StatusNotFound, gin.H{"error": "no statements stored for corporation and year"})
	case errors.Is(err, domain.ErrUnknownMetric):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown metric"})
	case errors.Is(err, corpusecase.ErrCorporationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "corporation not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
	}
}
