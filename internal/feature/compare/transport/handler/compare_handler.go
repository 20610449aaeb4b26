// Package handler provides the HTTP handlers for the compare feature.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	analysis "disclosure_backend/internal/feature/analysis/domain"
	"disclosure_backend/internal/feature/compare/domain"
	"disclosure_backend/internal/feature/compare/domain/entity"
	corpusecase "disclosure_backend/internal/feature/corporations/usecase"
)

// CompareUsecase defines the comparison operations the handler needs.
// Interface is defined by the consumer (handler), not the provider (usecase).
type CompareUsecase interface {
	Add(ctx context.Context, corpCode string) error
	Remove(corpCode string)
	Clear()
	Selected() []string
	BuildTable(ctx context.Context, year int) (domain.Table, error)
	Rank(ctx context.Context, year int, metric string) ([]domain.RankEntry, error)
	Stats(ctx context.Context, year int) ([]domain.MetricStats, error)
	SaveSet(ctx context.Context, name string) error
	LoadSet(ctx context.Context, name string) ([]string, error)
	ListSets(ctx context.Context) ([]entity.ComparisonSet, error)
	DeleteSet(ctx context.Context, name string) error
}

// CompareHandler handles HTTP requests for cross-corporation comparison.
type CompareHandler struct {
	uc CompareUsecase
}

// NewCompareHandler creates a new CompareHandler.
func NewCompareHandler(uc CompareUsecase) *CompareHandler {
	return &CompareHandler{uc: uc}
}

// Add puts a corporation into the selection.
//
// POST /compare/selection/:code
func (h *CompareHandler) Add(c *gin.Context) {
	if err := h.uc.Add(c.Request.Context(), c.Param("code")); err != nil {
		writeCompareError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": h.uc.Selected()})
}

// Remove drops a corporation from the selection.
//
// DELETE /compare/selection/:code
func (h *CompareHandler) Remove(c *gin.Context) {
	h.uc.Remove(c.Param("code"))
	c.JSON(http.StatusOK, gin.H{"selected": h.uc.Selected()})
}

// Clear empties the selection.
//
// DELETE /compare/selection
func (h *CompareHandler) Clear(c *gin.Context) {
	h.uc.Clear()
	c.JSON(http.StatusOK, gin.H{"selected": []string{}})
}

// Selection returns the current selection in insertion order.
//
// GET /compare/selection
func (h *CompareHandler) Selection(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"selected": h.uc.Selected()})
}

// Table returns the rows-per-metric comparison for one year.
//
// GET /compare/table?year=2024
func (h *CompareHandler) Table(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}
	table, err := h.uc.BuildTable(c.Request.Context(), year)
	if err != nil {
		writeCompareError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// Rank orders the selection by one metric.
//
// GET /compare/rank?year=2024&metric=roe
func (h *CompareHandler) Rank(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}
	entries, err := h.uc.Rank(c.Request.Context(), year, c.Query("metric"))
	if err != nil {
		writeCompareError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Stats summarizes every metric across the selection.
//
// GET /compare/stats?year=2024
func (h *CompareHandler) Stats(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}
	stats, err := h.uc.Stats(c.Request.Context(), year)
	if err != nil {
		writeCompareError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SaveSet persists the current selection under a name.
//
// POST /compare/sets/:name
func (h *CompareHandler) SaveSet(c *gin.Context) {
	if err := h.uc.SaveSet(c.Request.Context(), c.Param("name")); err != nil {
		writeCompareError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "ok"})
}

// LoadSet replaces the selection with a saved set.
//
// POST /compare/sets/:name/load
func (h *CompareHandler) LoadSet(c *gin.Context) {
	kept, err := h.uc.LoadSet(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeCompareError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": kept})
}

// ListSets returns every saved set.
//
// GET /compare/sets
func (h *CompareHandler) ListSets(c *gin.Context) {
	sets, err := h.uc.ListSets(c.Request.Context())
	if err != nil {
		writeCompareError(c, err)
		return
	}
	out := make([]setResponse, 0, len(sets))
	for _, set := range sets {
		out = append(out, setResponse{Name: set.Name, CorpCodes: set.CorpCodes})
	}
	c.JSON(http.StatusOK, out)
}

// DeleteSet removes a saved set by name.
//
// DELETE /compare/sets/:name
func (h *CompareHandler) DeleteSet(c *gin.Context) {
	if err := h.uc.DeleteSet(c.Request.Context(), c.Param("name")); err != nil {
		writeCompareError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

type setResponse struct {
	Name      string   `json:"name"`
	CorpCodes []string `json:"corp_codes"`
}

func yearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year query parameter is required"})
		return 0, false
	}
	return year, true
}

func writeCompareError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrComparisonFull):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptySelection):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no corporations selected"})
	case errors.Is(err, domain.ErrSetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "comparison set not found"})
	case errors.Is(err, analysis.ErrUnknownMetric):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown metric"})
	case errors.Is(err, corpusecase.ErrCorporationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "corporation not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "comparison failed"})
	}
}
