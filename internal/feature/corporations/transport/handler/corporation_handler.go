// Package handler provides the HTTP handlers for the corporations feature.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"disclosure_backend/internal/feature/corporations/domain/entity"
	"disclosure_backend/internal/feature/corporations/usecase"
)

// CorporationUsecase defines the corporation operations the handler needs.
// Interface is defined by the consumer (handler), not the provider (usecase).
type CorporationUsecase interface {
	Get(ctx context.Context, corpCode string) (*entity.Corporation, error)
	List(ctx context.Context, market string, limit int) ([]entity.Corporation, error)
	Search(ctx context.Context, query string, limit int) ([]entity.Corporation, error)
	Count(ctx context.Context) (int64, error)
}

// CorporationHandler handles HTTP requests for corporation master data.
type CorporationHandler struct {
	uc CorporationUsecase
}

// NewCorporationHandler creates a new CorporationHandler.
func NewCorporationHandler(uc CorporationUsecase) *CorporationHandler {
	return &CorporationHandler{uc: uc}
}

// List returns corporations, optionally filtered by market name.
//
// GET /corporations?market=KOSPI&limit=100
func (h *CorporationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	corps, err := h.uc.List(c.Request.Context(), c.Query("market"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list corporations"})
		return
	}
	c.JSON(http.StatusOK, toResponses(corps))
}

// Search returns corporations whose name contains the query string.
//
// GET /corporations/search?q=전자&limit=20
func (h *CorporationHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	corps, err := h.uc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, toResponses(corps))
}

// Get returns one corporation by its registry code.
//
// GET /corporations/:code
func (h *CorporationHandler) Get(c *gin.Context) {
	corp, err := h.uc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, usecase.ErrCorporationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "corporation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, toResponse(*corp))
}

// Count returns the number of stored corporations.
//
// GET /corporations/count
func (h *CorporationHandler) Count(c *gin.Context) {
	n, err := h.uc.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

type corporationResponse struct {
	CorpCode  string `json:"corp_code"`
	CorpName  string `json:"corp_name"`
	StockCode string `json:"stock_code,omitempty"`
	Market    string `json:"market"`
	Sector    string `json:"sector,omitempty"`
}

func toResponse(corp entity.Corporation) corporationResponse {
	return corporationResponse{
		CorpCode:  corp.CorpCode,
		CorpName:  corp.CorpName,
		StockCode: corp.StockCode,
		Market:    corp.Market,
		Sector:    corp.Sector,
	}
}

func toResponses(corps []entity.Corporation) []corporationResponse {
	out := make([]corporationResponse, 0, len(corps))
	for _, corp := range corps {
		out = append(out, toResponse(corp))
	}
	return out
}
