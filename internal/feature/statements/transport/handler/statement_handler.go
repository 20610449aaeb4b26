// Package handler provides the HTTP handlers for stored financial statements.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"disclosure_backend/internal/feature/statements/domain/entity"
)

// StatementReader reads stored statement rows.
// Interface is defined by the consumer (handler), not the provider.
type StatementReader interface {
	ListByYear(ctx context.Context, corpCode string, year int, fsDiv string) ([]entity.Statement, error)
	Years(ctx context.Context, corpCode string) ([]int, error)
}

// StatementHandler handles HTTP requests for raw statement data.
type StatementHandler struct {
	stmts StatementReader
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(stmts StatementReader) *StatementHandler {
	return &StatementHandler{stmts: stmts}
}

// ListByYear returns the statement rows of one corporation and year,
// ordered by statement kind and account position.
//
// GET /corporations/:code/statements?year=2024&fs_div=CFS
func (h *StatementHandler) ListByYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year query parameter is required"})
		return
	}
	fsDiv := c.DefaultQuery("fs_div", entity.FsDivConsolidated)

	rows, err := h.stmts.ListByYear(c.Request.Context(), c.Param("code"), year, fsDiv)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list statements"})
		return
	}
	out := make([]statementResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, statementResponse{
			Year:        row.BsnsYear,
			Statement:   row.SjDiv,
			AccountID:   row.AccountID,
			AccountName: row.AccountName,
			Amount:      row.Amount,
			Currency:    row.Currency,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Years returns the fiscal years with stored statements, oldest first.
//
// GET /corporations/:code/years
func (h *StatementHandler) Years(c *gin.Context) {
	years, err := h.stmts.Years(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list years"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": years})
}

type statementResponse struct {
	Year        int    `json:"year"`
	Statement   string `json:"statement"`
	AccountID   string `json:"account_id,omitempty"`
	AccountName string `json:"account_name"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency,omitempty"`
}
