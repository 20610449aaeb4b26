// Package handler provides the HTTP handlers for the sync feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"disclosure_backend/internal/feature/sync/domain"
	"disclosure_backend/internal/feature/sync/domain/entity"
	"disclosure_backend/internal/feature/sync/transport/http/dto"
)

// SyncUsecase defines the sync operations the handler needs.
// Interface is defined by the consumer (handler), not the provider (usecase).
type SyncUsecase interface {
	SyncCorporationList(ctx context.Context, corpCls string, progress domain.Progress) (domain.Report, error)
	SyncStatements(ctx context.Context, corpCodes []string, years []int, progress domain.Progress) (domain.Report, error)
	Cancel()
	RecentLog(ctx context.Context, limit int) ([]entity.SyncLogEntry, error)
	CorpLog(ctx context.Context, corpCode string) ([]entity.SyncLogEntry, error)
}

// SyncHandler handles HTTP requests that drive synchronization runs.
// Runs execute synchronously within the request; a second request while
// one is active gets 409.
type SyncHandler struct {
	uc SyncUsecase
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(uc SyncUsecase) *SyncHandler {
	return &SyncHandler{uc: uc}
}

// SyncCorporations refreshes the corporation master data.
//
// POST /sync/corporations
func (h *SyncHandler) SyncCorporations(c *gin.Context) {
	var req dto.SyncCorporationsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	report, err := h.uc.SyncCorporationList(c.Request.Context(), req.CorpCls, logProgress("corporation_list"))
	writeReport(c, report, err)
}

// SyncStatements fetches statements for every requested corporation and year.
//
// POST /sync/statements
func (h *SyncHandler) SyncStatements(c *gin.Context) {
	var req dto.SyncStatementsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	report, err := h.uc.SyncStatements(c.Request.Context(), req.CorpCodes, req.Years, logProgress("financial_statements"))
	writeReport(c, report, err)
}

// Cancel requests a cooperative stop of the active run.
//
// POST /sync/cancel
func (h *SyncHandler) Cancel(c *gin.Context) {
	h.uc.Cancel()
	c.JSON(http.StatusAccepted, gin.H{"message": "cancellation requested"})
}

// RecentLog returns the latest sync log entries, newest first.
//
// GET /sync/log?limit=50
func (h *SyncHandler) RecentLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	entries, err := h.uc.RecentLog(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read sync log"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// CorpLog returns the sync history of one corporation, oldest first.
//
// GET /sync/log/:code
func (h *SyncHandler) CorpLog(c *gin.Context) {
	entries, err := h.uc.CorpLog(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read sync log"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// logProgress reports per-unit progress to the structured log.
func logProgress(operation string) domain.Progress {
	return func(completed, total int, outcome string) {
		slog.Info("sync progress", "operation", operation, "completed", completed, "total", total, "outcome", outcome)
	}
}

func writeReport(c *gin.Context, report domain.Report, err error) {
	if errors.Is(err, domain.ErrSyncInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": "a sync run is already active"})
		return
	}
	resp := dto.ReportResp{
		Succeeded: report.Succeeded,
		Failed:    make([]dto.UnitFailure, 0, len(report.Failed)),
		Cancelled: report.Cancelled,
		Aborted:   report.Aborted,
	}
	for _, f := range report.Failed {
		resp.Failed = append(resp.Failed, dto.UnitFailure{
			CorpCode: f.Unit.CorpCode,
			Year:     f.Unit.Year,
			Kind:     string(f.Kind),
		})
	}
	if err != nil {
		slog.Error("sync run ended with error", "error", err)
		c.JSON(http.StatusBadGateway, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
