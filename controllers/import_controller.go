package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"projector-crm-sync/config"
	"projector-crm-sync/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type runImportRequest struct {
	Kind   string `json:"kind" binding:"required"`
	DryRun bool   `json:"dry_run"`
}

// Logger is used by the import handlers; cmd/api sets it at startup.
var Logger = zap.NewNop()

// POST /api/v1/admin/imports
func AdminRunImport(c *gin.Context) {
	var req runImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		msg := err.Error()
		if errors.Is(err, io.EOF) {
			msg = "kind is required"
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
		return
	}

	job := services.NewImportJobService(config.DB, Logger)
	summary, run, err := job.Run(c.Request.Context(), &services.ImportJobInput{
		Kind:          req.Kind,
		DryRun:        req.DryRun,
		TriggerSource: "admin_api",
		RecordRun:     true,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrImportAlreadyRunning):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "an import is already running"})
		case errors.Is(err, services.ErrUnknownImportKind):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error(), "run": run})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": summary,
		"report":  summary.Text(),
		"run":     run,
	})
}

// GET /api/v1/admin/imports/status
func AdminGetImportStatus(c *gin.Context) {
	runSvc := services.NewImportRunService(config.DB)

	running, err := runSvc.GetRunning()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	last, err := runSvc.GetLatestCompleted()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status": gin.H{
			"in_progress": running != nil,
			"current_run": running,
			"last_run":    last,
		},
	})
}

// GET /api/v1/admin/imports/runs
func AdminListImportRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	runSvc := services.NewImportRunService(config.DB)
	runs, total, err := runSvc.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    runs,
		"pagination": gin.H{
			"limit":    limit,
			"offset":   offset,
			"total":    total,
			"has_next": int64(offset+limit) < total,
			"has_prev": offset > 0,
		},
	})
}

// GET /api/v1/admin/imports/runs/:id
func AdminGetImportRun(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid run id"})
		return
	}

	run, err := services.NewImportRunService(config.DB).GetByID(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrImportRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": run})
}
