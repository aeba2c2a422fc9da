package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/service/datasheet"
	"github.com/mamadbah2/hatchery/internal/service/sheet"
)

const defaultTimelineQS = "scale=month&metric=total_eggs_set"

// DataSheet is the service surface used by the HTTP layer.
type DataSheet interface {
	Views() []sheet.View
	Table(view sheet.ViewKey, query string, mode sheet.Mode) (sheet.Table, error)
	ExportCSV(view sheet.ViewKey, query string, mode sheet.Mode) (datasheet.Export, error)
	Publish(ctx context.Context, view sheet.ViewKey, query string, mode sheet.Mode) (int, error)
	Reload(ctx context.Context) (int, error)
	LoadedAt() time.Time
}

// DataSheetHandler serves the complete data sheet.
type DataSheetHandler struct {
	svc    DataSheet
	logger *zap.Logger
}

// NewDataSheetHandler constructs the HTTP handler adapter.
func NewDataSheetHandler(svc DataSheet, logger *zap.Logger) *DataSheetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataSheetHandler{svc: svc, logger: logger}
}

type viewResponse struct {
	Key   sheet.ViewKey `json:"key"`
	Title string        `json:"title"`
}

type sheetRequest struct {
	view  sheet.ViewKey
	query string
	mode  sheet.Mode
}

// Views lists the available tabs.
func (h *DataSheetHandler) Views(c *gin.Context) {
	views := h.svc.Views()
	resp := make([]viewResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, viewResponse{Key: v.Key, Title: v.Title})
	}
	c.JSON(http.StatusOK, gin.H{"views": resp})
}

// Table renders the requested view as JSON.
func (h *DataSheetHandler) Table(c *gin.Context) {
	req, ok := h.bindSheetRequest(c)
	if !ok {
		return
	}

	table, err := h.svc.Table(req.view, req.query, req.mode)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{"table": table}
	if loadedAt := h.svc.LoadedAt(); !loadedAt.IsZero() {
		resp["loaded_at"] = loadedAt.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

// Export streams the requested view as a CSV attachment.
func (h *DataSheetHandler) Export(c *gin.Context) {
	req, ok := h.bindSheetRequest(c)
	if !ok {
		return
	}

	export, err := h.svc.ExportCSV(req.view, req.query, req.mode)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("csv exported", zap.String("file", export.FileName), zap.Int("rows", export.Rows))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	c.Data(http.StatusOK, "text/csv", export.Data)
}

// Publish pushes the requested view to the configured Google Sheet.
func (h *DataSheetHandler) Publish(c *gin.Context) {
	req, ok := h.bindSheetRequest(c)
	if !ok {
		return
	}

	rows, err := h.svc.Publish(c.Request.Context(), req.view, req.query, req.mode)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"rows": rows})
}

// Reload refetches the records from the backend.
func (h *DataSheetHandler) Reload(c *gin.Context) {
	count, err := h.svc.Reload(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": count})
}

// TimelineLink returns the companion timeline URL carrying the caller's
// timeline query string forward.
func (h *DataSheetHandler) TimelineLink(c *gin.Context) {
	qs := c.DefaultQuery("qs", defaultTimelineQS)
	if qs == "" {
		qs = defaultTimelineQS
	}
	c.JSON(http.StatusOK, gin.H{"url": fmt.Sprintf("/embrex-timeline?%s&scope=breakout", qs)})
}

func (h *DataSheetHandler) bindSheetRequest(c *gin.Context) (sheetRequest, bool) {
	req := sheetRequest{
		view:  sheet.ViewKey(c.DefaultQuery("view", string(sheet.ViewAll))),
		query: c.Query("q"),
	}

	if raw := c.Query("percent"); raw != "" {
		percent, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "percent must be a boolean"})
			return sheetRequest{}, false
		}
		req.mode = sheet.ModeFor(percent)
	}

	return req, true
}

func (h *DataSheetHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sheet.ErrUnknownView):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, datasheet.ErrSheetsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, datasheet.ErrLoadFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load data sheet"})
	default:
		h.logger.Error("data sheet request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
