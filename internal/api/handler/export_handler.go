package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"prezz/internal/service"
	"prezz/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler file downloads
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// Workbook week grid as xlsx
// GET /api/v1/export/timetable.xlsx?anchor=2025-01-15
func (h *ExportHandler) Workbook(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportWorkbook(c.Request.Context(), sess, c.Query("anchor"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Attachment(c, contentTypeXLSX, filename, buf.Bytes())
}

// Calendar semester occurrences as iCalendar
// GET /api/v1/export/calendar.ics
func (h *ExportHandler) Calendar(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), sess)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Attachment(c, contentTypeICS, filename, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoSemester):
		response.NotFound(c, 23001, "profile has no semester dates")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		handleCommonError(c, err)
	}
}
