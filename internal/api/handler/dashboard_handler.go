package handler

import (
	"github.com/gin-gonic/gin"

	"prezz/internal/dto"
	"prezz/internal/service"
	"prezz/pkg/response"
)

// DashboardHandler read-only timetable and attendance views
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler creates a DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Week week grid
// GET /api/v1/timetable/week?anchor=2025-01-15
func (h *DashboardHandler) Week(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	view, err := h.dashboardSvc.Week(c.Request.Context(), sess, c.Query("anchor"))
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, view)
}

// Classes classes of one date with the caller's marks
// GET /api/v1/classes?date=2025-01-15
func (h *DashboardHandler) Classes(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	view, err := h.dashboardSvc.ClassesOn(c.Request.Context(), sess, c.Query("date"))
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, view)
}

// Stats per-subject attendance
// GET /api/v1/attendance/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	var q dto.StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "invalid query")
		return
	}

	view, err := h.dashboardSvc.Stats(c.Request.Context(), sess, q.Today)
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, view)
}

// Daily per-date percentages and calendar highlights
// GET /api/v1/attendance/daily
func (h *DashboardHandler) Daily(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	var q dto.StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "invalid query")
		return
	}

	view, err := h.dashboardSvc.Daily(c.Request.Context(), sess, q.Today)
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, view)
}

// Reasons absence reasons
// GET /api/v1/attendance/reasons
func (h *DashboardHandler) Reasons(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	reasons, err := h.dashboardSvc.Reasons(c.Request.Context(), sess)
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, gin.H{"list": reasons})
}
