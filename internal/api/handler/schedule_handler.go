package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"prezz/internal/dto"
	"prezz/internal/service"
	"prezz/pkg/response"
)

// ScheduleHandler schedule and holiday management for representatives
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler creates a ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// Create recurring or one-off schedule entry
// POST /api/v1/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22001, "invalid schedule payload")
		return
	}

	entry, err := h.scheduleSvc.Create(c.Request.Context(), sess, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, entry)
}

// Cancel cancels one occurrence
// POST /api/v1/schedules/cancel
func (h *ScheduleHandler) Cancel(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	var req dto.CancelClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22001, "invalid cancellation payload")
		return
	}

	entry, err := h.scheduleSvc.Cancel(c.Request.Context(), sess, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, entry)
}

// Delete schedule entry
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleSvc.Delete(c.Request.Context(), sess, id); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// CreateHoliday
// POST /api/v1/holidays
func (h *ScheduleHandler) CreateHoliday(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	var req dto.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22001, "invalid holiday payload")
		return
	}

	holiday, err := h.scheduleSvc.CreateHoliday(c.Request.Context(), sess, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, holiday)
}

// DeleteHoliday
// DELETE /api/v1/holidays/:id
func (h *ScheduleHandler) DeleteHoliday(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleSvc.DeleteHoliday(c.Request.Context(), sess, id); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOwnerRequired):
		response.BadRequest(c, 22002, "exactly one of subject_id and elective_id is required")
	case errors.Is(err, service.ErrOwnerMismatch):
		response.Forbidden(c, 22003, "owner does not match your role")
	case errors.Is(err, service.ErrInvalidWeekday):
		response.BadRequest(c, 22004, "invalid day_of_week")
	case errors.Is(err, service.ErrInvalidRange):
		response.BadRequest(c, 22005, "start_date must not be after end_date")
	default:
		handleCommonError(c, err)
	}
}
