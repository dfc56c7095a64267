package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"prezz/internal/dto"
	"prezz/internal/service"
	"prezz/pkg/response"
)

// AttendanceHandler attendance marking
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler creates an AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// Save bulk upsert of marks; the body is a JSON array
// POST /api/v1/attendance
func (h *AttendanceHandler) Save(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	var items []dto.SaveAttendanceItem
	if err := c.ShouldBindJSON(&items); err != nil {
		response.BadRequest(c, 21001, "invalid attendance payload")
		return
	}

	result, err := h.attendanceSvc.Save(c.Request.Context(), sess, items)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoMarks):
		response.BadRequest(c, 21002, "no attendance marks to save")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 21003, "status must be present, absent or empty")
	default:
		handleCommonError(c, err)
	}
}
