package handler

import "prezz/internal/service"

// Handler aggregate of every handler
type Handler struct {
	Dashboard  *DashboardHandler
	Attendance *AttendanceHandler
	Schedule   *ScheduleHandler
	Export     *ExportHandler
	Chat       *ChatHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Dashboard:  NewDashboardHandler(svc.Dashboard),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Schedule:   NewScheduleHandler(svc.Schedule),
		Export:     NewExportHandler(svc.Export),
		Chat:       NewChatHandler(svc.Chat),
	}
}
