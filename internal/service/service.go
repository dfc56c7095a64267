package service

import (
	"go.uber.org/zap"

	"prezz/config"
	"prezz/internal/engine"
	"prezz/internal/repository"
)

// Service aggregate of every service
type Service struct {
	Dashboard  DashboardService
	Attendance AttendanceService
	Schedule   ScheduleService
	Export     ExportService
	Chat       ChatService
}

// NewService wires the services over one Source. cache and chat may be nil.
func NewService(
	cfg *config.Config,
	source Source,
	cache SnapshotCache,
	chat repository.ChatRepository,
	cal *engine.Calendar,
	logger *zap.Logger,
) *Service {
	policy := engine.Policy{ThresholdPercent: cfg.Engine.ThresholdPercent}
	if policy.ThresholdPercent <= 0 {
		policy = engine.DefaultPolicy
	}
	loader := NewLoader(source, cache, cfg.Redis.SnapshotTTL, cal, logger)

	return &Service{
		Dashboard:  NewDashboardService(loader, source, cal, policy, logger),
		Attendance: NewAttendanceService(loader, source, cal, policy, logger),
		Schedule:   NewScheduleService(loader, source, cal, logger),
		Export:     NewExportService(loader, cal, policy, logger),
		Chat:       NewChatService(chat, cfg.Firebase.ChatHistoryLimit, logger),
	}
}
