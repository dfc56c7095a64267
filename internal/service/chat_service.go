package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"prezz/internal/dto"
	"prezz/internal/model"
	"prezz/internal/repository"
	"prezz/internal/session"
)

// ── chat errors ──

var (
	ErrChatDisabled = errors.New("class chat is not configured")
	ErrEmptyMessage = errors.New("message or media_url is required")
)

// ChatService class chat rooms
type ChatService interface {
	List(ctx context.Context, sess *session.Session) ([]dto.ChatMessage, error)
	Send(ctx context.Context, sess *session.Session, req *dto.SendMessageRequest) (*dto.ChatMessage, error)
}

type chatService struct {
	repo   repository.ChatRepository
	limit  int
	logger *zap.Logger
}

// NewChatService creates a ChatService; a nil repo disables chat
func NewChatService(repo repository.ChatRepository, limit int, logger *zap.Logger) ChatService {
	if limit <= 0 {
		limit = 100
	}
	return &chatService{repo: repo, limit: limit, logger: logger}
}

// List newest messages of the caller's class, oldest first
func (s *chatService) List(ctx context.Context, sess *session.Session) ([]dto.ChatMessage, error) {
	if s.repo == nil {
		return nil, ErrChatDisabled
	}
	msgs, err := s.repo.List(ctx, sess.ChatRoom(), s.limit)
	if err != nil {
		s.logger.Error("list chat messages failed", zap.String("room", sess.ChatRoom()), zap.Error(err))
		return nil, err
	}
	out := make([]dto.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toChatMessage(m))
	}
	return out, nil
}

func (s *chatService) Send(ctx context.Context, sess *session.Session, req *dto.SendMessageRequest) (*dto.ChatMessage, error) {
	if s.repo == nil {
		return nil, ErrChatDisabled
	}
	text := strings.TrimSpace(req.Message)
	if text == "" && req.MediaURL == "" {
		return nil, ErrEmptyMessage
	}

	msg := &model.ChatMessage{
		Message:   text,
		UserID:    strconv.FormatInt(sess.UserID, 10),
		UserName:  sess.Name,
		ClassCode: sess.ClassCode,
		MediaURL:  req.MediaURL,
	}
	if err := s.repo.Add(ctx, sess.ChatRoom(), msg); err != nil {
		s.logger.Error("send chat message failed", zap.String("room", sess.ChatRoom()), zap.Error(err))
		return nil, err
	}
	out := toChatMessage(*msg)
	return &out, nil
}

func toChatMessage(m model.ChatMessage) dto.ChatMessage {
	out := dto.ChatMessage{
		ID:        m.ID,
		Message:   m.Message,
		UserID:    m.UserID,
		UserName:  m.UserName,
		ClassCode: m.ClassCode,
		MediaURL:  m.MediaURL,
	}
	if !m.CreatedAt.IsZero() {
		out.CreatedAt = m.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}
