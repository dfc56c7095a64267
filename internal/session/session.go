package session

import (
	"context"
	"errors"
	"strconv"

	"prezz/pkg/jwt"
)

// Roles
const (
	RoleStudent    = "student"
	RoleCR         = "cr"
	RoleElectiveCR = "elective_cr"
)

var ErrInvalidSession = errors.New("invalid session")

// Session the authenticated caller. Built once per request from the bearer
// token and handed explicitly to services; nothing reads it from globals.
type Session struct {
	UserID    int64
	Role      string
	ClassCode string
	Name      string
	Token     string // forwarded to the REST backend
}

// FromClaims builds a Session from verified claims
func FromClaims(claims *jwt.Claims, token string) (*Session, error) {
	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalidSession
	}
	switch claims.Role {
	case RoleStudent, RoleCR, RoleElectiveCR:
	default:
		return nil, ErrInvalidSession
	}
	return &Session{
		UserID:    id,
		Role:      claims.Role,
		ClassCode: claims.ClassCode,
		Name:      claims.Name,
		Token:     token,
	}, nil
}

// IsStudent student dashboard
func (s *Session) IsStudent() bool { return s.Role == RoleStudent }

// ManagesElectives elective class representative
func (s *Session) ManagesElectives() bool { return s.Role == RoleElectiveCR }

// ChatRoom Firestore room of the caller's class
func (s *Session) ChatRoom() string { return "class_" + s.ClassCode }

// CacheKey prefix of every snapshot cached for this caller
func (s *Session) CacheKey() string {
	return "snapshot:" + s.ClassCode + ":" + s.Role + ":" + strconv.FormatInt(s.UserID, 10)
}

// ClassVersionKey counter bumped whenever the class timetable changes
func (s *Session) ClassVersionKey() string { return "snapshot:version:" + s.ClassCode }

type ctxKey struct{}

// NewContext attaches s to ctx
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext session attached by NewContext
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
