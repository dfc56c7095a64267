package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"prezz/internal/api/middleware"
	"prezz/internal/service"
	"prezz/internal/session"
	pkgerrors "prezz/pkg/errors"
	"prezz/pkg/response"
)

// MustGetSession caller session attached by JWTAuth.
// On ok=false a 401 has been written and the handler should return.
func MustGetSession(c *gin.Context) (*session.Session, bool) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	return sess, true
}

// MustGetID positive int64 path parameter name.
// On ok=false a 400 has been written.
func MustGetID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "invalid "+name)
		return 0, false
	}
	return id, true
}

// handleCommonError errors every module can return
func handleCommonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 10001, "invalid date")
	case errors.Is(err, service.ErrStudentOnly):
		response.Forbidden(c, 10003, "only students have attendance")
	case errors.Is(err, service.ErrRoleNotAllowed):
		response.Forbidden(c, 10003, "role not allowed")
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, 10008, "not found")
	case errors.Is(err, pkgerrors.ErrUpstreamUnauthorized):
		response.Unauthorized(c, 10006, "session rejected by backend")
	case errors.Is(err, pkgerrors.ErrUpstreamRejected):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, 10007, "request rejected by backend", err.Error())
	case errors.Is(err, pkgerrors.ErrUpstreamUnavailable):
		response.BadGateway(c, 50201, "backend unavailable")
	default:
		c.Error(err)
		response.InternalError(c)
	}
}
