package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"prezz/internal/session"
	"prezz/pkg/jwt"
	"prezz/pkg/response"
)

// sessionKey gin context key of the *session.Session
const sessionKey = "session"

// JWTAuth verifies the bearer token and attaches the caller's session to
// both the gin context and the request context
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Unauthorized(c, 10002, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token invalid or expired")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "wrong token type")
			c.Abort()
			return
		}

		sess, err := session.FromClaims(claims, parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token carries no usable session")
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		c.Set("user_id", sess.UserID)
		c.Set("role", sess.Role)
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), sess))

		c.Next()
	}
}

// RoleAuth lets through only the listed roles
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if sess.Role == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "role not allowed")
		c.Abort()
	}
}

// GetSession session attached by JWTAuth
func GetSession(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok && sess != nil
}

// SetSession attaches sess the way JWTAuth does; used by tests and tooling
func SetSession(c *gin.Context, sess *session.Session) {
	c.Set(sessionKey, sess)
}
