package app

import (
	"net/http"

	"lms-backend/db"
	"lms-backend/models"
	"lms-backend/session"

	"github.com/gin-gonic/gin"
)

const SessionCookie = "lms_session"

// Context keys set by AuthRequired.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
)

// AuthRequired resolves the session cookie and injects the authenticated
// identity into the request context. It deliberately does not touch the
// users table; handlers that need the row load it themselves (a vanished
// user is a 404 on /me, not a 401 here).
func AuthRequired(sess *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(SessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				H{"error": "Authentication required", "status": http.StatusUnauthorized})
			return
		}
		s, err := sess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				H{"error": "Authentication required", "status": http.StatusUnauthorized})
			return
		}

		c.Set(CtxUserID, s.UserID)
		c.Set(CtxRole, s.Role)
		c.Next()
	}
}

// AdminOnly gates a route to users whose current role is Admin. The role is
// checked against the database, not the session snapshot, so a demoted
// admin loses access as soon as the row changes.
func AdminOnly(repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxUserID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				H{"error": "Authentication required", "status": http.StatusUnauthorized})
			return
		}
		uid, _ := v.(uint)

		u, err := repo.FindUserByID(c.Request.Context(), uid)
		if err != nil || u.Role == nil || u.Role.RoleName != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden,
				H{"error": "Admin access required", "status": http.StatusForbidden})
			return
		}
		c.Next()
	}
}

// UserID reads the authenticated user id set by AuthRequired.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, false
	}
	uid, ok := v.(uint)
	return uid, ok
}

// RoleName reads the session role set by AuthRequired.
func RoleName(c *gin.Context) string {
	v, ok := c.Get(CtxRole)
	if !ok {
		return ""
	}
	role, _ := v.(string)
	return role
}
