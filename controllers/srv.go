package controllers

import (
	"net/http"
	"strings"
	"time"

	"lms-backend/app"
	"lms-backend/db"
	"lms-backend/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Srv bundles the dependencies shared by every controller.
type Srv struct {
	Repo      *db.Repo
	Sess      *session.Store
	Log       *zap.Logger
	WebOrigin string
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:      db.NewRepo(a.DB),
		Sess:      a.Sessions(),
		Log:       a.Log,
		WebOrigin: a.Config.WebOrigin,
	}
}

// fail writes the uniform error envelope; the status code appears in the
// body as well so browser clients don't have to read it off the response.
func fail(c *gin.Context, code int, msg string) {
	c.JSON(code, app.H{"error": msg, "status": code})
}

// internal hides the cause from the client and logs it server-side.
func (s *Srv) internal(c *gin.Context, op string, err error) {
	s.Log.Error(op, zap.Error(err), zap.String("path", c.FullPath()))
	fail(c, http.StatusInternalServerError, "Internal server error")
}

func (s *Srv) secureCookie() bool {
	return strings.HasPrefix(s.WebOrigin, "https://")
}

func (s *Srv) setSessionCookie(c *gin.Context, sessionID string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.SessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secureCookie(),
		MaxAge:   int(s.Sess.TTL() / time.Second),
	})
}

func (s *Srv) clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secureCookie(),
	})
}
