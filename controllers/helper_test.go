package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"lms-backend/app"
	"lms-backend/db"
	"lms-backend/models"
	"lms-backend/routes"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	adminEmail    = "admin@library.test"
	adminPassword = "correct horse battery staple"
)

type env struct {
	t    *testing.T
	app  *app.App
	repo *db.Repo
}

// newEnv stands up the real router over in-memory sqlite and miniredis,
// with roles and an approved admin seeded.
func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // each pooled :memory: conn is a distinct database
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(conn))
	for _, name := range []string{models.RoleStudent, models.RoleTeacher, models.RoleAdmin} {
		require.NoError(t, conn.Create(&models.Role{RoleName: name}).Error)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	a := app.New(conn, rdb, zap.NewNop(), app.Config{
		WebOrigin:  "http://localhost:5173",
		SessionTTL: time.Hour,
	})
	routes.RegisterRoutes(a.Router, a)

	e := &env{t: t, app: a, repo: db.NewRepo(conn)}
	e.seedAdmin()
	return e
}

func (e *env) seedAdmin() {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), app.BcryptCost)
	require.NoError(e.t, err)

	role, err := e.repo.FindRoleByName(context.Background(), models.RoleAdmin)
	require.NoError(e.t, err)

	require.NoError(e.t, e.repo.DB.Create(&models.User{
		Name:         "System Admin",
		Email:        adminEmail,
		PasswordHash: string(hash),
		Phone:        "0000000000",
		RoleID:       role.RoleID,
		Status:       models.StatusApproved,
	}).Error)
}

func (e *env) roleID(name string) uint {
	role, err := e.repo.FindRoleByName(context.Background(), name)
	require.NoError(e.t, err)
	return role.RoleID
}

// request drives the router; body is JSON-encoded, cookie optional.
func (e *env) request(method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.app.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == app.SessionCookie && ck.Value != "" {
			return ck
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

// login asserts success and hands back the session cookie.
func (e *env) login(email, password string) *http.Cookie {
	e.t.Helper()
	w := e.request(http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, nil)
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	return sessionCookie(e.t, w)
}

// registerStudent registers and returns the new user id.
func (e *env) registerStudent(email, password string) uint {
	e.t.Helper()
	w := e.request(http.MethodPost, "/api/auth/register", map[string]interface{}{
		"name":     "Student " + email,
		"email":    email,
		"password": password,
		"phone":    "0123456789",
		"role_id":  e.roleID(models.RoleStudent),
	}, nil)
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return uint(decode(e.t, w)["user_id"].(float64))
}

// approve flips a pending user through the admin endpoint.
func (e *env) approve(adminCookie *http.Cookie, userID uint) {
	e.t.Helper()
	w := e.request(http.MethodPut, verifyPath(userID),
		map[string]string{"action": "approve"}, adminCookie)
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
}

func itoa(n uint) string { return strconv.FormatUint(uint64(n), 10) }

func verifyPath(userID uint) string {
	return "/api/admin/verify-user/" + itoa(userID)
}
