package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminGuard(t *testing.T) {
	e := newEnv(t)

	// no session at all
	w := e.request(http.MethodGet, "/api/admin/stats", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// authenticated but not an admin
	uid := e.registerStudent("student@example.com", "pw")
	adminCk := e.login(adminEmail, adminPassword)
	e.approve(adminCk, uid)
	studentCk := e.login("student@example.com", "pw")

	for _, path := range []string{
		"/api/admin/stats",
		"/api/admin/recent-activities",
		"/api/admin/pending-users",
	} {
		w := e.request(http.MethodGet, path, nil, studentCk)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
		assert.Equal(t, "Admin access required", decode(t, w)["error"])
	}
}

func TestVerifyUser(t *testing.T) {
	e := newEnv(t)
	adminCk := e.login(adminEmail, adminPassword)
	uid := e.registerStudent("pending@example.com", "pw")

	// bad action value
	w := e.request(http.MethodPut, verifyPath(uid),
		map[string]string{"action": "promote"}, adminCk)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing action
	w = e.request(http.MethodPut, verifyPath(uid), map[string]string{}, adminCk)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown user
	w = e.request(http.MethodPut, verifyPath(99999),
		map[string]string{"action": "approve"}, adminCk)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// approve is case-insensitive
	w = e.request(http.MethodPut, verifyPath(uid),
		map[string]string{"action": "APPROVE"}, adminCk)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "User approved successfully", decode(t, w)["message"])

	// second verification conflicts and names the settled status
	w = e.request(http.MethodPut, verifyPath(uid),
		map[string]string{"action": "reject"}, adminCk)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "APPROVED")
}

func TestPendingUsers(t *testing.T) {
	e := newEnv(t)
	adminCk := e.login(adminEmail, adminPassword)

	e.registerStudent("p1@example.com", "pw")
	e.registerStudent("p2@example.com", "pw")

	w := e.request(http.MethodGet, "/api/admin/pending-users", nil, adminCk)
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Equal(t, "PENDING", u["status"])
		assert.Equal(t, "Student", u["role_name"])
		assert.NotContains(t, u, "password_hash")
	}
}

func TestStats(t *testing.T) {
	e := newEnv(t)
	adminCk := e.login(adminEmail, adminPassword)

	uid := e.registerStudent("s@example.com", "pw")
	e.registerStudent("p@example.com", "pw") // stays pending
	e.approve(adminCk, uid)

	w := e.request(http.MethodGet, "/api/admin/stats", nil, adminCk)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)
	assert.EqualValues(t, 1, stats["total_students"])
	assert.EqualValues(t, 0, stats["total_books"])
	assert.EqualValues(t, 0, stats["books_borrowed"])
	assert.EqualValues(t, 0, stats["overdue_books"])
	assert.EqualValues(t, 1, stats["pending_verifications"])
}

func TestRecentActivities(t *testing.T) {
	e := newEnv(t)
	adminCk := e.login(adminEmail, adminPassword)

	// each registration and each approval is an audited action; together
	// with the admin login that is more than five entries
	var ids []uint
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com"} {
		ids = append(ids, e.registerStudent(email, "pw"))
	}
	for _, id := range ids {
		e.approve(adminCk, id)
	}

	w := e.request(http.MethodGet, "/api/admin/recent-activities", nil, adminCk)
	require.Equal(t, http.StatusOK, w.Code)

	var acts []struct {
		UserName  string    `json:"user_name"`
		Action    string    `json:"action"`
		TableName string    `json:"table_name"`
		Timestamp time.Time `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acts))
	require.Len(t, acts, 5)
	for i := 1; i < len(acts); i++ {
		assert.False(t, acts[i].Timestamp.After(acts[i-1].Timestamp), "newest first")
	}
	// the latest actions are the approvals by the admin
	assert.Equal(t, "APPROVE", acts[0].Action)
	assert.Equal(t, "System Admin", acts[0].UserName)
	assert.Equal(t, "users", acts[0].TableName)
}
