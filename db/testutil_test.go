package db

import (
	"context"
	"testing"

	"lms-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepo opens an in-memory sqlite database with the full schema and
// the fixed roles seeded. One connection only: each pooled connection to
// :memory: would be a separate database.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(conn))

	for _, name := range []string{models.RoleStudent, models.RoleTeacher, models.RoleAdmin} {
		require.NoError(t, conn.Create(&models.Role{RoleName: name}).Error)
	}
	return NewRepo(conn)
}

func roleID(t *testing.T, r *Repo, name string) uint {
	t.Helper()
	role, err := r.FindRoleByName(context.Background(), name)
	require.NoError(t, err)
	return role.RoleID
}

// newUser registers a PENDING user through the repo, like the register
// endpoint would.
func newUser(t *testing.T, r *Repo, email, roleName string) *models.User {
	t.Helper()
	u := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Phone:        "0123456789",
		RoleID:       roleID(t, r, roleName),
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

// newApprovedAdmin creates an already-approved admin directly, the way
// bootstrap does.
func newApprovedAdmin(t *testing.T, r *Repo, email string) *models.User {
	t.Helper()
	u := &models.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Phone:        "0000000000",
		RoleID:       roleID(t, r, models.RoleAdmin),
		Status:       models.StatusApproved,
	}
	require.NoError(t, r.DB.Create(u).Error)
	return u
}

func newBook(t *testing.T, r *Repo, adminID uint, title string, copies int) *models.Book {
	t.Helper()
	b := &models.Book{Title: title, Author: "Author", TotalCopies: copies}
	require.NoError(t, r.CreateBook(context.Background(), adminID, b))
	return b
}

func countAudit(t *testing.T, r *Repo, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, r.DB.Model(&models.AuditLog{}).Where("action = ?", action).Count(&n).Error)
	return n
}

func bookCopies(t *testing.T, r *Repo, bookID uint) (available, total int) {
	t.Helper()
	b, err := r.FindBookByID(context.Background(), bookID)
	require.NoError(t, err)
	return b.AvailableCopies, b.TotalCopies
}
