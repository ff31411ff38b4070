package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lms-backend/models"

	"gorm.io/gorm"
)

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidRole     = errors.New("invalid role_id")
	ErrISBNTaken       = errors.New("isbn already exists")
	ErrNoCopies        = errors.New("no copies available")
	ErrAlreadyReturned = errors.New("borrow already returned")
	ErrNotOwner        = errors.New("borrow belongs to another user")
)

// StatusConflictError reports a verify-user call against a user that has
// already been approved or rejected.
type StatusConflictError struct{ Status string }

func (e *StatusConflictError) Error() string {
	return fmt.Sprintf("User status is already %s", e.Status)
}

type Repo struct{ DB *gorm.DB }

func NewRepo(conn *gorm.DB) *Repo { return &Repo{DB: conn} }

// Users

// CreateUser inserts a PENDING user and its CREATE audit entry in one
// transaction. The caller supplies the bcrypt hash.
func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.First(&role, "role_id = ?", u.RoleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidRole
			}
			return err
		}

		var n int64
		if err := tx.Model(&models.User{}).
			Where("email = ?", u.Email).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEmailTaken
		}

		u.Status = models.StatusPending
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		return appendAudit(tx, &u.UserID, models.ActionCreate, "users", &u.UserID)
	})
}

func (r *Repo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Preload("Role").
		First(&u, "user_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Preload("Role").
		Where("email = ?", strings.TrimSpace(email)).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.DB.WithContext(ctx).Where("role_name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *Repo) ListPendingUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	err := r.DB.WithContext(ctx).Preload("Role").
		Where("status = ?", models.StatusPending).
		Order("created_at DESC, user_id DESC").
		Find(&users).Error
	return users, err
}

// VerifyUser flips a PENDING user to APPROVED or REJECTED and appends the
// audit entry, all in one transaction. The status flip is a conditional
// update on status='PENDING': under concurrent calls exactly one affects a
// row, the loser reloads and reports the already-settled status.
func (r *Repo) VerifyUser(ctx context.Context, adminID, userID uint, approve bool) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		newStatus := models.StatusRejected
		action := models.ActionReject
		if approve {
			newStatus = models.StatusApproved
			action = models.ActionApprove
		}

		now := time.Now().UTC()
		res := tx.Model(&models.User{}).
			Where("user_id = ? AND status = ?", userID, models.StatusPending).
			Updates(map[string]interface{}{
				"status":      newStatus,
				"approved_by": adminID,
				"approved_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var u models.User
			if err := tx.First(&u, "user_id = ?", userID).Error; err != nil {
				return err
			}
			return &StatusConflictError{Status: u.Status}
		}

		return appendAudit(tx, &adminID, action, "users", &userID)
	})
}

func (r *Repo) CountApprovedByRole(ctx context.Context, roleName string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN roles ON roles.role_id = users.role_id").
		Where("roles.role_name = ? AND users.status = ?", roleName, models.StatusApproved).
		Count(&n).Error
	return n, err
}

func (r *Repo) CountPendingUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("status = ?", models.StatusPending).
		Count(&n).Error
	return n, err
}
