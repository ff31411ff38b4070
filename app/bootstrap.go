package app

import (
	"context"
	"errors"

	"lms-backend/db"
	"lms-backend/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BcryptCost matches the stored hashes; changing it only affects new users.
const BcryptCost = 10

// Bootstrap seeds the fixed role set and, on first run, the admin account.
// Fatal on failure: the system is unusable without roles and an admin.
func (a *App) Bootstrap(ctx context.Context) {
	repo := db.NewRepo(a.DB)

	if err := seedRoles(ctx, repo); err != nil {
		a.Log.Fatal("seed roles", zap.Error(err))
	}
	if err := bootstrapAdmin(ctx, a.Config, repo, a.Log); err != nil {
		a.Log.Fatal("bootstrap admin", zap.Error(err))
	}
}

func seedRoles(ctx context.Context, repo *db.Repo) error {
	for _, name := range []string{models.RoleStudent, models.RoleTeacher, models.RoleAdmin} {
		role := models.Role{RoleName: name}
		if err := repo.DB.WithContext(ctx).
			Where("role_name = ?", name).
			FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}

// bootstrapAdmin creates the first admin from ADMIN_EMAIL/ADMIN_PASSWORD.
// The credential must come from the operator; there is no built-in default
// and none is ever printed.
func bootstrapAdmin(ctx context.Context, cfg Config, repo *db.Repo, logger *zap.Logger) error {
	n, err := repo.CountApprovedByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return errors.New("no admin account exists: set ADMIN_EMAIL and ADMIN_PASSWORD for first run")
	}

	adminRole, err := repo.FindRoleByName(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), BcryptCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:         "System Admin",
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		RoleID:       adminRole.RoleID,
		Status:       models.StatusApproved,
	}
	err = repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		// System-initiated: no acting user on the audit row.
		return tx.Create(&models.AuditLog{
			Action:    models.ActionCreate,
			Table:     "users",
			RecordID:  &admin.UserID,
			Timestamp: admin.CreatedAt.UTC(),
		}).Error
	})
	if err != nil {
		return err
	}

	logger.Info("bootstrap admin created", zap.String("email", cfg.AdminEmail))
	return nil
}
