package db

import (
	"context"
	"time"

	"lms-backend/models"

	"gorm.io/gorm"
)

// appendAudit inserts one immutable audit row on the given handle. Mutations
// call it inside their own transaction so a failed append rolls the parent
// operation back instead of leaving an un-audited write.
func appendAudit(tx *gorm.DB, userID *uint, action, table string, recordID *uint) error {
	return tx.Create(&models.AuditLog{
		UserID:    userID,
		Action:    action,
		Table:     table,
		RecordID:  recordID,
		Timestamp: time.Now().UTC(),
	}).Error
}

// AppendAudit is the standalone form, for actions whose only persisted
// effect is the audit entry itself (LOGIN, LOGOUT, bootstrap). A nil userID
// records a system-initiated action.
func (r *Repo) AppendAudit(ctx context.Context, userID *uint, action, table string, recordID *uint) error {
	return appendAudit(r.DB.WithContext(ctx), userID, action, table, recordID)
}

// Activity is one resolved audit row for the admin dashboard.
type Activity struct {
	UserName  string    `json:"user_name"`
	Action    string    `json:"action"`
	TableName string    `json:"table_name"`
	Timestamp time.Time `json:"timestamp"`
}

// RecentActivities returns the latest audit entries, newest first. Rows with
// no user (system actions, or the user has since been deleted) resolve to
// "System".
func (r *Repo) RecentActivities(ctx context.Context, limit int) ([]Activity, error) {
	var logs []models.AuditLog
	if err := r.DB.WithContext(ctx).Preload("User").
		Order("timestamp DESC, log_id DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	out := make([]Activity, 0, len(logs))
	for _, l := range logs {
		name := "System"
		if l.User != nil {
			name = l.User.Name
		}
		out = append(out, Activity{
			UserName:  name,
			Action:    l.Action,
			TableName: l.Table,
			Timestamp: l.Timestamp,
		})
	}
	return out, nil
}
