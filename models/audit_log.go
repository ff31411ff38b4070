package models

import "time"

// Audit actions recorded for every state-changing operation.
const (
	ActionCreate  = "CREATE"
	ActionLogin   = "LOGIN"
	ActionLogout  = "LOGOUT"
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
	ActionBorrow  = "BORROW"
	ActionReturn  = "RETURN"
)

// AuditLog rows are append-only: never updated, never deleted.
// A nil UserID marks a system-initiated action.
type AuditLog struct {
	LogID     uint      `gorm:"primaryKey" json:"log_id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	Action    string    `gorm:"size:50;not null" json:"action"`
	Table     string    `gorm:"size:50;not null;column:table_name" json:"table_name"`
	RecordID  *uint     `json:"record_id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

func (AuditLog) TableName() string { return "auditlog" }
