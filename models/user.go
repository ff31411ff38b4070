package models

import "time"

// Account approval states. A user is created PENDING and moves exactly once
// to APPROVED or REJECTED.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Fixed role set, seeded at startup.
const (
	RoleStudent = "Student"
	RoleTeacher = "Teacher"
	RoleAdmin   = "Admin"
)

type Role struct {
	RoleID   uint   `gorm:"primaryKey" json:"role_id"`
	RoleName string `gorm:"size:50;uniqueIndex;not null" json:"role_name"`
}

func (Role) TableName() string { return "roles" }

type User struct {
	UserID       uint   `gorm:"primaryKey" json:"user_id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	RoleID       uint   `gorm:"not null;index" json:"role_id"`
	Role         *Role  `gorm:"foreignKey:RoleID" json:"-"`
	Status       string `gorm:"size:20;not null;default:'PENDING';index" json:"status"`

	// Set exactly once by verify-user; ApprovedBy points back at the admin.
	ApprovedBy *uint      `json:"approved_by,omitempty"`
	Approver   *User      `gorm:"foreignKey:ApprovedBy" json:"-"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// PublicUser is the projection handed to clients; the password hash never
// leaves the server.
type PublicUser struct {
	UserID     uint       `json:"user_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	RoleName   string     `json:"role_name"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

func (u *User) Public() PublicUser {
	p := PublicUser{
		UserID:     u.UserID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
		ApprovedAt: u.ApprovedAt,
	}
	if u.Role != nil {
		p.RoleName = u.Role.RoleName
	}
	return p
}
