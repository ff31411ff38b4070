package models

import "time"

// Loan states. ReturnDate is set iff the borrow reached RETURNED.
const (
	BorrowStatusBorrowed = "BORROWED"
	BorrowStatusReturned = "RETURNED"
	BorrowStatusOverdue  = "OVERDUE"
)

type Borrow struct {
	BorrowID   uint       `gorm:"primaryKey" json:"borrow_id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"-"`
	BookID     uint       `gorm:"not null;index" json:"book_id"`
	Book       *Book      `gorm:"foreignKey:BookID" json:"-"`
	BorrowDate time.Time  `gorm:"not null" json:"borrow_date"`
	DueDate    time.Time  `gorm:"not null;index" json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`
	Status     string     `gorm:"size:20;not null;default:'BORROWED';index" json:"status"`
}

func (Borrow) TableName() string { return "borrows" }
