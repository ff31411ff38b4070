package models

import "time"

type Book struct {
	BookID uint    `gorm:"primaryKey" json:"book_id"`
	Title  string  `gorm:"size:200;not null" json:"title"`
	Author string  `gorm:"size:100;not null" json:"author"`
	ISBN   *string `gorm:"size:20;uniqueIndex" json:"isbn"`

	// 0 <= available_copies <= total_copies at all times; all mutation goes
	// through conditional updates in db.
	TotalCopies     int `gorm:"not null;default:1" json:"total_copies"`
	AvailableCopies int `gorm:"not null;default:1;check:available_copies >= 0 AND available_copies <= total_copies" json:"available_copies"`

	CreatedAt time.Time `json:"created_at"`
}

func (Book) TableName() string { return "books" }
