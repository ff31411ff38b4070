package db

import (
	"context"
	"time"

	"lms-backend/models"

	"gorm.io/gorm"
)

// LoanPeriod is how long a borrowed copy is out before it counts as overdue.
const LoanPeriod = 14 * 24 * time.Hour

// Books

func (r *Repo) CreateBook(ctx context.Context, adminID uint, b *models.Book) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if b.ISBN != nil {
			var n int64
			if err := tx.Model(&models.Book{}).
				Where("isbn = ?", *b.ISBN).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrISBNTaken
			}
		}
		b.AvailableCopies = b.TotalCopies
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		return appendAudit(tx, &adminID, models.ActionCreate, "books", &b.BookID)
	})
}

func (r *Repo) FindBookByID(ctx context.Context, id uint) (*models.Book, error) {
	var b models.Book
	if err := r.DB.WithContext(ctx).First(&b, "book_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repo) ListBooks(ctx context.Context) ([]models.Book, error) {
	books := make([]models.Book, 0)
	err := r.DB.WithContext(ctx).Order("created_at DESC, book_id DESC").Find(&books).Error
	return books, err
}

func (r *Repo) CountBooks(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Book{}).Count(&n).Error
	return n, err
}

// Borrows

// BorrowBook takes one copy and opens a borrow, atomically. The decrement is
// conditional on available_copies > 0, so concurrent borrowers on the last
// copy cannot drive the count negative: one wins, the rest get ErrNoCopies.
func (r *Repo) BorrowBook(ctx context.Context, userID, bookID uint) (*models.Borrow, error) {
	var borrow *models.Borrow
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).
			Where("book_id = ? AND available_copies > 0", bookID).
			Update("available_copies", gorm.Expr("available_copies - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var b models.Book
			if err := tx.First(&b, "book_id = ?", bookID).Error; err != nil {
				return err // gorm.ErrRecordNotFound: book does not exist
			}
			return ErrNoCopies
		}

		now := time.Now().UTC()
		bw := &models.Borrow{
			UserID:     userID,
			BookID:     bookID,
			BorrowDate: now,
			DueDate:    now.Add(LoanPeriod),
			Status:     models.BorrowStatusBorrowed,
		}
		if err := tx.Create(bw).Error; err != nil {
			return err
		}
		if err := appendAudit(tx, &userID, models.ActionBorrow, "borrows", &bw.BorrowID); err != nil {
			return err
		}
		borrow = bw
		return nil
	})
	if err != nil {
		return nil, err
	}
	return borrow, nil
}

// ReturnBorrow closes an open borrow and gives the copy back, atomically.
// The close is conditional on return_date IS NULL so a double return affects
// zero rows; the increment is conditional on available_copies < total_copies
// so the count never exceeds the total.
func (r *Repo) ReturnBorrow(ctx context.Context, actorID, borrowID uint, isAdmin bool) (*models.Borrow, error) {
	var borrow models.Borrow
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&borrow, "borrow_id = ?", borrowID).Error; err != nil {
			return err
		}
		if !isAdmin && borrow.UserID != actorID {
			return ErrNotOwner
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Borrow{}).
			Where("borrow_id = ? AND return_date IS NULL", borrowID).
			Updates(map[string]interface{}{
				"status":      models.BorrowStatusReturned,
				"return_date": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyReturned
		}

		if err := tx.Model(&models.Book{}).
			Where("book_id = ? AND available_copies < total_copies", borrow.BookID).
			Update("available_copies", gorm.Expr("available_copies + 1")).Error; err != nil {
			return err
		}

		borrow.Status = models.BorrowStatusReturned
		borrow.ReturnDate = &now
		return appendAudit(tx, &actorID, models.ActionReturn, "borrows", &borrowID)
	})
	if err != nil {
		return nil, err
	}
	return &borrow, nil
}

// ListBorrows filters by user, book and status; zero values mean no filter.
func (r *Repo) ListBorrows(ctx context.Context, userID, bookID uint, status string) ([]models.Borrow, error) {
	q := r.DB.WithContext(ctx).Model(&models.Borrow{}).Order("borrow_date DESC")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if bookID != 0 {
		q = q.Where("book_id = ?", bookID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	bs := make([]models.Borrow, 0)
	if err := q.Find(&bs).Error; err != nil {
		return nil, err
	}
	return bs, nil
}

func (r *Repo) CountOpenBorrows(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Borrow{}).
		Where("status = ?", models.BorrowStatusBorrowed).
		Count(&n).Error
	return n, err
}

func (r *Repo) CountOverdueBorrows(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Borrow{}).
		Where("status = ? AND due_date < ?", models.BorrowStatusBorrowed, now).
		Count(&n).Error
	return n, err
}
