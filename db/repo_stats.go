package db

import (
	"context"
	"time"

	"lms-backend/models"
)

// DashboardStats mirrors the admin dashboard counters. Field names are the
// wire names.
type DashboardStats struct {
	TotalStudents        int64 `json:"total_students"`
	TotalBooks           int64 `json:"total_books"`
	BooksBorrowed        int64 `json:"books_borrowed"`
	OverdueBooks         int64 `json:"overdue_books"`
	PendingVerifications int64 `json:"pending_verifications"`
}

// Stats computes every counter fresh; volumes are small enough that
// correctness beats caching.
func (r *Repo) Stats(ctx context.Context) (*DashboardStats, error) {
	var s DashboardStats
	var err error

	if s.TotalStudents, err = r.CountApprovedByRole(ctx, models.RoleStudent); err != nil {
		return nil, err
	}
	if s.TotalBooks, err = r.CountBooks(ctx); err != nil {
		return nil, err
	}
	if s.BooksBorrowed, err = r.CountOpenBorrows(ctx); err != nil {
		return nil, err
	}
	if s.OverdueBooks, err = r.CountOverdueBorrows(ctx, time.Now().UTC()); err != nil {
		return nil, err
	}
	if s.PendingVerifications, err = r.CountPendingUsers(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}
