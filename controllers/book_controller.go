package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"lms-backend/app"
	"lms-backend/db"
	"lms-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BookController struct{ *Srv }

func NewBookController(s *Srv) *BookController { return &BookController{Srv: s} }

// POST /api/books  (admin)
func (bc *BookController) CreateBook(c *gin.Context) {
	var in struct {
		Title       string  `json:"title" binding:"required"`
		Author      string  `json:"author" binding:"required"`
		ISBN        *string `json:"isbn"`
		TotalCopies int     `json:"total_copies"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "title and author are required")
		return
	}
	if in.TotalCopies == 0 {
		in.TotalCopies = 1
	}
	if in.TotalCopies < 1 {
		fail(c, http.StatusBadRequest, "total_copies must be at least 1")
		return
	}
	if in.ISBN != nil && *in.ISBN == "" {
		in.ISBN = nil
	}

	adminID, _ := app.UserID(c)
	b := &models.Book{
		Title:       in.Title,
		Author:      in.Author,
		ISBN:        in.ISBN,
		TotalCopies: in.TotalCopies,
	}
	if err := bc.Repo.CreateBook(c.Request.Context(), adminID, b); err != nil {
		if errors.Is(err, db.ErrISBNTaken) {
			fail(c, http.StatusBadRequest, "ISBN already exists")
			return
		}
		bc.internal(c, "create book", err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"book": b})
}

// GET /api/books
func (bc *BookController) ListBooks(c *gin.Context) {
	books, err := bc.Repo.ListBooks(c.Request.Context())
	if err != nil {
		bc.internal(c, "list books", err)
		return
	}
	c.JSON(http.StatusOK, app.H{"books": books})
}

// POST /api/books/:id/borrow
func (bc *BookController) Borrow(c *gin.Context) {
	bookID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid book id")
		return
	}
	uid, ok := app.UserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	borrow, err := bc.Repo.BorrowBook(c.Request.Context(), uid, uint(bookID))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			fail(c, http.StatusNotFound, "Book not found")
		case errors.Is(err, db.ErrNoCopies):
			fail(c, http.StatusBadRequest, "No copies available")
		default:
			bc.internal(c, "borrow book", err)
		}
		return
	}
	c.JSON(http.StatusCreated, app.H{
		"message": "Book borrowed successfully",
		"borrow":  borrow,
	})
}

// POST /api/borrows/:id/return
func (bc *BookController) Return(c *gin.Context) {
	borrowID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid borrow id")
		return
	}
	uid, ok := app.UserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	isAdmin := app.RoleName(c) == models.RoleAdmin

	borrow, err := bc.Repo.ReturnBorrow(c.Request.Context(), uid, uint(borrowID), isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			fail(c, http.StatusNotFound, "Borrow not found")
		case errors.Is(err, db.ErrNotOwner):
			fail(c, http.StatusForbidden, "Cannot return another user's borrow")
		case errors.Is(err, db.ErrAlreadyReturned):
			fail(c, http.StatusBadRequest, "Borrow already returned")
		default:
			bc.internal(c, "return borrow", err)
		}
		return
	}
	c.JSON(http.StatusOK, app.H{
		"message": "Book returned successfully",
		"borrow":  borrow,
	})
}

// GET /api/borrows?book_id=&status=&user_id=
//
// Non-admins always get their own borrows; the user_id filter is
// admin-only.
func (bc *BookController) ListBorrows(c *gin.Context) {
	uid, ok := app.UserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	userFilter := uid
	if app.RoleName(c) == models.RoleAdmin {
		userFilter = 0
		if v := c.Query("user_id"); v != "" {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				fail(c, http.StatusBadRequest, "invalid user_id")
				return
			}
			userFilter = uint(n)
		}
	}

	var bookFilter uint
	if v := c.Query("book_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid book_id")
			return
		}
		bookFilter = uint(n)
	}

	borrows, err := bc.Repo.ListBorrows(c.Request.Context(), userFilter, bookFilter, c.Query("status"))
	if err != nil {
		bc.internal(c, "list borrows", err)
		return
	}
	c.JSON(http.StatusOK, app.H{"borrows": borrows})
}
