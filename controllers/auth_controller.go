package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"lms-backend/app"
	"lms-backend/db"
	"lms-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// Compared against when login hits an unknown email, so both failure paths
// cost one bcrypt verification.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equalizer"), app.BcryptCost)

// POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var in struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Phone    string `json:"phone" binding:"required"`
		RoleID   uint   `json:"role_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "name, email, password, phone and role_id are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), app.BcryptCost)
	if err != nil {
		ac.internal(c, "hash password", err)
		return
	}

	u := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		RoleID:       in.RoleID,
	}
	if err := ac.Repo.CreateUser(c.Request.Context(), u); err != nil {
		switch {
		case errors.Is(err, db.ErrEmailTaken):
			fail(c, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, db.ErrInvalidRole):
			fail(c, http.StatusBadRequest, "Invalid role_id")
		default:
			ac.internal(c, "create user", err)
		}
		return
	}

	c.JSON(http.StatusCreated, app.H{
		"message": "Registration successful. Please wait for admin approval.",
		"user_id": u.UserID,
	})
}

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a comparison anyway so the unknown-email path is not
			// distinguishable by timing.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
			fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		ac.internal(c, "find user", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if u.Status != models.StatusApproved {
		fail(c, http.StatusForbidden,
			fmt.Sprintf("Account status: %s. Please wait for admin approval.", u.Status))
		return
	}

	roleName := ""
	if u.Role != nil {
		roleName = u.Role.RoleName
	}
	sid := uuid.NewString()
	if err := ac.Sess.Create(c.Request.Context(), sid, u.UserID, roleName); err != nil {
		ac.internal(c, "create session", err)
		return
	}

	if err := ac.Repo.AppendAudit(c.Request.Context(), &u.UserID, models.ActionLogin, "users", &u.UserID); err != nil {
		// The login is only real once it is audited.
		_ = ac.Sess.Delete(c.Request.Context(), sid)
		ac.internal(c, "audit login", err)
		return
	}

	ac.setSessionCookie(c, sid)
	c.JSON(http.StatusOK, app.H{
		"message": "Login successful",
		"user":    u.Public(),
	})
}

// POST /api/auth/logout
//
// Unguarded on purpose: logging out without a session is a no-op, not an
// error, and the cookie is cleared either way.
func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.SessionCookie); err == nil && ck.Value != "" {
		if sess, err := ac.Sess.Get(c.Request.Context(), ck.Value); err == nil {
			if err := ac.Repo.AppendAudit(c.Request.Context(), &sess.UserID, models.ActionLogout, "users", &sess.UserID); err != nil {
				ac.Log.Warn("audit logout", zap.Error(err))
			}
		}
		_ = ac.Sess.Delete(c.Request.Context(), ck.Value)
	}
	ac.clearSessionCookie(c)
	c.JSON(http.StatusOK, app.H{"message": "Logout successful"})
}

// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	uid, ok := app.UserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	u, err := ac.Repo.FindUserByID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		ac.internal(c, "find user", err)
		return
	}

	c.JSON(http.StatusOK, app.H{"user": u.Public()})
}
