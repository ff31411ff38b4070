package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"lms-backend/app"
	"lms-backend/db"
	"lms-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminController struct{ *Srv }

func NewAdminController(s *Srv) *AdminController { return &AdminController{Srv: s} }

// GET /api/admin/stats
func (adm *AdminController) Stats(c *gin.Context) {
	stats, err := adm.Repo.Stats(c.Request.Context())
	if err != nil {
		adm.internal(c, "stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/admin/recent-activities
func (adm *AdminController) RecentActivities(c *gin.Context) {
	acts, err := adm.Repo.RecentActivities(c.Request.Context(), 5)
	if err != nil {
		adm.internal(c, "recent activities", err)
		return
	}
	c.JSON(http.StatusOK, acts)
}

// GET /api/admin/pending-users
func (adm *AdminController) PendingUsers(c *gin.Context) {
	users, err := adm.Repo.ListPendingUsers(c.Request.Context())
	if err != nil {
		adm.internal(c, "pending users", err)
		return
	}

	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/admin/verify-user/:id
func (adm *AdminController) VerifyUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var in struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "action field is required (approve or reject)")
		return
	}
	action := strings.ToLower(strings.TrimSpace(in.Action))
	if action != "approve" && action != "reject" {
		fail(c, http.StatusBadRequest, `action must be "approve" or "reject"`)
		return
	}

	adminID, _ := app.UserID(c)
	if err := adm.Repo.VerifyUser(c.Request.Context(), adminID, uint(id), action == "approve"); err != nil {
		var conflict *db.StatusConflictError
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			fail(c, http.StatusNotFound, "User not found")
		case errors.As(err, &conflict):
			// e.g. "User status is already APPROVED"
			fail(c, http.StatusBadRequest, conflict.Error())
		default:
			adm.internal(c, "verify user", err)
		}
		return
	}

	msg := "User approved successfully"
	if action == "reject" {
		msg = "User rejected successfully"
	}
	c.JSON(http.StatusOK, app.H{"message": msg})
}
