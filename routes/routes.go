package routes

import (
	"lms-backend/app"
	"lms-backend/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	adminCtl := controllers.NewAdminController(s)
	bookCtl := controllers.NewBookController(s)

	authMW := app.AuthRequired(a.Sessions())
	adminMW := app.AdminOnly(s.Repo)

	// ------------------------------
	// Auth (public + session)
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
		// Unguarded: logout with no session is a no-op.
		auth.POST("/logout", authCtl.Logout)
	}
	authed := r.Group("/api/auth", authMW)
	{
		authed.GET("/me", authCtl.Me)
	}

	// ------------------------------
	// Admin dashboard + approval workflow
	// ------------------------------
	admin := r.Group("/api/admin", authMW, adminMW)
	{
		admin.GET("/stats", adminCtl.Stats)
		admin.GET("/recent-activities", adminCtl.RecentActivities)
		admin.GET("/pending-users", adminCtl.PendingUsers)
		admin.PUT("/verify-user/:id", adminCtl.VerifyUser)
	}

	// ------------------------------
	// Books + borrow/return
	// ------------------------------
	booksAdmin := r.Group("/api/books", authMW, adminMW)
	{
		booksAdmin.POST("", bookCtl.CreateBook)
	}
	books := r.Group("/api/books", authMW)
	{
		books.GET("", bookCtl.ListBooks)
		books.POST("/:id/borrow", bookCtl.Borrow)
	}

	borrows := r.Group("/api/borrows", authMW)
	{
		borrows.GET("", bookCtl.ListBorrows)
		borrows.POST("/:id/return", bookCtl.Return)
	}
}
