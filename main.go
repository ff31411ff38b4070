package main

import (
	"context"
	"os"

	"lms-backend/app"
	"lms-backend/config"
	"lms-backend/routes"

	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	application.Bootstrap(context.Background())

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	application.Log.Info("listening", zap.String("port", port))
	_ = r.Run(":" + port)
}
