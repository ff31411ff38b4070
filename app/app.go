package app

import (
	"context"
	"os"
	"strings"
	"time"

	"lms-backend/db"
	"lms-backend/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Ctx = gin.Context
type H = gin.H

// App aggregates the shared dependencies handed to routes and controllers.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Log    *zap.Logger
	Config Config

	sess *session.Store
}

type Config struct {
	RedisAddr     string
	RedisPwd      string
	WebOrigin     string
	SessionTTL    time.Duration
	AdminEmail    string
	AdminPassword string
}

func (a *App) Sessions() *session.Store { return a.sess }

// New wires an App from already-open dependencies.
func New(dbConn *gorm.DB, rdb *redis.Client, logger *zap.Logger, cfg Config) *App {
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)

	return &App{
		Router: r, DB: dbConn, RDB: rdb, Log: logger, Config: cfg,
		sess: session.NewStore(rdb, cfg.SessionTTL),
	}
}

func MustNew() *App {
	cfg := loadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	dbConn := db.ConnectDB()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis", zap.Error(err))
	}

	return New(dbConn, rdb, logger, cfg)
}

func (a *App) Close() {
	_ = a.RDB.Close()
	_ = a.Log.Sync()
}

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	ttlSec := get("SESSION_TTL_SECONDS", "86400")
	ttl := 24 * time.Hour
	if d, err := time.ParseDuration(ttlSec + "s"); err == nil && d > 0 {
		ttl = d
	}
	return Config{
		RedisAddr:     get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:      os.Getenv("REDIS_PASSWORD"),
		WebOrigin:     get("WEB_ORIGIN", "http://localhost:5173"),
		SessionTTL:    ttl,
		AdminEmail:    strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}
