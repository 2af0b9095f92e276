package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/arnavshah/shift-calendar-go/internal/config"
	"github.com/arnavshah/shift-calendar-go/internal/logging"
	"github.com/arnavshah/shift-calendar-go/pkg/auth"
	"github.com/arnavshah/shift-calendar-go/pkg/database"
	"github.com/arnavshah/shift-calendar-go/pkg/handlers"
	"github.com/arnavshah/shift-calendar-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
)

// App bundles the wired service components
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Store   *database.Store
	Auth    *auth.Provider
	Handler *handlers.Handler
	Router  *gin.Engine
}

// New opens the database and wires every component from cfg
func New(cfg config.Config) (*App, error) {
	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		return nil, err
	}
	store := database.NewStore(db, logger)
	provider := auth.NewProvider(db, cfg.JWTSecret, cfg.TokenTTL)
	sched := scheduler.New(scheduler.WithLocation(cfg.Location))

	h := handlers.New(store, provider, sched, cfg.FeedSecret, cfg.DefaultCellWidth, logger)
	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Auth:    provider,
		Handler: h,
		Router:  handlers.NewRouter(h),
	}, nil
}

// FromEnv loads configuration from the environment and .env files, then wires the app
func FromEnv() (*App, error) {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return New(cfg)
}
