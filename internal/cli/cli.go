// Package cli implements the manage command: database maintenance and
// read-only task views for the terminal
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ethanbaker/taskmanager/internal/stores/database"
	"github.com/ethanbaker/taskmanager/pkg/i18n"
	"github.com/ethanbaker/taskmanager/pkg/session"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/ethanbaker/taskmanager/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultDatabaseURL matches the server default so both share a database
const DefaultDatabaseURL = "sqlite://db.sqlite3"

// App holds what a command needs once the configuration is loaded
type App struct {
	Config  *utils.Config
	Logger  *zap.Logger
	Catalog *i18n.Catalog

	db       *gorm.DB
	store    *tracker.Store
	sessions *session.Store
}

// NewApp loads the environment file and builds the logger and catalog. The
// database is opened lazily by Store
func NewApp(envFile string) (*App, error) {
	if envFile == "" {
		envFile = ".env"
		if os.Getenv("ENV_FILE") != "" {
			envFile = os.Getenv("ENV_FILE")
		}
	}
	cfg := utils.NewConfigFromEnv(envFile)

	logger, err := utils.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	catalog, err := i18n.Load("en")
	if err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}

	return &App{Config: cfg, Logger: logger, Catalog: catalog}, nil
}

// Store opens the database on first use
func (a *App) Store() (*tracker.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	url := a.Config.GetWithDefault("DATABASE_URL", DefaultDatabaseURL)
	db, err := database.Open(url, database.Options{Debug: a.Config.Debug(), Logger: a.Logger.Named("database")})
	if err != nil {
		return nil, err
	}

	a.db = db
	a.store = tracker.NewStore(db)
	a.sessions = session.NewStore(db, a.Config.GetDurationWithDefault("SESSION_TTL", session.DefaultTTL))
	return a.store, nil
}

// Migrate creates or updates every table the server uses
func (a *App) Migrate(ctx context.Context) error {
	store, err := a.Store()
	if err != nil {
		return err
	}

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	return a.sessions.Migrate(ctx)
}

// PurgeSessions removes expired sessions once
func (a *App) PurgeSessions(ctx context.Context) (int64, error) {
	if _, err := a.Store(); err != nil {
		return 0, err
	}
	return a.sessions.PurgeExpired(ctx)
}

// Close releases the database and flushes the logger
func (a *App) Close() error {
	defer a.Logger.Sync() //nolint:errcheck

	if a.db == nil {
		return nil
	}
	return database.Close(a.db)
}

// timeout bounds a single command's database work
func timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 30*time.Second)
}

func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...) //nolint:errcheck
}
