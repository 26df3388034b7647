package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	api_utils "github.com/ethanbaker/api/pkg/utils"
	"github.com/ethanbaker/taskmanager/internal/api/web"
	"github.com/ethanbaker/taskmanager/internal/stores/database"
	"github.com/ethanbaker/taskmanager/pkg/i18n"
	"github.com/ethanbaker/taskmanager/pkg/session"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/ethanbaker/taskmanager/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	health_module "github.com/ethanbaker/taskmanager/internal/api/modules/health"
	home_module "github.com/ethanbaker/taskmanager/internal/api/modules/home"
	labels_module "github.com/ethanbaker/taskmanager/internal/api/modules/labels"
	resources_module "github.com/ethanbaker/taskmanager/internal/api/modules/resources"
	statuses_module "github.com/ethanbaker/taskmanager/internal/api/modules/statuses"
	tasks_module "github.com/ethanbaker/taskmanager/internal/api/modules/tasks"
	users_module "github.com/ethanbaker/taskmanager/internal/api/modules/users"
)

// Defaults for settings missing from the environment
const (
	DefaultDatabaseURL = "sqlite://db.sqlite3"
	DefaultPort        = "8080"
	DefaultLanguage    = "ru"

	// devSecretKey signs cookies in development when SECRET_KEY is unset
	devSecretKey = "insecure-development-key"

	shutdownTimeout = 10 * time.Second
)

// Server is the assembled application
type Server struct {
	cfg      *utils.Config
	logger   *zap.Logger
	db       *gorm.DB
	store    *tracker.Store
	sessions *session.Store
	janitor  *session.Janitor
	renderer *web.Renderer
	engine   *gin.Engine

	port         string
	templatesDir string
}

// New opens the database, migrates it and builds the HTTP engine
func New(cfg *utils.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	debug := cfg.Debug()
	secret := cfg.Get("SECRET_KEY")
	if secret == "" {
		if !debug {
			return nil, fmt.Errorf("SECRET_KEY must be set when DEBUG is off")
		}
		secret = devSecretKey
	}

	// Initialized configuration settings
	s := &Server{
		cfg:    cfg,
		logger: logger,
		port:   cfg.GetWithDefault("API_PORT", DefaultPort),
	}

	db, err := database.Open(cfg.GetWithDefault("DATABASE_URL", DefaultDatabaseURL), database.Options{
		Debug:  debug,
		Logger: logger.Named("gorm"),
	})
	if err != nil {
		return nil, err
	}
	s.db = db

	if err := s.setup(secret); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return s, nil
}

func (s *Server) setup(secret string) error {
	ctx := context.Background()
	cfg := s.cfg

	s.store = tracker.NewStore(s.db)
	if err := s.store.Migrate(ctx); err != nil {
		return err
	}

	s.sessions = session.NewStore(s.db, cfg.GetDurationWithDefault("SESSION_TTL", session.DefaultTTL))
	if err := s.sessions.Migrate(ctx); err != nil {
		return err
	}

	janitor, err := session.NewJanitor(s.sessions, cfg.GetWithDefault("SESSION_PURGE_SCHEDULE", session.DefaultPurgeSchedule), s.logger.Named("sessions"))
	if err != nil {
		return err
	}
	s.janitor = janitor

	catalog, err := i18n.Load(cfg.GetWithDefault("LANGUAGE_CODE", DefaultLanguage))
	if err != nil {
		return err
	}

	// Templates come from disk only in development so edits show up live
	var templates fs.FS = web.Templates()
	if dir := cfg.Get("TEMPLATES_DIR"); dir != "" && cfg.Debug() {
		templates = os.DirFS(dir)
		s.templatesDir = dir
	}

	renderer, err := web.NewRenderer(templates, s.logger.Named("templates"))
	if err != nil {
		return err
	}
	s.renderer = renderer

	w := web.New(web.Options{
		Config:    cfg,
		Logger:    s.logger,
		Catalog:   catalog,
		Renderer:  renderer,
		Sessions:  s.sessions,
		Store:     s.store,
		SecretKey: secret,
	})

	engine, err := s.buildEngine(w)
	if err != nil {
		return err
	}
	s.engine = engine
	return nil
}

func (s *Server) buildEngine(w *web.Web) (*gin.Engine, error) {
	cfg := s.cfg

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	corsConfig := cors.Config{
		AllowOrigins:     corsOrigins(cfg),
		AllowMethods:     []string{"OPTIONS", "GET"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if err := corsConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid CORS_ALLOWED_ORIGINS: %w", err)
	}

	if cfg.Debug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Add app level settings/routes
	engine := gin.New()
	engine.HTMLRender = s.renderer
	engine.Use(w.Recovery(), web.RequestLogger(s.logger.Named("http")), w.AllowedHosts())

	// Add trusted proxies, X-Forwarded-For is only read from these
	if err := engine.SetTrustedProxies(trustedProxies(cfg)); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	// Unknown pages still get the visitor's session so the 404 page keeps
	// their language, login state and CSRF token
	engine.NoRoute(w.LoadSession(), w.CSRF(), func(c *gin.Context) {
		if web.IsAPIPath(c.Request.URL.Path) {
			api_utils.NoRouteHandler(c)
			return
		}
		w.NotFound(c)
	})

	// Base group '/api' for all API routes
	apiGroup := engine.Group("/api")

	apiGroup.Use(cors.New(corsConfig))

	health_module.RegisterRoutes(apiGroup, s.store)
	if err := resources_module.RegisterRoutes(apiGroup, cfg, s.store); err != nil {
		s.logger.Warn("json resources disabled", zap.Error(err))
	}

	// HTML pages
	pages := engine.Group("/", w.LoadSession(), w.CSRF())

	home_module.RegisterRoutes(pages, w)
	users_module.RegisterRoutes(pages, w)
	statuses_module.RegisterRoutes(pages, w)
	labels_module.RegisterRoutes(pages, w)
	tasks_module.RegisterRoutes(pages, w)

	return engine, nil
}

// corsOrigins reads CORS_ALLOWED_ORIGINS, allowing every origin when unset
func corsOrigins(cfg *utils.Config) []string {
	if origins := cfg.GetList("CORS_ALLOWED_ORIGINS"); len(origins) > 0 {
		return origins
	}
	return []string{"*"}
}

// trustedProxies reads TRUSTED_PROXIES. Every address is trusted when unset,
// so the first X-Forwarded-For hop is taken as the client
func trustedProxies(cfg *utils.Config) []string {
	if proxies := cfg.GetList("TRUSTED_PROXIES"); len(proxies) > 0 {
		return proxies
	}
	return []string{"0.0.0.0/0", "::/0"}
}

// Engine returns the HTTP handler
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Store returns the tracker store
func (s *Server) Store() *tracker.Store {
	return s.store
}

// Run serves HTTP, purges sessions and, in development, reloads templates
// until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.janitor.Start()
	defer s.janitor.Stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if s.templatesDir != "" {
		g.Go(func() error {
			return s.renderer.Watch(ctx, s.templatesDir)
		})
	}

	return g.Wait()
}

// Close releases the database
func (s *Server) Close() error {
	return database.Close(s.db)
}
