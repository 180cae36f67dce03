// Package shell hosts the admin client behind a fiber server: the route
// guard runs as middleware, and a small JSON API exposes the session
// lifecycle to the pages it serves.
package shell

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/markap/adminkit"
	fiberadapter "github.com/markap/adminkit/adapters/fiber"
	filestorage "github.com/markap/adminkit/adapters/file"
	pgxstorage "github.com/markap/adminkit/adapters/pgx"
	redisstorage "github.com/markap/adminkit/adapters/redis"
	"github.com/markap/adminkit/config"
	"github.com/markap/adminkit/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Server is the hosted admin shell.
type Server struct {
	app  *fiber.App
	addr string
	log  *zap.Logger
}

type Params struct {
	fx.In

	Log    *zap.Logger
	Config config.Config
	Kit    *adminkit.Kit
}

// NewStorage builds the durable-storage adapter the configuration selects.
func NewStorage(cfg config.Config, log *zap.Logger) (core.Storage, error) {
	log.Info("opening client state storage", zap.String("driver", string(cfg.Storage.Driver)))
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return core.NewMemoryStorage(), nil
	case config.StorageFile:
		if cfg.Storage.FileSecret != "" {
			return filestorage.NewEncrypted(cfg.Storage.FilePath, cfg.Storage.FileSecret), nil
		}
		return filestorage.New(cfg.Storage.FilePath), nil
	case config.StorageRedis:
		return redisstorage.New(cfg.Storage.RedisAddr, cfg.Storage.RedisPassword, cfg.Storage.RedisDB), nil
	case config.StoragePostgres:
		pool, err := pgxpool.New(context.Background(), cfg.Storage.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		storage := pgxstorage.New(pool)
		if err := storage.EnsureSchema(context.Background()); err != nil {
			return nil, err
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// NewKit wires the client core from configuration.
func NewKit(cfg config.Config, storage core.Storage, log *zap.Logger) (*adminkit.Kit, error) {
	kit, err := adminkit.New(adminkit.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Storage: storage,
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}
	kit.Initialize(context.Background())
	return kit, nil
}

func New(p Params) *Server {
	app := fiber.New(fiber.Config{
		AppName: fmt.Sprintf("%s %s", p.Config.App.Name, p.Config.App.Version),
	})

	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Post("/login", func(c fiber.Ctx) error {
		var creds adminkit.Credentials
		if err := c.Bind().Body(&creds); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		result := p.Kit.Session.Login(c.Context(), creds)
		if !result.Success {
			return c.Status(fiber.StatusUnauthorized).JSON(result)
		}
		return c.JSON(result)
	})
	api.Post("/logout", func(c fiber.Ctx) error {
		p.Kit.Session.Logout(c.Context())
		return c.JSON(fiber.Map{"success": true})
	})
	api.Get("/session", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"authenticated": p.Kit.Session.IsAuthenticated(),
			"user":          p.Kit.Session.User(),
			"fullName":      p.Kit.Session.UserFullName(),
			"initials":      p.Kit.Session.UserInitials(),
		})
	})
	api.Get("/profile", fiberadapter.RequireAuth(p.Kit.Session), func(c fiber.Ctx) error {
		if !p.Kit.Session.FetchProfile(c.Context()) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "profile refresh failed",
			})
		}
		return c.JSON(p.Kit.Session.User())
	})

	// Everything else is an app page; the guard decides whether it renders.
	pages := app.Group("/", fiberadapter.GuardMiddleware(p.Kit.Session, p.Kit.Guard))
	pages.Get("/*", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"path": c.Path(),
			"app":  p.Config.App.Name,
		})
	})

	return &Server{
		app:  app,
		addr: fmt.Sprintf(":%d", p.Config.Shell.Port),
		log:  p.Log,
	}
}

func RegisterHooks(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Stop,
	})
}

func (s *Server) Start(_ context.Context) error {
	go func() {
		if err := s.app.Listen(s.addr); err != nil {
			s.log.Error("shell server stopped", zap.Error(err))
		}
	}()
	s.log.Info("admin shell listening", zap.String("addr", s.addr))
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
