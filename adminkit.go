// Package adminkit is the session and API core of the Markap back-office
// client: session lifecycle over durable storage, the shared HTTP transport
// with its 401 interceptor, the auth service, the route guard, and the typed
// feature-API clients.
package adminkit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/markap/adminkit/auth"
	"github.com/markap/adminkit/core"
	"github.com/markap/adminkit/router"
	"github.com/markap/adminkit/services"
	"github.com/markap/adminkit/transport"
)

// interfaces
type (
	Storage   = core.Storage
	Navigator = core.Navigator
	AuthAPI   = core.AuthAPI
)

// models
type (
	User          = core.User
	UserRole      = core.UserRole
	Credentials   = core.Credentials
	LoginResult   = core.LoginResult
	LoginResponse = core.LoginResponse
	APIError      = core.APIError
	Route         = router.Route
	Meta          = router.Meta
	Decision      = router.Decision
)

// Constructors & helpers (convenience re-exports)
var (
	NewMemoryStorage   = core.NewMemoryStorage
	NewMemoryNavigator = router.NewMemoryNavigator
	DefaultRoutes      = router.DefaultRoutes
	LoadRoutes         = router.LoadRoutes
	IsStatus           = core.IsStatus
)

var (
	ErrKeyNotFound     = core.ErrKeyNotFound
	ErrBaseURLRequired = core.ErrBaseURLRequired
)

// Config wires a Kit. Only BaseURL is mandatory; everything else falls back
// to the defaults of the hosted client.
type Config struct {
	BaseURL string
	Timeout time.Duration

	Storage   Storage     // default: in-memory
	Navigator Navigator   // default: in-process navigator starting at the login route
	Routes    []Route     // default: DefaultRoutes()
	Logger    *zap.Logger // default: no-op
}

// Kit bundles the wired components.
type Kit struct {
	Session   *core.SessionStore
	Auth      *auth.Service
	API       *transport.Client
	Guard     *router.Guard
	Navigator Navigator

	Clients      *services.Clients
	Properties   *services.Properties
	Rentals      *services.Rentals
	Users        *services.Users
	Applications *services.Applications
}

func New(cfg Config) (*Kit, error) {
	if cfg.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	storage := cfg.Storage
	if storage == nil {
		storage = core.NewMemoryStorage()
	}

	nav := cfg.Navigator
	if nav == nil {
		nav = router.NewMemoryNavigator("/auth/login")
	}

	routes := cfg.Routes
	if routes == nil {
		routes = router.DefaultRoutes()
	}

	session := core.NewSessionStore(storage, log)

	api, err := transport.New(transport.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	}, session, session, nav, log)
	if err != nil {
		return nil, err
	}

	authService := auth.New(api)
	session.BindAuth(authService)

	return &Kit{
		Session:      session,
		Auth:         authService,
		API:          api,
		Guard:        router.NewGuard(router.NewTable(routes)),
		Navigator:    nav,
		Clients:      services.NewClients(api),
		Properties:   services.NewProperties(api),
		Rentals:      services.NewRentals(api),
		Users:        services.NewUsers(api),
		Applications: services.NewApplications(api),
	}, nil
}

// Initialize restores persisted session state; call once at startup.
func (k *Kit) Initialize(ctx context.Context) {
	k.Session.InitializeAuth(ctx)
}

// Navigate runs one guarded navigation and returns the path that actually
// committed.
func (k *Kit) Navigate(fullPath string) string {
	decision := k.Guard.Evaluate(k.Session, fullPath)
	target := fullPath
	if !decision.Allowed {
		target = decision.RedirectTo
	}
	k.Navigator.Navigate(target)
	return target
}
