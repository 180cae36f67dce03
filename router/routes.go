// Package router models the admin client's route table and the navigation
// guard that gates every transition. Routes are declarative descriptors with
// meta flags; the guard never mutates them.
package router

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Meta carries the authorization flags a route (or any of its ancestors)
// declares.
type Meta struct {
	Title         string   `yaml:"title,omitempty"`
	RequiresAuth  bool     `yaml:"requiresAuth,omitempty"`
	RequiresGuest bool     `yaml:"requiresGuest,omitempty"`
	RequiresAdmin bool     `yaml:"requiresAdmin,omitempty"`
	AllowedRoles  []string `yaml:"allowedRoles,omitempty"`
}

// Route is one node of the route tree. Child paths are relative to the
// parent; an empty child path marks the parent's index route.
type Route struct {
	Path     string  `yaml:"path"`
	Name     string  `yaml:"name,omitempty"`
	Redirect string  `yaml:"redirect,omitempty"`
	Meta     Meta    `yaml:"meta,omitempty"`
	Children []Route `yaml:"children,omitempty"`
}

// Match is a resolved route: its absolute path pattern plus the meta chain of
// itself and every ancestor, leaf last.
type Match struct {
	FullPath string
	Name     string
	Redirect string
	Chain    []Meta
}

// Anyone in the ancestor chain can demand authentication; same for the other
// flags. This mirrors the matched-record semantics of the hosted client.
func (m *Match) RequiresAuth() bool {
	for _, meta := range m.Chain {
		if meta.RequiresAuth {
			return true
		}
	}
	return false
}

func (m *Match) RequiresGuest() bool {
	for _, meta := range m.Chain {
		if meta.RequiresGuest {
			return true
		}
	}
	return false
}

func (m *Match) RequiresAdmin() bool {
	for _, meta := range m.Chain {
		if meta.RequiresAdmin {
			return true
		}
	}
	return false
}

// AllowedRoles is the union of the role sets declared along the chain; empty
// means no role restriction.
func (m *Match) AllowedRoles() []string {
	var roles []string
	for _, meta := range m.Chain {
		roles = append(roles, meta.AllowedRoles...)
	}
	return roles
}

// Table is a flattened route tree ready for matching.
type Table struct {
	matches []Match
}

// NewTable flattens the given route tree.
func NewTable(routes []Route) *Table {
	t := &Table{}
	for _, route := range routes {
		t.flatten("", nil, route)
	}
	return t
}

func (t *Table) flatten(prefix string, chain []Meta, route Route) {
	full := joinPath(prefix, route.Path)
	nextChain := append(append([]Meta{}, chain...), route.Meta)

	t.matches = append(t.matches, Match{
		FullPath: full,
		Name:     route.Name,
		Redirect: route.Redirect,
		Chain:    nextChain,
	})

	for _, child := range route.Children {
		t.flatten(full, nextChain, child)
	}
}

// Lookup resolves a concrete path against the table. Pattern segments
// starting with ':' match any single segment. Returns nil when nothing
// matches.
func (t *Table) Lookup(path string) *Match {
	path = pathOnly(path)
	for i := range t.matches {
		if patternMatches(t.matches[i].FullPath, path) {
			return &t.matches[i]
		}
	}
	return nil
}

func patternMatches(pattern, path string) bool {
	ps := splitPath(pattern)
	xs := splitPath(path)
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func joinPath(prefix, path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	if path == "" {
		return prefix
	}
	if prefix == "" {
		return "/" + path
	}
	return strings.TrimRight(prefix, "/") + "/" + path
}

func pathOnly(fullPath string) string {
	if i := strings.IndexByte(fullPath, '?'); i >= 0 {
		return fullPath[:i]
	}
	return fullPath
}

type routesFile struct {
	Routes []Route `yaml:"routes"`
}

// ParseRoutes reads a YAML route table.
func ParseRoutes(data []byte) (*Table, error) {
	var file routesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse route table: %w", err)
	}
	return NewTable(file.Routes), nil
}

// LoadRoutes reads a YAML route table from disk.
func LoadRoutes(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route table: %w", err)
	}
	return ParseRoutes(data)
}

// DefaultRoutes is the route tree of the admin client: auth pages for guests,
// application modules behind authentication, user/role management behind the
// admin role.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Redirect: "/applications"},
		{
			Path: "/auth",
			Meta: Meta{RequiresGuest: true},
			Children: []Route{
				{Path: "", Redirect: "/auth/login"},
				{Path: "login", Name: "login", Meta: Meta{Title: "Iniciar Sesión"}},
				{Path: "forgot-password", Name: "forgot-password", Meta: Meta{Title: "Recuperar Contraseña"}},
				{Path: "reset-password", Name: "reset-password", Meta: Meta{Title: "Restablecer Contraseña"}},
			},
		},
		{
			Path: "/applications",
			Name: "applications",
			Meta: Meta{Title: "Aplicaciones", RequiresAuth: true},
		},
		{
			Path: "/dashboard",
			Name: "dashboard",
			Meta: Meta{Title: "Dashboard", RequiresAuth: true},
		},
		{
			Path: "/alquileres",
			Meta: Meta{RequiresAuth: true},
			Children: []Route{
				{Path: "", Redirect: "/alquileres/clients"},
				{Path: "clients", Name: "clients"},
				{Path: "clients/:id", Name: "client-detail"},
				{Path: "properties", Name: "properties"},
				{Path: "properties/:id", Name: "property-detail"},
				{Path: "rentals", Name: "rentals"},
				{Path: "rentals/:id", Name: "rental-detail"},
			},
		},
		{
			Path: "/settings",
			Meta: Meta{RequiresAuth: true},
			Children: []Route{
				{Path: "", Redirect: "/settings/profile"},
				{Path: "profile", Name: "settings-profile", Meta: Meta{Title: "Mi Perfil"}},
				{Path: "users", Name: "settings-users", Meta: Meta{Title: "Usuarios", RequiresAdmin: true}},
				{Path: "roles", Name: "settings-roles", Meta: Meta{Title: "Roles", RequiresAdmin: true}},
			},
		},
		{Path: "/unauthorized", Name: "unauthorized", Meta: Meta{Title: "Acceso Denegado"}},
	}
}
