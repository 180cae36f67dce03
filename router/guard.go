package router

import (
	"net/url"
)

// Session is the read-only slice of the session store the guard consults.
type Session interface {
	IsAuthenticated() bool
	IsAdmin() bool
	HasRole(code string) bool
}

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func redirect(to string) Decision {
	return Decision{RedirectTo: to}
}

// Guard evaluates route meta against the session before a navigation commits.
type Guard struct {
	table *Table

	// Redirect targets. Defaults match the hosted client.
	LoginPath    string
	GuestLanding string
	RoleFallback string
}

func NewGuard(table *Table) *Guard {
	return &Guard{
		table:        table,
		LoginPath:    "/auth/login",
		GuestLanding: "/applications",
		RoleFallback: "/settings/profile",
	}
}

// Evaluate decides whether a navigation to fullPath may commit. Declarative
// route redirects are resolved first, then the checks run in strict order:
// requiresAuth, then the role requirement, then requiresGuest. A route
// declaring both auth and guest flags is treated as requiresAuth.
func (g *Guard) Evaluate(sess Session, fullPath string) Decision {
	match := g.table.Lookup(fullPath)

	// Resolve declarative redirects ("/" -> "/applications" and index
	// routes). Bounded, a cycle in the table must not hang navigation.
	for hops := 0; match != nil && match.Redirect != ""; hops++ {
		if hops >= 5 {
			return redirect(g.GuestLanding)
		}
		fullPath = match.Redirect
		match = g.table.Lookup(fullPath)
	}

	if match == nil {
		// Unknown paths render the not-found view; nothing to protect.
		return allow()
	}

	if match.RequiresAuth() {
		if !sess.IsAuthenticated() {
			query := url.Values{"redirect": {fullPath}}
			return redirect(g.LoginPath + "?" + query.Encode())
		}

		if match.RequiresAdmin() && !sess.IsAdmin() {
			return redirect(g.RoleFallback)
		}

		if roles := match.AllowedRoles(); len(roles) > 0 && !hasAny(sess, roles) {
			return redirect(g.RoleFallback)
		}
	}

	if match.RequiresGuest() && !match.RequiresAuth() && sess.IsAuthenticated() {
		return redirect(g.GuestLanding)
	}

	return allow()
}

func hasAny(sess Session, roles []string) bool {
	for _, role := range roles {
		if sess.HasRole(role) {
			return true
		}
	}
	return false
}
