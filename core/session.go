package core

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"
)

// Durable storage keys. Kept from the hosted client so a migrated deployment
// can read state written by the previous one.
const (
	TokenKey   = "markap_token"
	UserKey    = "markap_user"
	ExpiresKey = "markap_expires"
)

// SessionStore owns the process-wide authentication state: current user,
// access token and loading flag, mirrored into durable storage. All mutation
// goes through the store's methods; nothing else writes session fields.
//
// The generation counter guards the login/sign-out race: every ClearAuth bumps
// it, and a login whose network call completes against a stale generation is
// discarded instead of repopulating a session the user already closed.
type SessionStore struct {
	mu         sync.RWMutex
	user       *User
	token      string
	expiresIn  int
	loading    bool
	generation uint64

	auth    AuthAPI
	storage Storage
	log     *zap.Logger
}

// NewSessionStore builds a store over the given durable storage. The auth
// service is bound afterwards with BindAuth; the store, transport and auth
// service reference each other at runtime, so wiring is two-phase.
func NewSessionStore(storage Storage, log *zap.Logger) *SessionStore {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionStore{
		storage: storage,
		log:     log,
	}
}

// BindAuth attaches the auth service the store delegates network calls to.
func (s *SessionStore) BindAuth(api AuthAPI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = api
}

// InitializeAuth restores persisted session state at startup. Corrupt values
// are discarded field by field; startup never fails because of cached state.
func (s *SessionStore) InitializeAuth(ctx context.Context) {
	token, err := s.storage.Get(ctx, TokenKey)
	expires, expErr := s.storage.Get(ctx, ExpiresKey)
	rawUser, userErr := s.storage.Get(ctx, UserKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil && token != "" {
		s.token = token
	}

	if expErr == nil && expires != "" {
		if n, parseErr := strconv.Atoi(expires); parseErr == nil {
			s.expiresIn = n
		} else {
			s.log.Warn("discarding corrupt expiry value", zap.String("value", expires))
			s.removeKey(ctx, ExpiresKey)
		}
	}

	if userErr == nil && rawUser != "" {
		var user User
		if jsonErr := json.Unmarshal([]byte(rawUser), &user); jsonErr == nil {
			s.user = &user
		} else {
			s.log.Warn("discarding corrupt persisted user", zap.Error(jsonErr))
			s.removeKey(ctx, UserKey)
		}
	}
}

// Login exchanges credentials for a session. The result carries a
// display-ready error message on failure; on failure no session field is
// touched. The loading flag is reset whatever the outcome.
func (s *SessionStore) Login(ctx context.Context, creds Credentials) LoginResult {
	s.mu.Lock()
	auth := s.auth
	startGen := s.generation
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	if auth == nil {
		s.log.Error("login without a bound auth service")
		return LoginResult{Success: false, Error: MsgLoginFallback}
	}

	resp, err := auth.Login(ctx, creds)
	if err != nil {
		s.log.Warn("login failed", zap.Error(err))
		return LoginResult{Success: false, Error: loginMessage(err)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != startGen {
		// A sign-out happened while the login call was in flight.
		s.log.Info("discarding stale login completion",
			zap.Uint64("started", startGen),
			zap.Uint64("current", s.generation),
		)
		return LoginResult{Success: false, Error: MsgLoginSuperseded}
	}

	s.setAuthLocked(ctx, resp.User, resp.AccessToken, resp.ExpiresIn)
	return LoginResult{Success: true}
}

// Logout tells the backend to invalidate the session, best effort, and then
// clears local state. A dead backend never blocks the local clear.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	auth := s.auth
	s.mu.Unlock()

	if auth != nil {
		if err := auth.Logout(ctx); err != nil {
			s.log.Warn("server-side logout failed", zap.Error(err))
		}
	}

	s.ClearAuth()
}

// ClearAuth drops all session fields from memory and durable storage. It is
// idempotent, performs no network call, and bumps the session generation so
// in-flight logins cannot resurrect the session.
func (s *SessionStore) ClearAuth() {
	ctx := context.Background()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.user = nil
	s.token = ""
	s.expiresIn = 0

	s.removeKey(ctx, TokenKey)
	s.removeKey(ctx, UserKey)
	s.removeKey(ctx, ExpiresKey)
}

// FetchProfile refreshes the user record from the backend, leaving the access
// token untouched. Returns whether the refresh succeeded.
func (s *SessionStore) FetchProfile(ctx context.Context) bool {
	s.mu.Lock()
	auth := s.auth
	startGen := s.generation
	s.mu.Unlock()

	if auth == nil {
		return false
	}

	user, err := auth.Profile(ctx)
	if err != nil {
		s.log.Warn("profile refresh failed", zap.Error(err))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != startGen {
		return false
	}

	s.user = user
	s.persistKey(ctx, UserKey, mustJSON(user))
	return true
}

// setAuthLocked writes token, user and expiry to memory and storage as one
// unit. Callers hold the mutex, so no reader can observe a token without its
// matching user.
func (s *SessionStore) setAuthLocked(ctx context.Context, user *User, token string, expiresIn int) {
	s.user = user
	s.token = token
	s.expiresIn = expiresIn

	s.persistKey(ctx, TokenKey, token)
	s.persistKey(ctx, UserKey, mustJSON(user))
	s.persistKey(ctx, ExpiresKey, strconv.Itoa(expiresIn))
}

func (s *SessionStore) persistKey(ctx context.Context, key, value string) {
	if err := s.storage.Set(ctx, key, value); err != nil {
		s.log.Warn("failed to persist session field", zap.String("key", key), zap.Error(err))
	}
}

func (s *SessionStore) removeKey(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.log.Warn("failed to remove session field", zap.String("key", key), zap.Error(err))
	}
}

// IsAuthenticated holds exactly when both the token and the user are present.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// AccessToken returns the current bearer token, empty when signed out.
func (s *SessionStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user record, nil when signed out.
func (s *SessionStore) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// ExpiresIn returns the informational lifetime hint from login. It is never
// used to proactively expire the session; expiry is discovered via a 401.
func (s *SessionStore) ExpiresIn() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresIn
}

// IsLoading reports whether a login or profile call is in flight.
func (s *SessionStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsAdmin reports whether the current user carries the admin role.
func (s *SessionStore) IsAdmin() bool {
	return s.HasRole(AdminRoleCode)
}

// HasRole reports whether the current user carries the given role code.
func (s *SessionStore) HasRole(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.HasRole(code)
}

// UserFullName returns the precomputed full name, falling back to
// "First Last", or "" when signed out.
func (s *SessionStore) UserFullName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return ""
	}
	if s.user.FullName != "" {
		return s.user.FullName
	}
	return strings.TrimSpace(s.user.FirstName + " " + s.user.LastName)
}

// UserInitials returns the upper-cased first letters of the first and last
// name, or "" when signed out.
func (s *SessionStore) UserInitials() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return ""
	}
	return firstLetter(s.user.FirstName) + firstLetter(s.user.LastName)
}

func firstLetter(name string) string {
	for _, r := range name {
		return string(unicode.ToUpper(r))
	}
	return ""
}

// loginMessage maps a login failure to the message the UI displays.
func loginMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 401 {
			return MsgInvalidCredentials
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return MsgLoginFallback
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Only reachable with unmarshalable custom types; User is plain data.
		return "null"
	}
	return string(data)
}
