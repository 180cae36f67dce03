package core

import (
	"context"
	"errors"
	"testing"
)

func testUser() *User {
	return &User{
		ID:        "user-1",
		Email:     "ana@markap.pe",
		FirstName: "Ana",
		LastName:  "Torres",
		IsActive:  true,
		Roles:     []UserRole{{ID: "r1", Name: "Administrador", Code: AdminRoleCode}},
	}
}

func newTestSessionStore(storage Storage, auth AuthAPI) *SessionStore {
	store := NewSessionStore(storage, nil)
	if auth != nil {
		store.BindAuth(auth)
	}
	return store
}

// Requirement: InitializeAuth restores token, user and expiry persisted by a
// previous run, discarding corrupt values field by field instead of wiping
// the whole session.
func TestSessionStore_InitializeAuth(t *testing.T) {
	tests := []struct {
		name          string
		seed          map[string]string
		wantAuth      bool
		wantToken     string
		wantExpires   int
		wantRemaining int // keys left in storage afterwards
	}{
		{
			name: "restores complete session",
			seed: map[string]string{
				TokenKey:   "tok-abc",
				UserKey:    `{"id":"user-1","email":"ana@markap.pe","firstName":"Ana","lastName":"Torres"}`,
				ExpiresKey: "3600",
			},
			wantAuth:      true,
			wantToken:     "tok-abc",
			wantExpires:   3600,
			wantRemaining: 3,
		},
		{
			name:          "empty storage yields signed-out state",
			seed:          nil,
			wantAuth:      false,
			wantRemaining: 0,
		},
		{
			name: "corrupt user JSON keeps token, removes only the user key",
			seed: map[string]string{
				TokenKey:   "tok-abc",
				UserKey:    "{not json",
				ExpiresKey: "3600",
			},
			wantAuth:      false,
			wantToken:     "tok-abc",
			wantExpires:   3600,
			wantRemaining: 2,
		},
		{
			name: "corrupt expiry keeps token and user, removes only the expiry key",
			seed: map[string]string{
				TokenKey:   "tok-abc",
				UserKey:    `{"id":"user-1","firstName":"Ana","lastName":"Torres"}`,
				ExpiresKey: "soon",
			},
			wantAuth:      true,
			wantToken:     "tok-abc",
			wantExpires:   0,
			wantRemaining: 2,
		},
		{
			name: "token without user is not authenticated",
			seed: map[string]string{
				TokenKey: "tok-abc",
			},
			wantAuth:      false,
			wantToken:     "tok-abc",
			wantRemaining: 1,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			storage := NewMemoryStorage()
			ctx := context.Background()
			for key, value := range test.seed {
				if err := storage.Set(ctx, key, value); err != nil {
					t.Fatalf("seed Set() error = %v", err)
				}
			}
			store := newTestSessionStore(storage, nil)

			// Act
			store.InitializeAuth(ctx)

			// Assert
			if got := store.IsAuthenticated(); got != test.wantAuth {
				t.Errorf("IsAuthenticated() = %v, want %v", got, test.wantAuth)
			}
			if got := store.AccessToken(); got != test.wantToken {
				t.Errorf("AccessToken() = %q, want %q", got, test.wantToken)
			}
			if got := store.ExpiresIn(); got != test.wantExpires {
				t.Errorf("ExpiresIn() = %d, want %d", got, test.wantExpires)
			}
			if got := storage.Len(); got != test.wantRemaining {
				t.Errorf("storage.Len() = %d, want %d", got, test.wantRemaining)
			}
		})
	}
}

// Requirement: a successful login stores token, user and expiry in memory and
// in durable storage as one unit.
func TestSessionStore_Login_Success(t *testing.T) {
	// Arrange
	storage := NewMemoryStorage()
	auth := &FakeAuthAPI{
		loginResp: &LoginResponse{
			User:        testUser(),
			AccessToken: "tok-xyz",
			ExpiresIn:   7200,
		},
	}
	store := newTestSessionStore(storage, auth)
	ctx := context.Background()

	// Act
	result := store.Login(ctx, Credentials{Email: "ana@markap.pe", Password: "secret"})

	// Assert
	if !result.Success {
		t.Fatalf("Login() = %+v, want success", result)
	}
	if result.Error != "" {
		t.Errorf("Login() error message = %q, want empty", result.Error)
	}
	if !store.IsAuthenticated() {
		t.Error("IsAuthenticated() = false after successful login")
	}
	if got := store.AccessToken(); got != "tok-xyz" {
		t.Errorf("AccessToken() = %q, want %q", got, "tok-xyz")
	}
	if got := store.ExpiresIn(); got != 7200 {
		t.Errorf("ExpiresIn() = %d, want 7200", got)
	}
	if store.IsLoading() {
		t.Error("IsLoading() = true after login returned")
	}

	if got, err := storage.Get(ctx, TokenKey); err != nil || got != "tok-xyz" {
		t.Errorf("storage token = %q, %v; want %q, nil", got, err, "tok-xyz")
	}
	if got, err := storage.Get(ctx, ExpiresKey); err != nil || got != "7200" {
		t.Errorf("storage expiry = %q, %v; want %q, nil", got, err, "7200")
	}
	if _, err := storage.Get(ctx, UserKey); err != nil {
		t.Errorf("storage user Get() error = %v", err)
	}

	calls := auth.LoginCalls()
	if len(calls) != 1 || calls[0].Email != "ana@markap.pe" {
		t.Errorf("auth.Login calls = %+v, want one call with the given email", calls)
	}
}

// Requirement: a failed login surfaces a display-ready message and leaves
// every session field exactly as it was.
func TestSessionStore_Login_Failure(t *testing.T) {
	tests := []struct {
		name     string
		loginErr error
		wantMsg  string
	}{
		{
			name:     "401 maps to the invalid-credentials message",
			loginErr: &APIError{StatusCode: 401, Message: "Unauthorized"},
			wantMsg:  MsgInvalidCredentials,
		},
		{
			name:     "backend message is passed through",
			loginErr: &APIError{StatusCode: 403, Message: "Cuenta desactivada"},
			wantMsg:  "Cuenta desactivada",
		},
		{
			name:     "non-API failure falls back to the generic message",
			loginErr: errors.New("dial tcp: connection refused"),
			wantMsg:  MsgLoginFallback,
		},
		{
			name:     "API error without message falls back to the generic message",
			loginErr: &APIError{StatusCode: 500},
			wantMsg:  MsgLoginFallback,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			storage := NewMemoryStorage()
			auth := &FakeAuthAPI{loginErr: test.loginErr}
			store := newTestSessionStore(storage, auth)
			ctx := context.Background()

			// Act
			result := store.Login(ctx, Credentials{Email: "ana@markap.pe", Password: "nope"})

			// Assert
			if result.Success {
				t.Fatal("Login() succeeded, want failure")
			}
			if result.Error != test.wantMsg {
				t.Errorf("Login() error message = %q, want %q", result.Error, test.wantMsg)
			}
			if store.IsAuthenticated() {
				t.Error("IsAuthenticated() = true after failed login")
			}
			if store.AccessToken() != "" {
				t.Error("AccessToken() not empty after failed login")
			}
			if store.IsLoading() {
				t.Error("IsLoading() = true after login returned")
			}
			if storage.Len() != 0 {
				t.Errorf("storage.Len() = %d after failed login, want 0", storage.Len())
			}
		})
	}
}

// Requirement: a failed login does not disturb an already established
// session.
func TestSessionStore_Login_FailureKeepsExistingSession(t *testing.T) {
	// Arrange
	storage := NewMemoryStorage()
	auth := &FakeAuthAPI{
		loginResp: &LoginResponse{User: testUser(), AccessToken: "tok-1", ExpiresIn: 60},
	}
	store := newTestSessionStore(storage, auth)
	ctx := context.Background()
	if r := store.Login(ctx, Credentials{Email: "ana@markap.pe", Password: "secret"}); !r.Success {
		t.Fatalf("first Login() = %+v, want success", r)
	}
	auth.loginResp = nil
	auth.loginErr = &APIError{StatusCode: 401}

	// Act
	result := store.Login(ctx, Credentials{Email: "ana@markap.pe", Password: "typo"})

	// Assert
	if result.Success {
		t.Fatal("second Login() succeeded, want failure")
	}
	if got := store.AccessToken(); got != "tok-1" {
		t.Errorf("AccessToken() = %q after failed re-login, want %q", got, "tok-1")
	}
	if !store.IsAuthenticated() {
		t.Error("IsAuthenticated() = false after failed re-login")
	}
}

// Requirement: a login that completes after a sign-out is discarded; it must
// not resurrect the closed session.
func TestSessionStore_Login_SupersededBySignOut(t *testing.T) {
	// Arrange
	storage := NewMemoryStorage()
	auth := &FakeAuthAPI{
		loginResp: &LoginResponse{User: testUser(), AccessToken: "tok-stale", ExpiresIn: 60},
	}
	store := newTestSessionStore(storage, auth)
	auth.onLogin = func() { store.ClearAuth() }
	ctx := context.Background()

	// Act
	result := store.Login(ctx, Credentials{Email: "ana@markap.pe", Password: "secret"})

	// Assert
	if result.Success {
		t.Fatal("Login() succeeded, want the stale completion discarded")
	}
	if result.Error != MsgLoginSuperseded {
		t.Errorf("Login() error message = %q, want %q", result.Error, MsgLoginSuperseded)
	}
	if store.IsAuthenticated() {
		t.Error("IsAuthenticated() = true, stale login resurrected the session")
	}
	if storage.Len() != 0 {
		t.Errorf("storage.Len() = %d, want 0 after discarded login", storage.Len())
	}
}

// Requirement: Login without a bound auth service fails with the generic
// message instead of panicking.
func TestSessionStore_Login_NoAuthService(t *testing.T) {
	store := newTestSessionStore(NewMemoryStorage(), nil)

	result := store.Login(context.Background(), Credentials{Email: "a@b.c", Password: "x"})

	if result.Success {
		t.Fatal("Login() succeeded without an auth service")
	}
	if result.Error != MsgLoginFallback {
		t.Errorf("Login() error message = %q, want %q", result.Error, MsgLoginFallback)
	}
}

// Requirement: Logout clears local state even when the server-side call
// fails, and ClearAuth is idempotent.
func TestSessionStore_Logout(t *testing.T) {
	tests := []struct {
		name      string
		logoutErr error
	}{
		{name: "backend logout succeeds"},
		{name: "backend logout fails", logoutErr: errors.New("network down")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			storage := NewMemoryStorage()
			auth := &FakeAuthAPI{
				loginResp: &LoginResponse{User: testUser(), AccessToken: "tok-1", ExpiresIn: 60},
				logoutErr: test.logoutErr,
			}
			store := newTestSessionStore(storage, auth)
			ctx := context.Background()
			if r := store.Login(ctx, Credentials{Email: "ana@markap.pe", Password: "secret"}); !r.Success {
				t.Fatalf("Login() = %+v, want success", r)
			}

			// Act
			store.Logout(ctx)

			// Assert
			if auth.LogoutCalls() != 1 {
				t.Errorf("auth.Logout calls = %d, want 1", auth.LogoutCalls())
			}
			if store.IsAuthenticated() {
				t.Error("IsAuthenticated() = true after logout")
			}
			if store.AccessToken() != "" {
				t.Error("AccessToken() not empty after logout")
			}
			if storage.Len() != 0 {
				t.Errorf("storage.Len() = %d after logout, want 0", storage.Len())
			}

			// Clearing again must be harmless.
			store.ClearAuth()
			if store.IsAuthenticated() || storage.Len() != 0 {
				t.Error("second ClearAuth() changed state")
			}
		})
	}
}

// Requirement: FetchProfile replaces the user record and persists it without
// touching the token, and a sign-out during the call discards the result.
func TestSessionStore_FetchProfile(t *testing.T) {
	t.Run("updates user and keeps token", func(t *testing.T) {
		// Arrange
		storage := NewMemoryStorage()
		updated := testUser()
		updated.FirstName = "Ana María"
		auth := &FakeAuthAPI{
			loginResp:   &LoginResponse{User: testUser(), AccessToken: "tok-1", ExpiresIn: 60},
			profileUser: updated,
		}
		store := newTestSessionStore(storage, auth)
		ctx := context.Background()
		if r := store.Login(ctx, Credentials{Email: "ana@markap.pe", Password: "secret"}); !r.Success {
			t.Fatalf("Login() = %+v, want success", r)
		}

		// Act
		ok := store.FetchProfile(ctx)

		// Assert
		if !ok {
			t.Fatal("FetchProfile() = false, want true")
		}
		if got := store.User().FirstName; got != "Ana María" {
			t.Errorf("User().FirstName = %q, want %q", got, "Ana María")
		}
		if got := store.AccessToken(); got != "tok-1" {
			t.Errorf("AccessToken() = %q, want %q", got, "tok-1")
		}
	})

	t.Run("failure reports false and keeps the old user", func(t *testing.T) {
		auth := &FakeAuthAPI{
			loginResp:  &LoginResponse{User: testUser(), AccessToken: "tok-1", ExpiresIn: 60},
			profileErr: &APIError{StatusCode: 500},
		}
		store := newTestSessionStore(NewMemoryStorage(), auth)
		ctx := context.Background()
		if r := store.Login(ctx, Credentials{Email: "ana@markap.pe", Password: "secret"}); !r.Success {
			t.Fatalf("Login() = %+v, want success", r)
		}

		if store.FetchProfile(ctx) {
			t.Error("FetchProfile() = true, want false")
		}
		if got := store.User().FirstName; got != "Ana" {
			t.Errorf("User().FirstName = %q, want the previous record", got)
		}
	})

	t.Run("sign-out during the call discards the result", func(t *testing.T) {
		// Arrange
		storage := NewMemoryStorage()
		auth := &FakeAuthAPI{profileUser: testUser()}
		store := newTestSessionStore(storage, auth)
		auth.onProfile = func() { store.ClearAuth() }

		// Act
		ok := store.FetchProfile(context.Background())

		// Assert
		if ok {
			t.Error("FetchProfile() = true, want the stale result discarded")
		}
		if store.User() != nil {
			t.Error("User() not nil, stale profile applied after sign-out")
		}
		if storage.Len() != 0 {
			t.Errorf("storage.Len() = %d, want 0", storage.Len())
		}
	})
}

// Requirement: persistence failures are logged and swallowed; in-memory
// session state stays usable.
func TestSessionStore_StorageFailuresAreNonFatal(t *testing.T) {
	auth := &FakeAuthAPI{
		loginResp: &LoginResponse{User: testUser(), AccessToken: "tok-1", ExpiresIn: 60},
	}
	store := newTestSessionStore(NewFakeFailingStorage(errors.New("disk full")), auth)

	result := store.Login(context.Background(), Credentials{Email: "ana@markap.pe", Password: "secret"})

	if !result.Success {
		t.Fatalf("Login() = %+v, want success despite storage failure", result)
	}
	if !store.IsAuthenticated() {
		t.Error("IsAuthenticated() = false, in-memory state lost")
	}
}

// Requirement: derived getters compute display values from the current user
// and degrade to empty values when signed out.
func TestSessionStore_DerivedGetters(t *testing.T) {
	tests := []struct {
		name         string
		user         *User
		wantFullName string
		wantInitials string
		wantAdmin    bool
	}{
		{
			name: "precomputed full name wins",
			user: &User{
				FirstName: "Ana",
				LastName:  "Torres",
				FullName:  "Ana Torres Q.",
				Roles:     []UserRole{{Code: AdminRoleCode}},
			},
			wantFullName: "Ana Torres Q.",
			wantInitials: "AT",
			wantAdmin:    true,
		},
		{
			name:         "falls back to first plus last name",
			user:         &User{FirstName: "josé", LastName: "garcía"},
			wantFullName: "josé garcía",
			wantInitials: "JG",
			wantAdmin:    false,
		},
		{
			name:         "initials upper-case non-ASCII letters",
			user:         &User{FirstName: "ángel", LastName: "ñandú"},
			wantFullName: "ángel ñandú",
			wantInitials: "ÁÑ",
			wantAdmin:    false,
		},
		{
			name:         "signed out",
			user:         nil,
			wantFullName: "",
			wantInitials: "",
			wantAdmin:    false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			store := newTestSessionStore(NewMemoryStorage(), nil)
			if test.user != nil {
				auth := &FakeAuthAPI{
					loginResp: &LoginResponse{User: test.user, AccessToken: "tok", ExpiresIn: 1},
				}
				store.BindAuth(auth)
				if r := store.Login(context.Background(), Credentials{}); !r.Success {
					t.Fatalf("Login() = %+v, want success", r)
				}
			}

			// Assert
			if got := store.UserFullName(); got != test.wantFullName {
				t.Errorf("UserFullName() = %q, want %q", got, test.wantFullName)
			}
			if got := store.UserInitials(); got != test.wantInitials {
				t.Errorf("UserInitials() = %q, want %q", got, test.wantInitials)
			}
			if got := store.IsAdmin(); got != test.wantAdmin {
				t.Errorf("IsAdmin() = %v, want %v", got, test.wantAdmin)
			}
		})
	}
}
