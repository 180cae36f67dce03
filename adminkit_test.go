package adminkit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Unauthorized","statusCode":401}`))
			return
		}
		w.Write([]byte(`{"user":{"id":"u1","email":"ana@markap.pe","firstName":"Ana","lastName":"Torres","roles":[{"code":"ADMIN"}]},"accessToken":"tok-live","expiresIn":3600}`))
	})
	mux.HandleFunc("/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-live" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"u1","firstName":"Ana","lastName":"Torres"}`))
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// Requirement: New wires the whole stack from one config; BaseURL is the
// only mandatory field.
func TestNew(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrBaseURLRequired) {
		t.Fatalf("New(empty) error = %v, want ErrBaseURLRequired", err)
	}

	kit, err := New(Config{BaseURL: "http://localhost:3000/api"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for name, component := range map[string]any{
		"Session": kit.Session, "Auth": kit.Auth, "API": kit.API,
		"Guard": kit.Guard, "Navigator": kit.Navigator,
		"Clients": kit.Clients, "Properties": kit.Properties,
		"Rentals": kit.Rentals, "Users": kit.Users, "Applications": kit.Applications,
	} {
		if component == nil {
			t.Errorf("Kit.%s is nil", name)
		}
	}
}

// Requirement: the full login round trip establishes a session that survives
// a restart with the same storage, and logout tears it down.
func TestKit_LoginLifecycle(t *testing.T) {
	// Arrange
	backend := newBackend(t)
	storage := NewMemoryStorage()
	kit, err := New(Config{BaseURL: backend.URL, Storage: storage})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	// Act: wrong password first.
	result := kit.Session.Login(ctx, Credentials{Email: "ana@markap.pe", Password: "typo"})

	// Assert
	if result.Success || result.Error != "Credenciales inválidas" {
		t.Fatalf("failed Login() = %+v, want the invalid-credentials message", result)
	}
	if kit.Session.IsAuthenticated() {
		t.Fatal("IsAuthenticated() = true after failed login")
	}

	// Act: correct password.
	result = kit.Session.Login(ctx, Credentials{Email: "ana@markap.pe", Password: "secret"})
	if !result.Success {
		t.Fatalf("Login() = %+v, want success", result)
	}
	if !kit.Session.IsAdmin() {
		t.Error("IsAdmin() = false for the admin fixture")
	}

	// A second kit over the same storage restores the session.
	restarted, err := New(Config{BaseURL: backend.URL, Storage: storage})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	restarted.Initialize(ctx)
	if !restarted.Session.IsAuthenticated() {
		t.Fatal("restored session not authenticated")
	}
	if got := restarted.Session.AccessToken(); got != "tok-live" {
		t.Errorf("restored AccessToken() = %q, want tok-live", got)
	}
	if !restarted.Session.FetchProfile(ctx) {
		t.Error("FetchProfile() = false with the restored token")
	}

	// Act: logout.
	kit.Session.Logout(ctx)
	if kit.Session.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after logout")
	}
	freshKit, _ := New(Config{BaseURL: backend.URL, Storage: storage})
	freshKit.Initialize(ctx)
	if freshKit.Session.IsAuthenticated() {
		t.Error("storage still holds a session after logout")
	}
}

// Requirement: Navigate applies the guard and moves the navigator to the
// committed path.
func TestKit_Navigate(t *testing.T) {
	backend := newBackend(t)
	kit, err := New(Config{BaseURL: backend.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if got := kit.Navigate("/applications"); got != "/auth/login?redirect=%2Fapplications" {
		t.Errorf("guest Navigate(/applications) = %q, want the login redirect", got)
	}

	if r := kit.Session.Login(ctx, Credentials{Email: "ana@markap.pe", Password: "secret"}); !r.Success {
		t.Fatalf("Login() = %+v, want success", r)
	}
	if got := kit.Navigate("/applications"); got != "/applications" {
		t.Errorf("Navigate(/applications) = %q, want it to commit", got)
	}
	if got := kit.Navigator.CurrentPath(); got != "/applications" {
		t.Errorf("CurrentPath() = %q, want /applications", got)
	}
	if got := kit.Navigate("/auth/login"); got != "/applications" {
		t.Errorf("authenticated Navigate(/auth/login) = %q, want the guest landing", got)
	}
}

// Requirement: a 401 on a covered call clears the session and sends the
// navigator to the login route.
func TestKit_ExpiredSessionInterception(t *testing.T) {
	// Arrange: storage left over from a run whose token the backend no
	// longer accepts.
	backend := newBackend(t)
	storage := NewMemoryStorage()
	ctx := context.Background()
	storage.Set(ctx, "markap_token", "expired")
	storage.Set(ctx, "markap_user", `{"id":"u1","firstName":"Ana","lastName":"Torres"}`)
	storage.Set(ctx, "markap_expires", "3600")

	kit, err := New(Config{BaseURL: backend.URL, Storage: storage})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	kit.Initialize(ctx)
	if !kit.Session.IsAuthenticated() {
		t.Fatal("restored session not authenticated")
	}
	kit.Navigate("/applications")

	// Act: the stale token gets a 401 from the profile endpoint.
	ok := kit.Session.FetchProfile(ctx)

	// Assert
	if ok {
		t.Fatal("FetchProfile() = true with an expired token")
	}
	if kit.Session.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after interception")
	}
	if got := kit.Navigator.CurrentPath(); got != "/auth/login" {
		t.Errorf("CurrentPath() = %q, want /auth/login", got)
	}
	if storage.Len() != 0 {
		t.Errorf("storage.Len() = %d after interception, want 0", storage.Len())
	}
}
