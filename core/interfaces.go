package core

import "context"

// Ports define interfaces for external dependencies

// Storage is the durable key-value persistence behind the session store,
// the role browser local storage played in the hosted client. Implementations
// live under adapters/; Get returns ErrKeyNotFound for absent keys.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Navigator is the navigation layer the transport redirects through when a
// session dies mid-flight. CurrentPath reports the location being rendered.
type Navigator interface {
	CurrentPath() string
	Navigate(path string)
}

// AuthAPI is the slice of the auth service the session store drives.
// Defined here so the store does not depend on the transport packages.
type AuthAPI interface {
	Login(ctx context.Context, creds Credentials) (*LoginResponse, error)
	Profile(ctx context.Context) (*User, error)
	Logout(ctx context.Context) error
}
