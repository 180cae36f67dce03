package core

import (
	"context"
	"sync"
)

// FakeAuthAPI is a test-only fake implementing AuthAPI. It records calls and
// exposes response/error fields for behavior injection. onLogin runs while a
// login call is in flight, which tests use to race a sign-out against it.
type FakeAuthAPI struct {
	mu sync.Mutex

	loginResp  *LoginResponse
	loginErr   error
	loginCalls []Credentials
	onLogin    func()

	profileUser  *User
	profileErr   error
	profileCalls int
	onProfile    func()

	logoutErr   error
	logoutCalls int
}

var _ AuthAPI = (*FakeAuthAPI)(nil)

func (f *FakeAuthAPI) Login(_ context.Context, creds Credentials) (*LoginResponse, error) {
	f.mu.Lock()
	f.loginCalls = append(f.loginCalls, creds)
	hook := f.onLogin
	resp, err := f.loginResp, f.loginErr
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return resp, err
}

func (f *FakeAuthAPI) Profile(_ context.Context) (*User, error) {
	f.mu.Lock()
	f.profileCalls++
	hook := f.onProfile
	user, err := f.profileUser, f.profileErr
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return user, err
}

func (f *FakeAuthAPI) Logout(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func (f *FakeAuthAPI) LoginCalls() []Credentials {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Credentials(nil), f.loginCalls...)
}

func (f *FakeAuthAPI) LogoutCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logoutCalls
}

// FakeFailingStorage is a test-only Storage whose writes and deletes fail,
// for verifying that persistence trouble never breaks in-memory state.
type FakeFailingStorage struct {
	err error
}

var _ Storage = (*FakeFailingStorage)(nil)

func NewFakeFailingStorage(err error) *FakeFailingStorage {
	return &FakeFailingStorage{err: err}
}

func (f *FakeFailingStorage) Get(context.Context, string) (string, error) {
	return "", f.err
}

func (f *FakeFailingStorage) Set(context.Context, string, string) error {
	return f.err
}

func (f *FakeFailingStorage) Delete(context.Context, string) error {
	return f.err
}
