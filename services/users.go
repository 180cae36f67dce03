package services

import (
	"context"
	"net/url"

	"github.com/markap/adminkit/core"
	"github.com/markap/adminkit/transport"
)

type CreateUserData struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	RoleIDs   []string `json:"roleIds,omitempty"`
}

type UpdateUserData struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// Users is the API client for the settings/users module. Admin only on the
// backend side; the route guard keeps non-admins away from the views.
type Users struct {
	api *transport.Client
}

func NewUsers(api *transport.Client) *Users {
	return &Users{api: api}
}

func (u *Users) GetAll(ctx context.Context) ([]core.User, error) {
	var out []core.User
	if err := u.api.Get(ctx, "/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Users) GetByID(ctx context.Context, id string) (*core.User, error) {
	var out core.User
	if err := u.api.Get(ctx, "/users/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *Users) Create(ctx context.Context, data CreateUserData) (*core.User, error) {
	var out core.User
	if err := u.api.Post(ctx, "/users", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *Users) Update(ctx context.Context, id string, data UpdateUserData) (*core.User, error) {
	var out core.User
	if err := u.api.Patch(ctx, "/users/"+url.PathEscape(id), data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleActive flips a user's active flag.
func (u *Users) ToggleActive(ctx context.Context, id string) (*core.User, error) {
	var out core.User
	if err := u.api.Patch(ctx, "/users/"+url.PathEscape(id)+"/toggle-active", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *Users) GetRoles(ctx context.Context) ([]core.UserRole, error) {
	var out []core.UserRole
	if err := u.api.Get(ctx, "/roles", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Users) AssignRole(ctx context.Context, userID, roleID string) error {
	return u.api.Post(ctx, rolePath(userID, roleID), nil, nil)
}

func (u *Users) RevokeRole(ctx context.Context, userID, roleID string) error {
	return u.api.Delete(ctx, rolePath(userID, roleID))
}

func rolePath(userID, roleID string) string {
	return "/users/" + url.PathEscape(userID) + "/roles/" + url.PathEscape(roleID)
}
