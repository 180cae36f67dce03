package services

import (
	"context"

	"github.com/markap/adminkit/transport"
)

// Application is one tile of the post-login application selector.
type Application struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description"`
	Icon         *string `json:"icon"`
	Color        *string `json:"color"`
	URL          *string `json:"url"`
	ActiveCount  int     `json:"activeCount"`
	PendingCount int     `json:"pendingCount"`
	Order        int     `json:"order"`
}

// Applications is the API client for the application selector.
type Applications struct {
	api *transport.Client
}

func NewApplications(api *transport.Client) *Applications {
	return &Applications{api: api}
}

// Mine lists the applications the authenticated user may enter.
func (a *Applications) Mine(ctx context.Context) ([]Application, error) {
	var out []Application
	if err := a.api.Get(ctx, "/applications/me", &out); err != nil {
		return nil, err
	}
	return out, nil
}
