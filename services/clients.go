// Package services holds the typed feature-API clients of the admin product:
// clients, properties, rentals, users and applications. They are thin wrappers
// over the shared transport; errors propagate untouched and the global 401
// interceptor covers every call.
package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/markap/adminkit/core"
	"github.com/markap/adminkit/transport"
)

// DefaultApplicationSlug scopes the rental feature calls when none is given.
const DefaultApplicationSlug = "alquileres"

// ClientType distinguishes property owners from tenants.
type ClientType string

const (
	ClientOwner  ClientType = "OWNER"
	ClientTenant ClientType = "TENANT"
)

type DocumentType struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Length *int   `json:"length"`
}

type District struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProvinceID string `json:"provinceId"`
	Province   struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Department struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"department"`
	} `json:"province"`
}

type ClientAddress struct {
	AddressLine string  `json:"addressLine"`
	DistrictID  string  `json:"districtId"`
	Reference   *string `json:"reference,omitempty"`
}

type CreateClientPayload struct {
	ApplicationSlug             string        `json:"applicationSlug,omitempty"`
	ClientType                  ClientType    `json:"clientType"`
	DocumentTypeID              string        `json:"documentTypeId"`
	DocumentNumber              string        `json:"documentNumber"`
	FullName                    string        `json:"fullName"`
	LegalRepresentativeName     *string       `json:"legalRepresentativeName,omitempty"`
	LegalRepresentativePosition *string       `json:"legalRepresentativePosition,omitempty"`
	PrimaryPhone                string        `json:"primaryPhone"`
	SecondaryPhone              *string       `json:"secondaryPhone,omitempty"`
	PrimaryEmail                string        `json:"primaryEmail"`
	SecondaryEmail              *string       `json:"secondaryEmail,omitempty"`
	Notes                       *string       `json:"notes,omitempty"`
	Address                     ClientAddress `json:"address"`
}

type UpdateClientPayload struct {
	ClientType                  *ClientType    `json:"clientType,omitempty"`
	DocumentTypeID              *string        `json:"documentTypeId,omitempty"`
	DocumentNumber              *string        `json:"documentNumber,omitempty"`
	FullName                    *string        `json:"fullName,omitempty"`
	LegalRepresentativeName     *string        `json:"legalRepresentativeName,omitempty"`
	LegalRepresentativePosition *string        `json:"legalRepresentativePosition,omitempty"`
	PrimaryPhone                *string        `json:"primaryPhone,omitempty"`
	SecondaryPhone              *string        `json:"secondaryPhone,omitempty"`
	PrimaryEmail                *string        `json:"primaryEmail,omitempty"`
	SecondaryEmail              *string        `json:"secondaryEmail,omitempty"`
	Notes                       *string        `json:"notes,omitempty"`
	Address                     *ClientAddress `json:"address,omitempty"`
}

type ClientListItem struct {
	ID               string     `json:"id"`
	FullName         string     `json:"fullName"`
	DocumentTypeCode string     `json:"documentTypeCode"`
	DocumentNumber   string     `json:"documentNumber"`
	PrimaryPhone     string     `json:"primaryPhone"`
	PrimaryEmail     string     `json:"primaryEmail"`
	ClientType       ClientType `json:"clientType"`
	IsActive         bool       `json:"isActive"`
	PropertiesCount  int        `json:"propertiesCount"`
	ContractsCount   int        `json:"contractsCount"`
}

type ClientDetail struct {
	ID                          string        `json:"id"`
	ApplicationSlug             string        `json:"applicationSlug"`
	ClientType                  ClientType    `json:"clientType"`
	DocumentTypeID              string        `json:"documentTypeId"`
	DocumentNumber              string        `json:"documentNumber"`
	FullName                    string        `json:"fullName"`
	LegalRepresentativeName     *string       `json:"legalRepresentativeName"`
	LegalRepresentativePosition *string       `json:"legalRepresentativePosition"`
	PrimaryPhone                string        `json:"primaryPhone"`
	SecondaryPhone              *string       `json:"secondaryPhone"`
	PrimaryEmail                string        `json:"primaryEmail"`
	SecondaryEmail              *string       `json:"secondaryEmail"`
	Notes                       *string       `json:"notes"`
	IsActive                    bool          `json:"isActive"`
	DocumentType                *DocumentType `json:"documentType"`
	PrimaryAddress              *struct {
		ID          string   `json:"id"`
		AddressLine string   `json:"addressLine"`
		Reference   *string  `json:"reference"`
		DistrictID  string   `json:"districtId"`
		District    District `json:"district"`
	} `json:"primaryAddress"`
}

type ClientStats struct {
	Total   int `json:"total"`
	Owners  int `json:"owners"`
	Tenants int `json:"tenants"`
	Active  int `json:"active"`
}

type ListClientsParams struct {
	ApplicationSlug string
	Page            int
	Limit           int
	Search          string
	ClientType      ClientType
	IsActive        *bool
}

// Clients is the API client for the clients module.
type Clients struct {
	api *transport.Client
}

func NewClients(api *transport.Client) *Clients {
	return &Clients{api: api}
}

func (c *Clients) DocumentTypes(ctx context.Context) ([]DocumentType, error) {
	var out []DocumentType
	if err := c.api.Get(ctx, "/clients/document-types", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Clients) Districts(ctx context.Context, provinceID string) ([]District, error) {
	query := url.Values{}
	if provinceID != "" {
		query.Set("provinceId", provinceID)
	}
	var out []District
	if err := c.api.Get(ctx, "/clients/districts", &out, transport.WithQuery(query)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Clients) List(ctx context.Context, params ListClientsParams) (*core.Page[ClientListItem], error) {
	query := url.Values{}
	query.Set("applicationSlug", orDefault(params.ApplicationSlug))
	query.Set("page", strconv.Itoa(orPage(params.Page)))
	query.Set("limit", strconv.Itoa(orLimit(params.Limit)))
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.ClientType != "" {
		query.Set("clientType", string(params.ClientType))
	}
	if params.IsActive != nil {
		query.Set("isActive", strconv.FormatBool(*params.IsActive))
	}

	var out core.Page[ClientListItem]
	if err := c.api.Get(ctx, "/clients", &out, transport.WithQuery(query)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Clients) Stats(ctx context.Context, applicationSlug string) (*ClientStats, error) {
	query := url.Values{"applicationSlug": {orDefault(applicationSlug)}}
	var out ClientStats
	if err := c.api.Get(ctx, "/clients/stats", &out, transport.WithQuery(query)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Clients) Create(ctx context.Context, payload CreateClientPayload) (*ClientDetail, error) {
	if payload.ApplicationSlug == "" {
		payload.ApplicationSlug = DefaultApplicationSlug
	}
	var out ClientDetail
	if err := c.api.Post(ctx, "/clients", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Clients) GetByID(ctx context.Context, id string) (*ClientDetail, error) {
	var out ClientDetail
	if err := c.api.Get(ctx, "/clients/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Clients) Update(ctx context.Context, id string, payload UpdateClientPayload) (*ClientDetail, error) {
	var out ClientDetail
	if err := c.api.Patch(ctx, "/clients/"+url.PathEscape(id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func orDefault(slug string) string {
	if slug == "" {
		return DefaultApplicationSlug
	}
	return slug
}

func orPage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

func orLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	return limit
}
