package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/markap/adminkit/core"
	"github.com/markap/adminkit/transport"
)

type PropertyType struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	IsActive bool   `json:"isActive"`
}

type OwnerOption struct {
	ID             string `json:"id"`
	FullName       string `json:"fullName"`
	DocumentNumber string `json:"documentNumber"`
	PrimaryPhone   string `json:"primaryPhone"`
	PrimaryEmail   string `json:"primaryEmail"`
}

type CreatePropertyPayload struct {
	ApplicationSlug   string   `json:"applicationSlug,omitempty"`
	Code              string   `json:"code"`
	PropertyTypeID    string   `json:"propertyTypeId"`
	AddressLine       string   `json:"addressLine"`
	DistrictID        string   `json:"districtId"`
	Description       *string  `json:"description,omitempty"`
	Area              *float64 `json:"area,omitempty"`
	Bedrooms          *int     `json:"bedrooms,omitempty"`
	Bathrooms         *int     `json:"bathrooms,omitempty"`
	AgeYears          *int     `json:"ageYears,omitempty"`
	FloorLevel        *string  `json:"floorLevel,omitempty"`
	ParkingSpaces     *int     `json:"parkingSpaces,omitempty"`
	OwnerID           string   `json:"ownerId"`
	MonthlyRent       *float64 `json:"monthlyRent,omitempty"`
	MaintenanceAmount *float64 `json:"maintenanceAmount,omitempty"`
	DepositMonths     *int     `json:"depositMonths,omitempty"`
}

type PropertyDetail struct {
	ID                string   `json:"id"`
	ApplicationID     string   `json:"applicationId"`
	Code              string   `json:"code"`
	PropertyTypeID    string   `json:"propertyTypeId"`
	AddressLine       string   `json:"addressLine"`
	DistrictID        string   `json:"districtId"`
	Description       *string  `json:"description"`
	Area              *float64 `json:"area"`
	Bedrooms          *int     `json:"bedrooms"`
	Bathrooms         *int     `json:"bathrooms"`
	AgeYears          *int     `json:"ageYears"`
	FloorLevel        *string  `json:"floorLevel"`
	ParkingSpaces     *int     `json:"parkingSpaces"`
	OwnerID           string   `json:"ownerId"`
	MonthlyRent       *float64 `json:"monthlyRent"`
	MaintenanceAmount *float64 `json:"maintenanceAmount"`
	DepositMonths     *int     `json:"depositMonths"`
	ListingStatus     *string  `json:"listingStatus"`
	IsActive          bool     `json:"isActive"`
}

type PropertyListItem struct {
	ID               string   `json:"id"`
	Code             string   `json:"code"`
	AddressLine      string   `json:"addressLine"`
	DistrictName     string   `json:"districtName"`
	PropertyTypeName string   `json:"propertyTypeName"`
	Area             *float64 `json:"area"`
	OwnerID          string   `json:"ownerId"`
	OwnerFullName    string   `json:"ownerFullName"`
	MonthlyRent      *float64 `json:"monthlyRent"`
	ListingStatus    *string  `json:"listingStatus"`
}

type PropertyStats struct {
	Total       int `json:"total"`
	Rented      int `json:"rented"`
	Available   int `json:"available"`
	Expiring    int `json:"expiring"`
	Maintenance int `json:"maintenance"`
}

type ListPropertiesParams struct {
	ApplicationSlug string
	Page            int
	Limit           int
	Search          string
	PropertyTypeID  string
	ListingStatus   string
}

// Properties is the API client for the properties module.
type Properties struct {
	api *transport.Client
}

func NewProperties(api *transport.Client) *Properties {
	return &Properties{api: api}
}

func (p *Properties) PropertyTypes(ctx context.Context) ([]PropertyType, error) {
	var out []PropertyType
	if err := p.api.Get(ctx, "/properties/property-types", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Owners lists owner candidates for the property form's owner picker.
func (p *Properties) Owners(ctx context.Context, applicationSlug, search string) ([]OwnerOption, error) {
	query := url.Values{"applicationSlug": {orDefault(applicationSlug)}}
	if search != "" {
		query.Set("search", search)
	}
	var out []OwnerOption
	if err := p.api.Get(ctx, "/properties/owners", &out, transport.WithQuery(query)); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Properties) List(ctx context.Context, params ListPropertiesParams) (*core.Page[PropertyListItem], error) {
	query := url.Values{}
	query.Set("applicationSlug", orDefault(params.ApplicationSlug))
	query.Set("page", strconv.Itoa(orPage(params.Page)))
	query.Set("limit", strconv.Itoa(orLimit(params.Limit)))
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.PropertyTypeID != "" {
		query.Set("propertyTypeId", params.PropertyTypeID)
	}
	if params.ListingStatus != "" {
		query.Set("listingStatus", params.ListingStatus)
	}

	var out core.Page[PropertyListItem]
	if err := p.api.Get(ctx, "/properties", &out, transport.WithQuery(query)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Properties) Stats(ctx context.Context, applicationSlug string) (*PropertyStats, error) {
	query := url.Values{"applicationSlug": {orDefault(applicationSlug)}}
	var out PropertyStats
	if err := p.api.Get(ctx, "/properties/stats", &out, transport.WithQuery(query)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Properties) Create(ctx context.Context, payload CreatePropertyPayload) (*PropertyDetail, error) {
	if payload.ApplicationSlug == "" {
		payload.ApplicationSlug = DefaultApplicationSlug
	}
	var out PropertyDetail
	if err := p.api.Post(ctx, "/properties", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Properties) GetByID(ctx context.Context, id string) (*PropertyDetail, error) {
	var out PropertyDetail
	if err := p.api.Get(ctx, "/properties/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Properties) Update(ctx context.Context, id string, payload CreatePropertyPayload) (*PropertyDetail, error) {
	payload.ApplicationSlug = ""
	var out PropertyDetail
	if err := p.api.Patch(ctx, "/properties/"+url.PathEscape(id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
