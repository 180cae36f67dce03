package services

import (
	"context"
	"strconv"

	"github.com/markap/adminkit/transport"
)

type CreateRentalPayload struct {
	ApplicationSlug string
	PropertyID      string
	TenantID        string
	StartDate       string // YYYY-MM-DD
	EndDate         string // YYYY-MM-DD
	Currency        string
	MonthlyAmount   float64
	SecurityDeposit *float64
	PaymentDueDay   int
	Notes           *string
}

// RentalFiles are the optional document uploads attached to a new contract.
type RentalFiles struct {
	ContractFile    *transport.File
	DeliveryActFile *transport.File
}

type RentalCreated struct {
	ID              string   `json:"id"`
	ApplicationID   string   `json:"applicationId"`
	PropertyID      string   `json:"propertyId"`
	TenantID        string   `json:"tenantId"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	Currency        string   `json:"currency"`
	MonthlyAmount   float64  `json:"monthlyAmount"`
	SecurityDeposit *float64 `json:"securityDeposit"`
	PaymentDueDay   int      `json:"paymentDueDay"`
	Notes           *string  `json:"notes"`
	Status          string   `json:"status"`
}

// Rentals is the API client for the rental-contracts module.
type Rentals struct {
	api *transport.Client
}

func NewRentals(api *transport.Client) *Rentals {
	return &Rentals{api: api}
}

// Create registers a rental contract. The backend takes multipart form data
// so the contract and delivery-act documents can ride along.
func (r *Rentals) Create(ctx context.Context, payload CreateRentalPayload, files *RentalFiles) (*RentalCreated, error) {
	fields := map[string]string{
		"applicationSlug": orDefault(payload.ApplicationSlug),
		"propertyId":      payload.PropertyID,
		"tenantId":        payload.TenantID,
		"startDate":       payload.StartDate,
		"endDate":         payload.EndDate,
		"currency":        payload.Currency,
		"monthlyAmount":   strconv.FormatFloat(payload.MonthlyAmount, 'f', -1, 64),
		"paymentDueDay":   strconv.Itoa(payload.PaymentDueDay),
	}
	if payload.SecurityDeposit != nil {
		fields["securityDeposit"] = strconv.FormatFloat(*payload.SecurityDeposit, 'f', -1, 64)
	}
	if payload.Notes != nil {
		fields["notes"] = *payload.Notes
	}

	uploads := map[string]transport.File{}
	if files != nil {
		if files.ContractFile != nil {
			uploads["contractFile"] = *files.ContractFile
		}
		if files.DeliveryActFile != nil {
			uploads["deliveryActFile"] = *files.DeliveryActFile
		}
	}

	var out RentalCreated
	if err := r.api.PostMultipart(ctx, "/rentals", fields, uploads, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
