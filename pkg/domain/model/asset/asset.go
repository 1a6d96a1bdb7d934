package asset

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/the-ledger/ledger/pkg/domain/model/errs"
	"github.com/the-ledger/ledger/pkg/domain/types"
	"github.com/the-ledger/ledger/pkg/utils/clock"
)

// Asset is a single record of the ledger. The ID is assigned at creation
// and never reassigned; CreatedAt is server-set.
type Asset struct {
	ID           types.AssetID `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	Category     string        `json:"category" db:"category"`
	Value        float64       `json:"value" db:"value"`
	Quantity     float64       `json:"quantity" db:"quantity"`
	Status       string        `json:"status" db:"status"`
	PurchaseDate *time.Time    `json:"purchase_date" db:"purchase_date"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}

const (
	DefaultQuantity = 1.0

	// DefaultListLimit bounds list operations when the caller does not
	// specify a limit.
	DefaultListLimit = 100
)

// CreateRequest is the field set accepted when registering a new asset.
// Quantity is a pointer so an omitted quantity can fall back to
// DefaultQuantity without conflating it with an explicit zero.
type CreateRequest struct {
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	Value        float64    `json:"value"`
	Quantity     *float64   `json:"quantity"`
	Status       string     `json:"status"`
	PurchaseDate *time.Time `json:"purchase_date"`
}

func (x *CreateRequest) Validate() error {
	if x.Name == "" {
		return goerr.New("name is required", goerr.T(errs.TagValidation))
	}
	if x.Category == "" {
		return goerr.New("category is required", goerr.T(errs.TagValidation))
	}
	if x.Status == "" {
		return goerr.New("status is required", goerr.T(errs.TagValidation))
	}
	if x.Value <= 0 {
		return goerr.New("value must be positive", goerr.T(errs.TagValidation), goerr.V("value", x.Value))
	}
	if x.Quantity != nil && *x.Quantity < 0 {
		return goerr.New("quantity must not be negative", goerr.T(errs.TagValidation), goerr.V("quantity", *x.Quantity))
	}
	return nil
}

// New builds an Asset from a validated CreateRequest.
func New(ctx context.Context, req CreateRequest) *Asset {
	quantity := DefaultQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	return &Asset{
		ID:           types.NewAssetID(),
		Name:         req.Name,
		Category:     req.Category,
		Value:        req.Value,
		Quantity:     quantity,
		Status:       req.Status,
		PurchaseDate: req.PurchaseDate,
		CreatedAt:    clock.Now(ctx).UTC(),
	}
}

// UpdateRequest is a partial field set. A nil field means "leave
// unchanged"; partial updates never null out unmentioned fields.
type UpdateRequest struct {
	Name         *string    `json:"name"`
	Category     *string    `json:"category"`
	Value        *float64   `json:"value"`
	Quantity     *float64   `json:"quantity"`
	Status       *string    `json:"status"`
	PurchaseDate *time.Time `json:"purchase_date"`
}

func (x *UpdateRequest) Validate() error {
	if x.Name != nil && *x.Name == "" {
		return goerr.New("name must not be empty", goerr.T(errs.TagValidation))
	}
	if x.Category != nil && *x.Category == "" {
		return goerr.New("category must not be empty", goerr.T(errs.TagValidation))
	}
	if x.Status != nil && *x.Status == "" {
		return goerr.New("status must not be empty", goerr.T(errs.TagValidation))
	}
	if x.Value != nil && *x.Value <= 0 {
		return goerr.New("value must be positive", goerr.T(errs.TagValidation), goerr.V("value", *x.Value))
	}
	if x.Quantity != nil && *x.Quantity < 0 {
		return goerr.New("quantity must not be negative", goerr.T(errs.TagValidation), goerr.V("quantity", *x.Quantity))
	}
	return nil
}

// Apply copies the non-nil fields of the request onto the asset.
func (x *UpdateRequest) Apply(a *Asset) {
	if x.Name != nil {
		a.Name = *x.Name
	}
	if x.Category != nil {
		a.Category = *x.Category
	}
	if x.Value != nil {
		a.Value = *x.Value
	}
	if x.Quantity != nil {
		a.Quantity = *x.Quantity
	}
	if x.Status != nil {
		a.Status = *x.Status
	}
	if x.PurchaseDate != nil {
		a.PurchaseDate = x.PurchaseDate
	}
}
