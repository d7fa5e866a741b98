package models

import (
	"encoding/json"
	"time"
)

// Product is a stock-keeping item owned by a single user. SKU is unique
// across all owners.
type Product struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	SKU          string    `json:"sku"`
	Manufacturer string    `json:"manufacturer"`
	Quantity     int       `json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductInput is the payload for product creation and full replacement.
// Quantity stays raw so the service can distinguish a string-typed value
// from a missing or malformed one.
type ProductInput struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	SKU          string          `json:"sku"`
	Manufacturer string          `json:"manufacturer"`
	Quantity     json.RawMessage `json:"quantity"`
}

// ProductPatch is a partial product update. Nil pointers and a nil raw
// quantity mean the field was absent from the request.
type ProductPatch struct {
	Name         *string         `json:"name"`
	Description  *string         `json:"description"`
	SKU          *string         `json:"sku"`
	Manufacturer *string         `json:"manufacturer"`
	Quantity     json.RawMessage `json:"quantity"`
}

// Empty reports whether the patch carries no fields at all.
func (p *ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.SKU == nil &&
		p.Manufacturer == nil && len(p.Quantity) == 0
}
