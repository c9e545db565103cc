// Package item is the inventory item catalog.
package item

import (
	"strings"
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
)

// Type tags where an item is consumed.
type Type string

const (
	TypeKitchen      Type = "kitchen"
	TypeBar          Type = "bar"
	TypeHousekeeping Type = "housekeeping"
	TypeMinibar      Type = "minibar"
)

// Types lists every known item type.
var Types = []Type{TypeKitchen, TypeBar, TypeHousekeeping, TypeMinibar}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	switch t {
	case TypeKitchen, TypeBar, TypeHousekeeping, TypeMinibar:
		return true
	}
	return false
}

// SoldOverCounter reports whether order lines for this type deduct stock.
func (t Type) SoldOverCounter() bool {
	return t == TypeBar || t == TypeMinibar
}

// Item is a stockable inventory item. CurrentStock is a projection of the
// stock ledger and is never written through this package.
type Item struct {
	ID           id.ID          `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Unit         string         `db:"unit" json:"unit"`
	CurrentStock types.Quantity `db:"current_stock" json:"currentStock"`
	MinimumStock types.Quantity `db:"minimum_stock" json:"minimumStock"`
	CostPerUnit  types.Money    `db:"cost_per_unit" json:"costPerUnit"`
	BuyingPrice  types.Money    `db:"buying_price" json:"buyingPrice"`
	Supplier     string         `db:"supplier" json:"supplier,omitempty"`
	Type         Type           `db:"item_type" json:"type"`
	Location     string         `db:"location" json:"location,omitempty"`
	IsActive     bool           `db:"is_active" json:"isActive"`
	Version      int            `db:"version" json:"version"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

// Validate checks catalog fields.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if strings.TrimSpace(i.Unit) == "" {
		return apperror.NewValidation("unit is required").WithDetail("field", "unit")
	}
	if !i.Type.Valid() {
		return apperror.NewValidation("unknown item type").WithDetail("type", string(i.Type))
	}
	if i.MinimumStock.IsNegative() {
		return apperror.NewValidation("minimum stock must not be negative").WithDetail("field", "minimumStock")
	}
	if i.CostPerUnit.IsNegative() {
		return apperror.NewValidation("cost per unit must not be negative").WithDetail("field", "costPerUnit")
	}
	if i.BuyingPrice.IsNegative() {
		return apperror.NewValidation("buying price must not be negative").WithDetail("field", "buyingPrice")
	}
	return nil
}

// IsLow reports whether stock is at or below the reorder threshold.
func (i *Item) IsLow() bool {
	return i.CurrentStock <= i.MinimumStock
}
