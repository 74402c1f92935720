package models

import "time"

// Product is a stock keeping unit of the shop inventory.
type Product struct {
	ID          string    `json:"id" db:"id"`
	SKU         string    `json:"sku" db:"sku"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       Money     `json:"price" db:"price"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Category    string    `json:"category" db:"category"`
	Version     int       `json:"version" db:"version"` // for optimistic locking
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductPatch is a partial product update. Nil fields are left untouched.
// A non-nil Version makes the write conditional on the stored version.
type ProductPatch struct {
	SKU         *string
	Name        *string
	Description *string
	Price       *Money
	Quantity    *int
	Category    *string
	Version     *int
}

// IsEmpty reports whether the patch changes no field.
func (p ProductPatch) IsEmpty() bool {
	return p.SKU == nil && p.Name == nil && p.Description == nil &&
		p.Price == nil && p.Quantity == nil && p.Category == nil
}

// Apply copies the set fields of the patch onto product.
func (p ProductPatch) Apply(product *Product) {
	if p.SKU != nil {
		product.SKU = *p.SKU
	}
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Quantity != nil {
		product.Quantity = *p.Quantity
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Query    string // case-insensitive match on name, sku or category
	Category string
}
