package ledger

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/model"
)

// Accumulator collects the lines of a sale or budget being built.
// Every operation either applies fully or leaves the items untouched.
// It never reads or writes the catalog; stock checks use the product passed in.
type Accumulator struct {
	items []LineItem
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// AddCatalogItem appends a line priced at the product's current price.
// The stock check counts quantity already queued for the same product.
func (a *Accumulator) AddCatalogItem(p *model.Product, quantity int) error {
	if p == nil {
		return apperror.NewValidation("product is required")
	}
	if quantity <= 0 {
		return apperror.NewValidation("quantity must be greater than zero").WithDetail("quantity", quantity)
	}
	requested := a.queued(p.ID, -1) + quantity
	if requested > p.Stock {
		return apperror.NewInsufficientStock(p.ID.String(), p.Name, requested, p.Stock)
	}

	it := newLine(model.ItemCatalog, p.ID, p.Name, quantity, p.Price)
	it.available = p.Stock
	a.items = append(a.items, it)
	return nil
}

func (a *Accumulator) AddManualItem(description string, unitPrice decimal.Decimal, quantity int) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return apperror.NewValidation("description is required")
	}
	if !unitPrice.IsPositive() {
		return apperror.NewValidation("unit price must be greater than zero").WithDetail("unit_price", unitPrice.String())
	}
	if quantity <= 0 {
		return apperror.NewValidation("quantity must be greater than zero").WithDetail("quantity", quantity)
	}
	a.items = append(a.items, newLine(model.ItemManual, uuid.Nil, description, quantity, unitPrice))
	return nil
}

func (a *Accumulator) RemoveItem(index int) error {
	if index < 0 || index >= len(a.items) {
		return apperror.NewIndexOutOfRange(index, len(a.items))
	}
	a.items = append(a.items[:index:index], a.items[index+1:]...)
	return nil
}

// ItemUpdate carries the fields to change; nil fields are left alone.
type ItemUpdate struct {
	Quantity    *int             `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Description *string          `json:"description,omitempty"`
}

func (a *Accumulator) UpdateItem(index int, upd ItemUpdate) error {
	if index < 0 || index >= len(a.items) {
		return apperror.NewIndexOutOfRange(index, len(a.items))
	}
	it := a.items[index]

	if upd.Description != nil {
		d := strings.TrimSpace(*upd.Description)
		if d == "" {
			return apperror.NewValidation("description is required")
		}
		it.description = d
	}
	if upd.UnitPrice != nil {
		price := *upd.UnitPrice
		if it.IsCatalog() && price.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").WithDetail("unit_price", price.String())
		}
		if !it.IsCatalog() && !price.IsPositive() {
			return apperror.NewValidation("unit price must be greater than zero").WithDetail("unit_price", price.String())
		}
		it.unitPrice = price
	}
	if upd.Quantity != nil {
		q := *upd.Quantity
		if q <= 0 {
			return apperror.NewValidation("quantity must be greater than zero").WithDetail("quantity", q)
		}
		if it.IsCatalog() && it.available >= 0 {
			requested := a.queued(it.productID, index) + q
			if requested > it.available {
				return apperror.NewInsufficientStock(it.productID.String(), it.description, requested, it.available)
			}
		}
		it.quantity = q
	}

	it.recompute()
	a.items[index] = it
	return nil
}

// Items returns a copy in insertion order.
func (a *Accumulator) Items() []LineItem {
	out := make([]LineItem, len(a.items))
	copy(out, a.items)
	return out
}

func (a *Accumulator) Len() int {
	return len(a.items)
}

func (a *Accumulator) queued(productID uuid.UUID, skip int) int {
	total := 0
	for i, it := range a.items {
		if i != skip && it.IsCatalog() && it.productID == productID {
			total += it.quantity
		}
	}
	return total
}
