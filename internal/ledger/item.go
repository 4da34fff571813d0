package ledger

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gesso-pos/internal/model"
)

// LineItem is a catalog line (bound to a product) or a manual line.
// Fields are private so LineTotal always equals Quantity * UnitPrice.
type LineItem struct {
	kind        model.ItemKind
	productID   uuid.UUID
	description string
	quantity    int
	unitPrice   decimal.Decimal
	lineTotal   decimal.Decimal

	// catalog stock seen when the line was added; -1 when unknown
	available int
}

func newLine(kind model.ItemKind, productID uuid.UUID, description string, quantity int, unitPrice decimal.Decimal) LineItem {
	it := LineItem{
		kind:        kind,
		productID:   productID,
		description: description,
		quantity:    quantity,
		unitPrice:   unitPrice,
		available:   -1,
	}
	it.recompute()
	return it
}

func (it *LineItem) recompute() {
	it.lineTotal = it.unitPrice.Mul(decimal.NewFromInt(int64(it.quantity)))
}

func (it LineItem) Kind() model.ItemKind { return it.kind }

func (it LineItem) IsCatalog() bool { return it.kind == model.ItemCatalog }

// ProductID reports the linked product, if any.
func (it LineItem) ProductID() (uuid.UUID, bool) {
	return it.productID, it.kind == model.ItemCatalog && it.productID != uuid.Nil
}

func (it LineItem) Description() string { return it.description }
func (it LineItem) Quantity() int { return it.quantity }
func (it LineItem) UnitPrice() decimal.Decimal { return it.unitPrice }
func (it LineItem) LineTotal() decimal.Decimal { return it.lineTotal }

// Snapshot freezes the line for persistence.
func (it LineItem) Snapshot(position int) model.ItemSnapshot {
	s := model.ItemSnapshot{
		Position:    position,
		Kind:        it.kind,
		Description: it.description,
		Quantity:    it.quantity,
		UnitPrice:   it.unitPrice,
		LineTotal:   it.lineTotal,
	}
	if id, ok := it.ProductID(); ok {
		s.ProductID = &id
	}
	return s
}

// FromSnapshot rebuilds a line from a stored row. Old rows may lack a
// product id; those are matched by name when needed.
func FromSnapshot(s model.ItemSnapshot) LineItem {
	kind := s.Kind
	var id uuid.UUID
	if s.ProductID != nil {
		id = *s.ProductID
		kind = model.ItemCatalog
	}
	if kind == "" {
		kind = model.ItemManual
	}
	return newLine(kind, id, s.Description, s.Quantity, s.UnitPrice)
}

type lineJSON struct {
	Kind        model.ItemKind  `json:"kind"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

func (it LineItem) MarshalJSON() ([]byte, error) {
	s := it.Snapshot(0)
	return json.Marshal(lineJSON{
		Kind:        s.Kind,
		ProductID:   s.ProductID,
		Description: s.Description,
		Quantity:    s.Quantity,
		UnitPrice:   s.UnitPrice,
		LineTotal:   s.LineTotal,
	})
}

// normalizeName is the key used for name fallback matching.
func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
