package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gesso-pos/internal/model"
)

// DefaultManualCostRatio estimates cost as 30% of the unit price for lines without a catalog match.
var DefaultManualCostRatio = decimal.RequireFromString("0.30")

// Totals are rounded to cents; everything before this point is exact.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Profit   decimal.Decimal `json:"profit"`
}

func ComputeSubtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// ComputeTotal clamps at zero when the discount exceeds the subtotal.
func ComputeTotal(subtotal, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// ComputeChange is only ever non-zero for cash payments.
func ComputeChange(total, amountPaid decimal.Decimal, method model.PaymentMethod) decimal.Decimal {
	if method != model.PaymentCash {
		return decimal.Zero
	}
	change := amountPaid.Sub(total)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

type TotalsEngine struct {
	ManualCostRatio decimal.Decimal
}

func NewTotalsEngine(manualCostRatio decimal.Decimal) TotalsEngine {
	return TotalsEngine{ManualCostRatio: manualCostRatio}
}

// ComputeProfit matches each line to the catalog by product id, then by
// name (case-insensitive) for old rows without an id.
func (e TotalsEngine) ComputeProfit(items []LineItem, catalog []model.Product) decimal.Decimal {
	idx := newCatalogIndex(catalog)
	profit := decimal.Zero
	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity()))
		var cost decimal.Decimal
		if p := idx.match(it); p != nil {
			cost = p.Cost
		} else {
			cost = it.UnitPrice().Mul(e.ManualCostRatio)
		}
		profit = profit.Add(qty.Mul(it.UnitPrice().Sub(cost)))
	}
	return profit
}

func (e TotalsEngine) Compute(items []LineItem, catalog []model.Product, discount decimal.Decimal) Totals {
	subtotal := ComputeSubtotal(items)
	return Totals{
		Subtotal: subtotal.Round(2),
		Discount: discount.Round(2),
		Total:    ComputeTotal(subtotal, discount).Round(2),
		Profit:   e.ComputeProfit(items, catalog).Round(2),
	}
}

type catalogIndex struct {
	byID   map[uuid.UUID]*model.Product
	byName map[string]*model.Product
}

func newCatalogIndex(catalog []model.Product) catalogIndex {
	idx := catalogIndex{
		byID:   make(map[uuid.UUID]*model.Product, len(catalog)),
		byName: make(map[string]*model.Product, len(catalog)),
	}
	for i := range catalog {
		p := &catalog[i]
		idx.byID[p.ID] = p
		key := normalizeName(p.Name)
		if _, dup := idx.byName[key]; !dup {
			idx.byName[key] = p
		}
	}
	return idx
}

func (idx catalogIndex) match(it LineItem) *model.Product {
	if id, ok := it.ProductID(); ok {
		if p, found := idx.byID[id]; found {
			return p
		}
	}
	return idx.byName[normalizeName(it.Description())]
}
