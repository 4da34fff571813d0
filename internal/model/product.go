package model

import "github.com/shopspring/decimal"

// Product is the catalog entry. Stock is authoritative here; sales keep copies of name and price.
type Product struct {
	BaseModel
	SKU         string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name" validate:"required"`
	Category    string          `gorm:"type:varchar(100);index" json:"category"`
	Description string          `gorm:"type:text" json:"description"`
	Unit        string          `gorm:"type:varchar(20)" json:"unit"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price" validate:"gte=0"`
	Cost        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cost" validate:"gte=0"`
	Stock       int             `gorm:"not null" json:"stock" validate:"gte=0"`
	MinStock    int             `gorm:"not null" json:"min_stock" validate:"gte=0"`
}

func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

func (p *Product) IsOutOfStock() bool {
	return p.Stock == 0
}

// StockValue is stock valued at cost.
func (p *Product) StockValue() decimal.Decimal {
	return p.Cost.Mul(decimal.NewFromInt(int64(p.Stock)))
}
