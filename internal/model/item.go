package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ItemKind string

const (
	ItemCatalog ItemKind = "catalog"
	ItemManual  ItemKind = "manual"
)

// ItemSnapshot is a line frozen at the moment a sale or budget was recorded.
type ItemSnapshot struct {
	Position    int             `gorm:"not null" json:"position"`
	Kind        ItemKind        `gorm:"type:varchar(10);not null" json:"kind"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"line_total"`
}

type SaleItem struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	SaleID uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	ItemSnapshot
}

func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = NewID()
	}
	return nil
}

type BudgetItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	BudgetID uuid.UUID `gorm:"type:uuid;not null;index" json:"budget_id"`
	ItemSnapshot
}

func (i *BudgetItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = NewID()
	}
	return nil
}
