package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetStatus string

const (
	BudgetQuote BudgetStatus = "orcamento"
	BudgetOrder BudgetStatus = "pedido"
	BudgetSold  BudgetStatus = "vendido"
)

// CanTransitionTo encodes the linear orcamento -> pedido -> vendido lifecycle.
func (s BudgetStatus) CanTransitionTo(next BudgetStatus) bool {
	switch s {
	case BudgetQuote:
		return next == BudgetOrder
	case BudgetOrder:
		return next == BudgetSold
	}
	return false
}

func (s BudgetStatus) Label() string {
	switch s {
	case BudgetQuote:
		return "Orçamento"
	case BudgetOrder:
		return "Pedido"
	case BudgetSold:
		return "Vendido"
	}
	return string(s)
}

type Budget struct {
	BaseModel
	Number           int64           `gorm:"autoIncrement;uniqueIndex" json:"number"`
	Date             time.Time       `gorm:"not null;index" json:"date"`
	ValidUntil       time.Time       `gorm:"not null" json:"valid_until"`
	DeliveryDate     *time.Time      `json:"delivery_date,omitempty"`
	CustomerID       *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer         *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CustomerName     string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerType     CustomerType    `gorm:"type:varchar(20);not null" json:"customer_type"`
	CustomerDocument string          `gorm:"type:varchar(20)" json:"customer_document"`
	CustomerPhone    string          `gorm:"type:varchar(20)" json:"customer_phone"`
	CustomerEmail    string          `gorm:"type:varchar(255)" json:"customer_email"`
	CustomerAddress  string          `gorm:"type:varchar(255)" json:"customer_address"`
	Items            []BudgetItem    `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Discount         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount"`
	Total            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Profit           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"profit"`
	PaymentMethod    PaymentMethod   `gorm:"type:varchar(20)" json:"payment_method,omitempty"`
	Observations     string          `gorm:"type:text" json:"observations"`
	Status           BudgetStatus    `gorm:"type:varchar(20);not null;index" json:"status"`
	SaleID           *uuid.UUID      `gorm:"type:uuid" json:"sale_id,omitempty"`
}

func (b *Budget) DisplayNumber() string {
	return fmt.Sprintf("ORC-%04d", b.Number)
}

type BudgetFilter struct {
	Period DateRange
	Status BudgetStatus
	Search string
}
