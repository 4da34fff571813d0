package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "dinheiro"
	PaymentPix    PaymentMethod = "pix"
	PaymentCredit PaymentMethod = "credito"
	PaymentDebit  PaymentMethod = "debito"
)

var PaymentMethods = []PaymentMethod{PaymentCash, PaymentPix, PaymentCredit, PaymentDebit}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentCredit, PaymentDebit:
		return true
	}
	return false
}

func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Dinheiro"
	case PaymentPix:
		return "PIX"
	case PaymentCredit:
		return "Cartão de Crédito"
	case PaymentDebit:
		return "Cartão de Débito"
	}
	return string(m)
}

type SaleStatus string

const (
	SalePaid    SaleStatus = "pago"
	SalePending SaleStatus = "pendente"
)

// Sale is immutable once recorded.
type Sale struct {
	BaseModel
	Number        int64           `gorm:"autoIncrement;uniqueIndex" json:"number"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer      *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CustomerName  string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Discount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Profit        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"profit"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null;index" json:"payment_method"`
	AmountPaid    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount_paid"`
	ChangeDue     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"change"`
	Status        SaleStatus      `gorm:"type:varchar(20);not null;index" json:"status"`
	BudgetID      *uuid.UUID      `gorm:"type:uuid;index" json:"budget_id,omitempty"`
}

func (s *Sale) DisplayNumber() string {
	return fmt.Sprintf("%06d", s.Number)
}

type SaleFilter struct {
	Period        DateRange
	PaymentMethod PaymentMethod
	Status        SaleStatus
	CustomerID    *uuid.UUID
	Limit         int
}
