package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withdrawal is cash taken out of the drawer.
type Withdrawal struct {
	BaseModel
	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Note   string          `gorm:"type:varchar(255)" json:"note"`
	Date   time.Time       `gorm:"not null;index" json:"date"`
}
