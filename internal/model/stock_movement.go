package model

import (
	"time"

	"github.com/google/uuid"
)

type MovementType string

const (
	MovementIn     MovementType = "entrada"
	MovementOut    MovementType = "saida"
	MovementAdjust MovementType = "ajuste"
)

// StockMovement logs every change to a product's stock with before/after values.
type StockMovement struct {
	BaseModel
	ProductID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *Product     `json:"product,omitempty"`
	Type        MovementType `gorm:"type:varchar(10);not null;index" json:"type"`
	Quantity    int          `gorm:"not null" json:"quantity"`
	StockBefore int          `gorm:"not null" json:"stock_before"`
	StockAfter  int          `gorm:"not null" json:"stock_after"`
	Reason      string       `gorm:"type:varchar(255)" json:"reason"`
	ReferenceID *uuid.UUID   `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	Date        time.Time    `gorm:"not null;index" json:"date"`
}

type MovementFilter struct {
	Period    DateRange
	ProductID *uuid.UUID
	Type      MovementType
	Limit     int
}
