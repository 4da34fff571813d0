package model

import (
	"time"

	"github.com/google/uuid"
)

// Production records pieces cast in the workshop and the plaster bags consumed.
type Production struct {
	BaseModel
	Date        time.Time  `gorm:"type:date;not null;index" json:"date"`
	PieceName   string     `gorm:"type:varchar(255);not null" json:"piece_name"`
	Quantity    int        `gorm:"not null" json:"quantity"`
	PlasterBags int        `gorm:"not null" json:"plaster_bags"`
	ProductID   *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`
}
