package model

import "time"

// CompanyProfile is a single row printed on receipts and budgets.
type CompanyProfile struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	CNPJ      string    `gorm:"type:varchar(20)" json:"cnpj"`
	Email     string    `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	Address   string    `gorm:"type:varchar(255)" json:"address"`
	UpdatedAt time.Time `json:"updated_at"`
}
