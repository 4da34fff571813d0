package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gesso-pos/internal/model"
)

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindAll(ctx context.Context, filter model.SaleFilter) ([]model.Sale, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// Create inserts the sale and its items; Number is filled from the sequence.
func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	return translate(conn(ctx, r.db).Omit("Customer").Create(sale).Error, "sale", sale.ID)
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Customer").
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "sale", id)
	}
	return &sale, nil
}

func (r *saleRepo) FindAll(ctx context.Context, filter model.SaleFilter) ([]model.Sale, error) {
	q := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
	if !filter.Period.From.IsZero() {
		q = q.Where("date >= ?", filter.Period.From)
	}
	if !filter.Period.To.IsZero() {
		q = q.Where("date <= ?", filter.Period.To)
	}
	if filter.PaymentMethod != "" {
		q = q.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var sales []model.Sale
	err := q.Order("date DESC").Find(&sales).Error
	return sales, translate(err, "sale", nil)
}
