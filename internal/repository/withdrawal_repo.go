package repository

import (
	"context"

	"gorm.io/gorm"

	"gesso-pos/internal/model"
)

type WithdrawalRepository interface {
	Create(ctx context.Context, w *model.Withdrawal) error
	FindAll(ctx context.Context, period model.DateRange) ([]model.Withdrawal, error)
}

type withdrawalRepo struct {
	db *gorm.DB
}

func NewWithdrawalRepo(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepo{db}
}

func (r *withdrawalRepo) Create(ctx context.Context, w *model.Withdrawal) error {
	return translate(conn(ctx, r.db).Create(w).Error, "withdrawal", nil)
}

func (r *withdrawalRepo) FindAll(ctx context.Context, period model.DateRange) ([]model.Withdrawal, error) {
	q := conn(ctx, r.db)
	if !period.From.IsZero() {
		q = q.Where("date >= ?", period.From)
	}
	if !period.To.IsZero() {
		q = q.Where("date <= ?", period.To)
	}
	var out []model.Withdrawal
	err := q.Order("date DESC").Find(&out).Error
	return out, translate(err, "withdrawal", nil)
}
