package repository

import (
	"context"

	"gorm.io/gorm"

	"gesso-pos/internal/model"
)

type ProductionRepository interface {
	Create(ctx context.Context, p *model.Production) error
	FindAll(ctx context.Context, period model.DateRange) ([]model.Production, error)
}

type productionRepo struct {
	db *gorm.DB
}

func NewProductionRepo(db *gorm.DB) ProductionRepository {
	return &productionRepo{db}
}

func (r *productionRepo) Create(ctx context.Context, p *model.Production) error {
	return translate(conn(ctx, r.db).Create(p).Error, "production", nil)
}

func (r *productionRepo) FindAll(ctx context.Context, period model.DateRange) ([]model.Production, error) {
	q := conn(ctx, r.db)
	if !period.From.IsZero() {
		q = q.Where("date >= ?", period.From)
	}
	if !period.To.IsZero() {
		q = q.Where("date <= ?", period.To)
	}
	var out []model.Production
	err := q.Order("date DESC, created_at DESC").Find(&out).Error
	return out, translate(err, "production", nil)
}
