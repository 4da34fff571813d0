package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gesso-pos/internal/model"
)

type BudgetRepository interface {
	Create(ctx context.Context, budget *model.Budget) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Budget, error)
	// FindByIDForUpdate locks the budget row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Budget, error)
	FindAll(ctx context.Context, filter model.BudgetFilter) ([]model.Budget, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.BudgetStatus, saleID *uuid.UUID, updatedBy string) error
}

type budgetRepo struct {
	db *gorm.DB
}

func NewBudgetRepo(db *gorm.DB) BudgetRepository {
	return &budgetRepo{db}
}

func (r *budgetRepo) Create(ctx context.Context, budget *model.Budget) error {
	return translate(conn(ctx, r.db).Omit("Customer").Create(budget).Error, "budget", budget.ID)
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

func (r *budgetRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	var budget model.Budget
	if err := withItems(conn(ctx, r.db)).Preload("Customer").First(&budget, "id = ?", id).Error; err != nil {
		return nil, translate(err, "budget", id)
	}
	return &budget, nil
}

func (r *budgetRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	db := conn(ctx, r.db)
	var budget model.Budget
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&budget, "id = ?", id).Error; err != nil {
		return nil, translate(err, "budget", id)
	}
	if err := db.Where("budget_id = ?", id).Order("position ASC").Find(&budget.Items).Error; err != nil {
		return nil, translate(err, "budget", id)
	}
	return &budget, nil
}

func (r *budgetRepo) FindAll(ctx context.Context, filter model.BudgetFilter) ([]model.Budget, error) {
	q := withItems(conn(ctx, r.db))
	if !filter.Period.From.IsZero() {
		q = q.Where("date >= ?", filter.Period.From)
	}
	if !filter.Period.To.IsZero() {
		q = q.Where("date <= ?", filter.Period.To)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		q = q.Where("LOWER(customer_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var budgets []model.Budget
	err := q.Order("date DESC").Find(&budgets).Error
	return budgets, translate(err, "budget", nil)
}

func (r *budgetRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BudgetStatus, saleID *uuid.UUID, updatedBy string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_by": updatedBy,
	}
	if saleID != nil {
		updates["sale_id"] = *saleID
	}
	res := conn(ctx, r.db).Model(&model.Budget{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return translate(res.Error, "budget", id)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "budget", id)
	}
	return nil
}
