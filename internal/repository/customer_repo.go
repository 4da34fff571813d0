package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gesso-pos/internal/model"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	Update(ctx context.Context, customer *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	FindAll(ctx context.Context, search string) ([]model.Customer, error)
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(ctx context.Context, customer *model.Customer) error {
	return translate(conn(ctx, r.db).Create(customer).Error, "customer", customer.Name)
}

func (r *customerRepo) Update(ctx context.Context, customer *model.Customer) error {
	return translate(conn(ctx, r.db).Save(customer).Error, "customer", customer.ID)
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := conn(ctx, r.db).First(&customer, "id = ?", id).Error; err != nil {
		return nil, translate(err, "customer", id)
	}
	return &customer, nil
}

func (r *customerRepo) FindAll(ctx context.Context, search string) ([]model.Customer, error) {
	q := conn(ctx, r.db).Model(&model.Customer{})
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR document LIKE ? OR phone LIKE ?", like, like, like)
	}
	var customers []model.Customer
	err := q.Order("name ASC").Find(&customers).Error
	return customers, translate(err, "customer", nil)
}
