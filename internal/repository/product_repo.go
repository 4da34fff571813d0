package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gesso-pos/internal/ledger"
	"gesso-pos/internal/model"
)

type ProductFilter struct {
	Search       string
	Category     string
	LowStockOnly bool
}

type ProductRepository interface {
	ledger.CatalogRepository
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return translate(conn(ctx, r.db).Create(product).Error, "product", product.SKU)
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return translate(conn(ctx, r.db).Save(product).Error, "product", product.ID)
}

func (r *productRepo) FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	q := conn(ctx, r.db).Model(&model.Product{})
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.LowStockOnly {
		q = q.Where("stock <= min_stock")
	}

	var products []model.Product
	err := q.Order("name ASC").Find(&products).Error
	return products, translate(err, "product", nil)
}

func (r *productRepo) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := conn(ctx, r.db).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err, "product", id)
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	if err := conn(ctx, r.db).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, translate(err, "product", sku)
	}
	return &product, nil
}

func (r *productRepo) ListProducts(ctx context.Context) ([]model.Product, error) {
	return r.FindAll(ctx, ProductFilter{})
}

// LockProducts issues SELECT ... FOR UPDATE ordered by id. Must run inside RunInTransaction.
func (r *productRepo) LockProducts(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&products).Error
	return products, translate(err, "product", ids)
}

func (r *productRepo) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	res := conn(ctx, r.db).Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", stock)
	if res.Error != nil {
		return translate(res.Error, "product", id)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "product", id)
	}
	return nil
}
