package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gesso-pos/internal/model"
)

// ReportRepository runs the aggregate queries behind the dashboard and reports.
type ReportRepository interface {
	SalesSummary(ctx context.Context, period model.DateRange) (*SalesSummaryRow, error)
	MonthlySales(ctx context.Context, year int) ([]MonthlySalesRow, error)
	PaymentMethods(ctx context.Context, period model.DateRange) ([]PaymentMethodRow, error)
	TopProducts(ctx context.Context, period model.DateRange, limit int) ([]TopProductRow, error)
	StockMovement(ctx context.Context, start, end time.Time) ([]StockMovementDay, error)
	InventoryStats(ctx context.Context) (*InventoryStats, error)
	WithdrawalTotal(ctx context.Context, period model.DateRange) (decimal.Decimal, error)
}

type SalesSummaryRow struct {
	Revenue   decimal.Decimal
	Profit    decimal.Decimal
	Discount  decimal.Decimal
	SaleCount int64
}

type MonthlySalesRow struct {
	Month     int
	Revenue   decimal.Decimal
	Profit    decimal.Decimal
	SaleCount int64
}

type PaymentMethodRow struct {
	Method    model.PaymentMethod
	SaleCount int64
	Total     decimal.Decimal
}

type TopProductRow struct {
	Description string
	Quantity    int64
	Revenue     decimal.Decimal
}

// StockMovementDay is one point of the stock movement chart.
type StockMovementDay struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type InventoryStats struct {
	TotalProducts   int64           `json:"total_products"`
	LowStockCount   int64           `json:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
	StockValue      decimal.Decimal `json:"stock_value"`
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

// squirrel builds with '?' placeholders; gorm rebinds them for postgres.
func (r *reportRepo) scan(ctx context.Context, q sq.Sqlizer, dest interface{}) error {
	query, args, err := q.ToSql()
	if err != nil {
		return translate(err, "report", nil)
	}
	return translate(conn(ctx, r.db).Raw(query, args...).Scan(dest).Error, "report", nil)
}

func withPeriod(q sq.SelectBuilder, column string, p model.DateRange) sq.SelectBuilder {
	if !p.From.IsZero() {
		q = q.Where(sq.GtOrEq{column: p.From})
	}
	if !p.To.IsZero() {
		q = q.Where(sq.LtOrEq{column: p.To})
	}
	return q
}

func liveSales() sq.SelectBuilder {
	return sq.Select().From("sales s").Where("s.deleted_at IS NULL")
}

func (r *reportRepo) SalesSummary(ctx context.Context, period model.DateRange) (*SalesSummaryRow, error) {
	q := withPeriod(liveSales().Columns(
		"COALESCE(SUM(s.total), 0) AS revenue",
		"COALESCE(SUM(s.profit), 0) AS profit",
		"COALESCE(SUM(s.discount), 0) AS discount",
		"COUNT(*) AS sale_count",
	), "s.date", period)

	var row SalesSummaryRow
	if err := r.scan(ctx, q, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *reportRepo) MonthlySales(ctx context.Context, year int) ([]MonthlySalesRow, error) {
	q := liveSales().Columns(
		"CAST(EXTRACT(MONTH FROM s.date) AS INTEGER) AS month",
		"COALESCE(SUM(s.total), 0) AS revenue",
		"COALESCE(SUM(s.profit), 0) AS profit",
		"COUNT(*) AS sale_count",
	).
		Where(sq.Expr("EXTRACT(YEAR FROM s.date) = ?", year)).
		GroupBy("1").
		OrderBy("1")

	var rows []MonthlySalesRow
	return rows, r.scan(ctx, q, &rows)
}

func (r *reportRepo) PaymentMethods(ctx context.Context, period model.DateRange) ([]PaymentMethodRow, error) {
	q := withPeriod(liveSales().Columns(
		"s.payment_method AS method",
		"COUNT(*) AS sale_count",
		"COALESCE(SUM(s.total), 0) AS total",
	), "s.date", period).
		GroupBy("s.payment_method").
		OrderBy("total DESC")

	var rows []PaymentMethodRow
	return rows, r.scan(ctx, q, &rows)
}

func (r *reportRepo) TopProducts(ctx context.Context, period model.DateRange, limit int) ([]TopProductRow, error) {
	q := withPeriod(liveSales().
		Join("sale_items si ON si.sale_id = s.id").
		Columns(
			"si.description AS description",
			"SUM(si.quantity) AS quantity",
			"COALESCE(SUM(si.line_total), 0) AS revenue",
		), "s.date", period).
		GroupBy("si.description").
		OrderBy("quantity DESC", "revenue DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	var rows []TopProductRow
	return rows, r.scan(ctx, q, &rows)
}

func (r *reportRepo) StockMovement(ctx context.Context, start, end time.Time) ([]StockMovementDay, error) {
	q := sq.Select(
		"TO_CHAR(m.date, 'YYYY-MM-DD') AS date",
		"COALESCE(SUM(CASE WHEN m.type = 'entrada' THEN m.quantity ELSE 0 END), 0) AS inbound",
		"COALESCE(SUM(CASE WHEN m.type = 'saida' THEN m.quantity ELSE 0 END), 0) AS outbound",
	).
		From("stock_movements m").
		Where("m.deleted_at IS NULL").
		Where(sq.Expr("m.date BETWEEN ? AND ?", start, end)).
		GroupBy("1").
		OrderBy("1")

	var rows []StockMovementDay
	return rows, r.scan(ctx, q, &rows)
}

func (r *reportRepo) InventoryStats(ctx context.Context) (*InventoryStats, error) {
	q := sq.Select(
		"COUNT(*) AS total_products",
		"COUNT(*) FILTER (WHERE p.stock <= p.min_stock) AS low_stock_count",
		"COUNT(*) FILTER (WHERE p.stock = 0) AS out_of_stock_count",
		"COALESCE(SUM(p.stock * p.cost), 0) AS stock_value",
	).
		From("products p").
		Where("p.deleted_at IS NULL")

	var stats InventoryStats
	if err := r.scan(ctx, q, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *reportRepo) WithdrawalTotal(ctx context.Context, period model.DateRange) (decimal.Decimal, error) {
	q := withPeriod(sq.Select("COALESCE(SUM(w.amount), 0) AS total").
		From("withdrawals w").
		Where("w.deleted_at IS NULL"), "w.date", period)

	var row struct{ Total decimal.Decimal }
	if err := r.scan(ctx, q, &row); err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
