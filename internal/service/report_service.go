package service

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"gesso-pos/internal/export"
	"gesso-pos/internal/model"
	"gesso-pos/internal/repository"
)

type ReportService interface {
	Summary(ctx context.Context, period model.DateRange) (*SalesSummary, error)
	Monthly(ctx context.Context, year int) ([]MonthlyPoint, error)
	PaymentMethods(ctx context.Context, period model.DateRange) ([]PaymentBreakdown, error)
	TopProducts(ctx context.Context, period model.DateRange, limit int) ([]TopProduct, error)
	StockMovement(ctx context.Context, days int) ([]repository.StockMovementDay, error)
	Overview(ctx context.Context) (*Overview, error)
	Export(ctx context.Context, w io.Writer, period model.DateRange) error
}

type SalesSummary struct {
	Revenue       decimal.Decimal `json:"revenue"`
	Profit        decimal.Decimal `json:"profit"`
	Discount      decimal.Decimal `json:"discount"`
	SaleCount     int64           `json:"sale_count"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"`
	Withdrawals   decimal.Decimal `json:"withdrawals"`
}

type MonthlyPoint struct {
	Month     int             `json:"month"`
	Name      string          `json:"name"`
	Revenue   decimal.Decimal `json:"revenue"`
	Profit    decimal.Decimal `json:"profit"`
	SaleCount int64           `json:"sale_count"`
}

type PaymentBreakdown struct {
	Method     model.PaymentMethod `json:"method"`
	Label      string              `json:"label"`
	SaleCount  int64               `json:"sale_count"`
	Total      decimal.Decimal     `json:"total"`
	Percentage decimal.Decimal     `json:"percentage"`
}

type TopProduct struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// Overview is the dashboard landing data.
type Overview struct {
	Today     *SalesSummary              `json:"today"`
	Month     *SalesSummary              `json:"month"`
	Inventory *repository.InventoryStats `json:"inventory"`
	LowStock  []model.Product            `json:"low_stock"`
}

const defaultTopProducts = 10

type reportService struct {
	reports  repository.ReportRepository
	sales    repository.SaleRepository
	products repository.ProductRepository
	now      func() time.Time
}

func NewReportService(reports repository.ReportRepository, sales repository.SaleRepository, products repository.ProductRepository) ReportService {
	return &reportService{reports: reports, sales: sales, products: products, now: time.Now}
}

var hundred = decimal.NewFromInt(100)

func (s *reportService) Summary(ctx context.Context, period model.DateRange) (*SalesSummary, error) {
	row, err := s.reports.SalesSummary(ctx, period)
	if err != nil {
		return nil, err
	}
	withdrawals, err := s.reports.WithdrawalTotal(ctx, period)
	if err != nil {
		return nil, err
	}

	sum := &SalesSummary{
		Revenue:       row.Revenue,
		Profit:        row.Profit,
		Discount:      row.Discount,
		SaleCount:     row.SaleCount,
		AverageTicket: decimal.Zero,
		ProfitMargin:  decimal.Zero,
		Withdrawals:   withdrawals,
	}
	if row.SaleCount > 0 {
		sum.AverageTicket = row.Revenue.Div(decimal.NewFromInt(row.SaleCount)).Round(2)
	}
	if row.Revenue.IsPositive() {
		sum.ProfitMargin = row.Profit.Div(row.Revenue).Mul(hundred).Round(2)
	}
	return sum, nil
}

// Monthly always returns twelve points; months without sales are zero.
func (s *reportService) Monthly(ctx context.Context, year int) ([]MonthlyPoint, error) {
	rows, err := s.reports.MonthlySales(ctx, year)
	if err != nil {
		return nil, err
	}
	points := make([]MonthlyPoint, 12)
	for i := range points {
		points[i] = MonthlyPoint{Month: i + 1, Name: export.MonthName(i + 1), Revenue: decimal.Zero, Profit: decimal.Zero}
	}
	for _, r := range rows {
		if r.Month < 1 || r.Month > 12 {
			continue
		}
		p := &points[r.Month-1]
		p.Revenue = r.Revenue
		p.Profit = r.Profit
		p.SaleCount = r.SaleCount
	}
	return points, nil
}

func (s *reportService) PaymentMethods(ctx context.Context, period model.DateRange) ([]PaymentBreakdown, error) {
	rows, err := s.reports.PaymentMethods(ctx, period)
	if err != nil {
		return nil, err
	}
	grand := decimal.Zero
	for _, r := range rows {
		grand = grand.Add(r.Total)
	}

	out := make([]PaymentBreakdown, 0, len(rows))
	for _, r := range rows {
		pct := decimal.Zero
		if grand.IsPositive() {
			pct = r.Total.Div(grand).Mul(hundred).Round(2)
		}
		out = append(out, PaymentBreakdown{
			Method:     r.Method,
			Label:      r.Method.Label(),
			SaleCount:  r.SaleCount,
			Total:      r.Total,
			Percentage: pct,
		})
	}
	return out, nil
}

func (s *reportService) TopProducts(ctx context.Context, period model.DateRange, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = defaultTopProducts
	}
	rows, err := s.reports.TopProducts(ctx, period, limit)
	if err != nil {
		return nil, err
	}
	out := make([]TopProduct, len(rows))
	for i, r := range rows {
		out[i] = TopProduct{Description: r.Description, Quantity: r.Quantity, Revenue: r.Revenue}
	}
	return out, nil
}

// StockMovement covers the last n days including today, one point per day.
func (s *reportService) StockMovement(ctx context.Context, days int) ([]repository.StockMovementDay, error) {
	if days <= 0 {
		days = 7
	}
	now := s.now()
	start := startOfDay(now).AddDate(0, 0, -(days - 1))
	rows, err := s.reports.StockMovement(ctx, start, now)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]repository.StockMovementDay, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r
	}
	out := make([]repository.StockMovementDay, days)
	for i := range out {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		day, ok := byDate[key]
		if !ok {
			day = repository.StockMovementDay{Date: key}
		}
		out[i] = day
	}
	return out, nil
}

func (s *reportService) Overview(ctx context.Context) (*Overview, error) {
	now := s.now()
	today, err := s.Summary(ctx, model.DateRange{From: startOfDay(now), To: now})
	if err != nil {
		return nil, err
	}
	month, err := s.Summary(ctx, model.DateRange{From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), To: now})
	if err != nil {
		return nil, err
	}
	inventory, err := s.reports.InventoryStats(ctx)
	if err != nil {
		return nil, err
	}
	low, err := s.products.FindAll(ctx, repository.ProductFilter{LowStockOnly: true})
	if err != nil {
		return nil, err
	}
	return &Overview{Today: today, Month: month, Inventory: inventory, LowStock: low}, nil
}

// Export writes the XLSX report; the monthly sheet covers the year the period ends in.
func (s *reportService) Export(ctx context.Context, w io.Writer, period model.DateRange) error {
	sales, err := s.sales.FindAll(ctx, model.SaleFilter{Period: period})
	if err != nil {
		return err
	}
	year := s.now().Year()
	if !period.To.IsZero() {
		year = period.To.Year()
	}
	monthly, err := s.Monthly(ctx, year)
	if err != nil {
		return err
	}
	top, err := s.TopProducts(ctx, period, defaultTopProducts)
	if err != nil {
		return err
	}
	products, err := s.products.FindAll(ctx, repository.ProductFilter{})
	if err != nil {
		return err
	}

	report := export.Report{Sales: sales, Products: products}
	for _, m := range monthly {
		report.Monthly = append(report.Monthly, export.MonthRow{Month: m.Name, SaleCount: m.SaleCount, Revenue: m.Revenue, Profit: m.Profit})
	}
	for _, t := range top {
		report.Top = append(report.Top, export.ProductRow{Description: t.Description, Quantity: t.Quantity, Revenue: t.Revenue})
	}
	return export.WriteXLSX(w, report)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
