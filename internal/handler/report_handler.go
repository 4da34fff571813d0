package handler

import (
	"bytes"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/export"
	"gesso-pos/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	service service.ReportService
	now     func() time.Time
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s, now: time.Now}
}

// GET /api/v1/reports/summary?from=&to=
func (h *ReportHandler) GetSummary(c *fiber.Ctx) error {
	period, err := parsePeriod(c)
	if err != nil {
		return err
	}
	summary, err := h.service.Summary(c.UserContext(), period)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// GetMonthly returns twelve points for ?year= (default: current year)
func (h *ReportHandler) GetMonthly(c *fiber.Ctx) error {
	year := h.now().Year()
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 2000 || y > 2100 {
			return apperror.NewValidation("invalid year").WithDetail("field", "year")
		}
		year = y
	}
	points, err := h.service.Monthly(c.UserContext(), year)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"year": year, "data": points})
}

// GET /api/v1/reports/payment-methods?from=&to=
func (h *ReportHandler) GetPaymentMethods(c *fiber.Ctx) error {
	period, err := parsePeriod(c)
	if err != nil {
		return err
	}
	breakdown, err := h.service.PaymentMethods(c.UserContext(), period)
	if err != nil {
		return err
	}
	return c.JSON(breakdown)
}

// GET /api/v1/reports/top-products?from=&to=&limit=10
func (h *ReportHandler) GetTopProducts(c *fiber.Ctx) error {
	period, err := parsePeriod(c)
	if err != nil {
		return err
	}
	top, err := h.service.TopProducts(c.UserContext(), period, c.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return c.JSON(top)
}

// GetStockMovement returns stock movement data for charts
// Query params: days (default 7)
func (h *ReportHandler) GetStockMovement(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.service.StockMovement(c.UserContext(), days)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetOverview returns the dashboard cards
func (h *ReportHandler) GetOverview(c *fiber.Ctx) error {
	overview, err := h.service.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(overview)
}

// Export downloads the workbook for ?from=&to=
// GET /api/v1/reports/export
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	period, err := parsePeriod(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := h.service.Export(c.UserContext(), &buf, period); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Attachment(export.FileName(h.now()))
	return c.Send(buf.Bytes())
}
