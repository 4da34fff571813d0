package handler

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"gesso-pos/internal/model"
	"gesso-pos/internal/service"
)

type SaleHandler struct {
	sales     service.SaleService
	documents service.DocumentService
}

func NewSaleHandler(sales service.SaleService, documents service.DocumentService) *SaleHandler {
	return &SaleHandler{sales: sales, documents: documents}
}

// GetSales lists sales, newest first
// GET /api/v1/sales?from=&to=&payment_method=&status=&customer_id=&limit=
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	period, err := parsePeriod(c)
	if err != nil {
		return err
	}
	customerID, err := optionalUUID(c.Query("customer_id"), "customer_id")
	if err != nil {
		return err
	}

	sales, err := h.sales.ListSales(c.UserContext(), model.SaleFilter{
		Period:        period,
		PaymentMethod: model.PaymentMethod(c.Query("payment_method")),
		Status:        model.SaleStatus(c.Query("status")),
		CustomerID:    customerID,
		Limit:         c.QueryInt("limit", 0),
	})
	if err != nil {
		return err
	}
	return c.JSON(sales)
}

// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseID(c, "sale")
	if err != nil {
		return err
	}
	sale, err := h.sales.GetSale(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(sale)
}

// Quote prices the cart without touching stock
// POST /api/v1/sales/quote
func (h *SaleHandler) Quote(c *fiber.Ctx) error {
	var req service.QuoteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	quote, err := h.sales.Quote(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(quote)
}

// Checkout records the sale and takes the items out of stock
// POST /api/v1/sales
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sale, err := h.sales.Checkout(c.UserContext(), &req, getActor(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sale recorded", "data": sale})
}

// GET /api/v1/sales/:id/receipt
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id, err := parseID(c, "sale")
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := h.documents.RenderSaleReceipt(c.UserContext(), id, &buf); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
