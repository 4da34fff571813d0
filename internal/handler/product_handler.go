package handler

import (
	"github.com/gofiber/fiber/v2"

	"gesso-pos/internal/model"
	"gesso-pos/internal/repository"
	"gesso-pos/internal/service"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// GetProducts lists the catalog
// GET /api/v1/products?search=&category=&low_stock=true
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		Search:       c.Query("search"),
		Category:     c.Query("category"),
		LowStockOnly: c.QueryBool("low_stock"),
	}
	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// GET /api/v1/products/low-stock
func (h *ProductHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.service.LowStock(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req, getActor(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}
	var req service.ProductInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), id, &req, getActor(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

// RecordEntry, RecordExit and RecordAdjustment share a body; the route fixes the type.
// POST /api/v1/stock/entries
func (h *ProductHandler) RecordEntry(c *fiber.Ctx) error {
	return h.recordMovement(c, model.MovementIn)
}

// POST /api/v1/stock/exits
func (h *ProductHandler) RecordExit(c *fiber.Ctx) error {
	return h.recordMovement(c, model.MovementOut)
}

// POST /api/v1/stock/adjustments
func (h *ProductHandler) RecordAdjustment(c *fiber.Ctx) error {
	return h.recordMovement(c, model.MovementAdjust)
}

func (h *ProductHandler) recordMovement(c *fiber.Ctx, kind model.MovementType) error {
	var req service.MovementInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.Type = kind

	movement, err := h.service.RecordMovement(c.UserContext(), &req, getActor(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Stock movement recorded", "data": movement})
}

// GET /api/v1/stock/movements?product_id=&type=&from=&to=&limit=
func (h *ProductHandler) GetMovements(c *fiber.Ctx) error {
	period, err := parsePeriod(c)
	if err != nil {
		return err
	}
	productID, err := optionalUUID(c.Query("product_id"), "product_id")
	if err != nil {
		return err
	}

	movements, err := h.service.ListMovements(c.UserContext(), model.MovementFilter{
		Period:    period,
		ProductID: productID,
		Type:      model.MovementType(c.Query("type")),
		Limit:     c.QueryInt("limit", 0),
	})
	if err != nil {
		return err
	}
	return c.JSON(movements)
}
