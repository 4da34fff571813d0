package handler

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"gesso-pos/internal/model"
	"gesso-pos/internal/service"
)

type BudgetHandler struct {
	budgets   service.BudgetService
	documents service.DocumentService
}

func NewBudgetHandler(budgets service.BudgetService, documents service.DocumentService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets, documents: documents}
}

// GET /api/v1/budgets?from=&to=&status=&search=
func (h *BudgetHandler) GetBudgets(c *fiber.Ctx) error {
	period, err := parsePeriod(c)
	if err != nil {
		return err
	}
	budgets, err := h.budgets.ListBudgets(c.UserContext(), model.BudgetFilter{
		Period: period,
		Status: model.BudgetStatus(c.Query("status")),
		Search: c.Query("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(budgets)
}

func (h *BudgetHandler) GetBudget(c *fiber.Ctx) error {
	id, err := parseID(c, "budget")
	if err != nil {
		return err
	}
	budget, err := h.budgets.GetBudget(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(budget)
}

// POST /api/v1/budgets
func (h *BudgetHandler) CreateBudget(c *fiber.Ctx) error {
	var req service.BudgetRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	budget, err := h.budgets.CreateBudget(c.UserContext(), &req, getActor(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Budget created", "data": budget})
}

// POST /api/v1/budgets/:id/pedido
func (h *BudgetHandler) ConvertToOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "budget")
	if err != nil {
		return err
	}
	budget, err := h.budgets.ConvertToOrder(c.UserContext(), id, getActor(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Budget converted to order", "data": budget})
}

// ConvertToSale accepts an empty body: the budget's payment method is used
// and the total is taken as paid.
// POST /api/v1/budgets/:id/sale
func (h *BudgetHandler) ConvertToSale(c *fiber.Ctx) error {
	id, err := parseID(c, "budget")
	if err != nil {
		return err
	}
	var req service.ConvertToSaleRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}

	budget, sale, err := h.budgets.ConvertToSale(c.UserContext(), id, &req, getActor(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Budget converted to sale",
		"data":    fiber.Map{"budget": budget, "sale": sale},
	})
}

// GET /api/v1/budgets/:id/print
func (h *BudgetHandler) Print(c *fiber.Ctx) error {
	id, err := parseID(c, "budget")
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := h.documents.RenderBudget(c.UserContext(), id, &buf); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
