package handler

import (
	"github.com/gofiber/fiber/v2"

	"gesso-pos/internal/service"
)

// CashHandler serves the cash drawer withdrawals and the production log.
type CashHandler struct {
	withdrawals service.WithdrawalService
	productions service.ProductionService
}

func NewCashHandler(withdrawals service.WithdrawalService, productions service.ProductionService) *CashHandler {
	return &CashHandler{withdrawals: withdrawals, productions: productions}
}

// GET /api/v1/withdrawals?from=&to=
func (h *CashHandler) GetWithdrawals(c *fiber.Ctx) error {
	period, err := parsePeriod(c)
	if err != nil {
		return err
	}
	report, err := h.withdrawals.ListWithdrawals(c.UserContext(), period)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// POST /api/v1/withdrawals
func (h *CashHandler) CreateWithdrawal(c *fiber.Ctx) error {
	var req service.WithdrawalInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	withdrawal, err := h.withdrawals.RecordWithdrawal(c.UserContext(), &req, getActor(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Withdrawal recorded", "data": withdrawal})
}

// GET /api/v1/productions?from=&to=
func (h *CashHandler) GetProductions(c *fiber.Ctx) error {
	period, err := parsePeriod(c)
	if err != nil {
		return err
	}
	report, err := h.productions.ListProductions(c.UserContext(), period)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// POST /api/v1/productions
func (h *CashHandler) CreateProduction(c *fiber.Ctx) error {
	var req service.ProductionInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	production, err := h.productions.RecordProduction(c.UserContext(), &req, getActor(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Production recorded", "data": production})
}
