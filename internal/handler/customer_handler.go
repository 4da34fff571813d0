package handler

import (
	"github.com/gofiber/fiber/v2"

	"gesso-pos/internal/service"
)

type CustomerHandler struct {
	service service.CustomerService
}

func NewCustomerHandler(s service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: s}
}

// GET /api/v1/customers?search=
func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.ListCustomers(c.UserContext(), c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(customers)
}

func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := parseID(c, "customer")
	if err != nil {
		return err
	}
	customer, err := h.service.GetCustomer(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(customer)
}

func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req service.CustomerInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	customer, err := h.service.CreateCustomer(c.UserContext(), &req, getActor(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := parseID(c, "customer")
	if err != nil {
		return err
	}
	var req service.CustomerInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	customer, err := h.service.UpdateCustomer(c.UserContext(), id, &req, getActor(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": customer})
}
