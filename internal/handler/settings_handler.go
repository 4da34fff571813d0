package handler

import (
	"github.com/gofiber/fiber/v2"

	"gesso-pos/internal/model"
	"gesso-pos/internal/service"
)

type SettingsHandler struct {
	service service.SettingsService
}

func NewSettingsHandler(s service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: s}
}

// GET /api/v1/settings/company
func (h *SettingsHandler) GetCompany(c *fiber.Ctx) error {
	profile, err := h.service.GetCompany(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// PUT /api/v1/settings/company
func (h *SettingsHandler) UpdateCompany(c *fiber.Ctx) error {
	var req model.CompanyProfile
	if err := parseBody(c, &req); err != nil {
		return err
	}
	profile, err := h.service.UpdateCompany(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Company profile updated", "data": profile})
}
