package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"gesso-pos/internal/render"
	"gesso-pos/internal/repository"
)

// DocumentService renders printable documents for stored sales and budgets.
type DocumentService interface {
	RenderSaleReceipt(ctx context.Context, saleID uuid.UUID, w io.Writer) error
	RenderBudget(ctx context.Context, budgetID uuid.UUID, w io.Writer) error
}

type documentService struct {
	sales    repository.SaleRepository
	budgets  repository.BudgetRepository
	settings SettingsService
	renderer render.DocumentRenderer
}

func NewDocumentService(sales repository.SaleRepository, budgets repository.BudgetRepository, settings SettingsService, renderer render.DocumentRenderer) DocumentService {
	return &documentService{sales: sales, budgets: budgets, settings: settings, renderer: renderer}
}

func (s *documentService) RenderSaleReceipt(ctx context.Context, saleID uuid.UUID, w io.Writer) error {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return err
	}
	company, err := s.settings.GetCompany(ctx)
	if err != nil {
		return err
	}
	return s.renderer.RenderReceipt(w, render.ReceiptData{Company: *company, Sale: sale})
}

func (s *documentService) RenderBudget(ctx context.Context, budgetID uuid.UUID, w io.Writer) error {
	budget, err := s.budgets.FindByID(ctx, budgetID)
	if err != nil {
		return err
	}
	company, err := s.settings.GetCompany(ctx)
	if err != nil {
		return err
	}
	return s.renderer.RenderBudget(w, render.BudgetData{Company: *company, Budget: budget})
}
