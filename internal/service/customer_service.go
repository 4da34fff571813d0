package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"gesso-pos/internal/model"
	"gesso-pos/internal/repository"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req *CustomerInput, actor Actor) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req *CustomerInput, actor Actor) (*model.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	ListCustomers(ctx context.Context, search string) ([]model.Customer, error)
}

type CustomerInput struct {
	Name     string             `json:"name" validate:"required,max=255"`
	Type     model.CustomerType `json:"type" validate:"omitempty,oneof=pessoa_fisica pessoa_juridica"`
	Document string             `json:"document" validate:"max=20"`
	Phone    string             `json:"phone" validate:"max=20"`
	Email    string             `json:"email" validate:"omitempty,email"`
	Address  string             `json:"address" validate:"max=255"`
	City     string             `json:"city" validate:"max=100"`
	State    string             `json:"state" validate:"omitempty,len=2"`
	ZipCode  string             `json:"zip_code" validate:"max=10"`
}

func (in *CustomerInput) applyTo(c *model.Customer) {
	c.Name = strings.TrimSpace(in.Name)
	c.Type = in.Type
	if c.Type == "" {
		c.Type = model.PessoaFisica
	}
	c.Document = in.Document
	c.Phone = in.Phone
	c.Email = in.Email
	c.Address = in.Address
	c.City = in.City
	c.State = strings.ToUpper(in.State)
	c.ZipCode = in.ZipCode
}

type customerService struct {
	customers repository.CustomerRepository
}

func NewCustomerService(customers repository.CustomerRepository) CustomerService {
	return &customerService{customers: customers}
}

func (s *customerService) CreateCustomer(ctx context.Context, req *CustomerInput, actor Actor) (*model.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	c := &model.Customer{}
	req.applyTo(c)
	c.CreatedBy = actor.ID
	c.UpdatedBy = actor.ID
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req *CustomerInput, actor Actor) (*model.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.applyTo(c)
	c.UpdatedBy = actor.ID
	if err := s.customers.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

func (s *customerService) ListCustomers(ctx context.Context, search string) ([]model.Customer, error) {
	return s.customers.FindAll(ctx, strings.TrimSpace(search))
}
