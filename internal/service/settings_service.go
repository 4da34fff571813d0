package service

import (
	"context"
	"strings"

	"gesso-pos/internal/config"
	"gesso-pos/internal/model"
	"gesso-pos/internal/repository"
)

type SettingsService interface {
	// GetCompany returns the saved profile, or the configured defaults when none exists yet.
	GetCompany(ctx context.Context) (*model.CompanyProfile, error)
	UpdateCompany(ctx context.Context, req *model.CompanyProfile) (*model.CompanyProfile, error)
}

type settingsService struct {
	company  repository.CompanyRepository
	defaults config.CompanyDefaults
}

func NewSettingsService(company repository.CompanyRepository, defaults config.CompanyDefaults) SettingsService {
	return &settingsService{company: company, defaults: defaults}
}

func (s *settingsService) GetCompany(ctx context.Context) (*model.CompanyProfile, error) {
	profile, err := s.company.Get(ctx)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}
	return &model.CompanyProfile{
		Name:    s.defaults.Name,
		CNPJ:    s.defaults.CNPJ,
		Email:   s.defaults.Email,
		Phone:   s.defaults.Phone,
		Address: s.defaults.Address,
	}, nil
}

func (s *settingsService) UpdateCompany(ctx context.Context, req *model.CompanyProfile) (*model.CompanyProfile, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	profile := &model.CompanyProfile{
		Name:    strings.TrimSpace(req.Name),
		CNPJ:    strings.TrimSpace(req.CNPJ),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
	}
	if err := s.company.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
