package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gesso-pos/internal/model"
)

type CompanyRepository interface {
	// Get returns nil without error when no profile was saved yet.
	Get(ctx context.Context) (*model.CompanyProfile, error)
	Save(ctx context.Context, profile *model.CompanyProfile) error
}

type companyRepo struct {
	db *gorm.DB
}

func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db}
}

func (r *companyRepo) Get(ctx context.Context) (*model.CompanyProfile, error) {
	var profile model.CompanyProfile
	err := conn(ctx, r.db).Order("id").First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "company profile", nil)
	}
	return &profile, nil
}

// Save keeps a single row: id 1.
func (r *companyRepo) Save(ctx context.Context, profile *model.CompanyProfile) error {
	profile.ID = 1
	return translate(conn(ctx, r.db).Save(profile).Error, "company profile", profile.ID)
}
