package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gesso-pos/internal/model"
)

type PrivilegeRepository interface {
	FindByCodes(ctx context.Context, codes []string) ([]model.Privilege, error)
	FindAll(ctx context.Context) ([]model.Privilege, error)
	SeedDefaults(ctx context.Context) error
}

type privilegeRepo struct {
	db *gorm.DB
}

func NewPrivilegeRepo(db *gorm.DB) PrivilegeRepository {
	return &privilegeRepo{db}
}

func (r *privilegeRepo) FindByCodes(ctx context.Context, codes []string) ([]model.Privilege, error) {
	var privileges []model.Privilege
	err := conn(ctx, r.db).Where("code IN ?", codes).Find(&privileges).Error
	return privileges, translate(err, "privilege", codes)
}

func (r *privilegeRepo) FindAll(ctx context.Context) ([]model.Privilege, error) {
	var privileges []model.Privilege
	err := conn(ctx, r.db).Order("code").Find(&privileges).Error
	return privileges, translate(err, "privilege", nil)
}

func (r *privilegeRepo) SeedDefaults(ctx context.Context) error {
	db := conn(ctx, r.db)
	for _, def := range model.DefaultPrivileges {
		p := def
		err := db.Where("code = ?", p.Code).First(&model.Privilege{}).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = db.Create(&p).Error
		}
		if err != nil {
			return translate(err, "privilege", p.Code)
		}
	}
	return nil
}
