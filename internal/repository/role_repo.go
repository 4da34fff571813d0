package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gesso-pos/internal/model"
)

type RoleRepository interface {
	FindAll(ctx context.Context) ([]model.Role, error)
	FindByID(ctx context.Context, id uint) (*model.Role, error)
	FindByCode(ctx context.Context, code string) (*model.Role, error)
	// SeedDefaults creates missing roles and attaches their default privileges.
	SeedDefaults(ctx context.Context) error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := conn(ctx, r.db).Preload("Privileges").Find(&roles).Error
	return roles, translate(err, "role", nil)
}

func (r *roleRepo) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := conn(ctx, r.db).Preload("Privileges").First(&role, id).Error; err != nil {
		return nil, translate(err, "role", id)
	}
	return &role, nil
}

func (r *roleRepo) FindByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	if err := conn(ctx, r.db).Preload("Privileges").Where("code = ?", code).First(&role).Error; err != nil {
		return nil, translate(err, "role", code)
	}
	return &role, nil
}

func (r *roleRepo) SeedDefaults(ctx context.Context) error {
	db := conn(ctx, r.db)
	for _, def := range model.DefaultRoles {
		role := def
		err := db.Where("code = ?", role.Code).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = db.Create(&role).Error
		}
		if err != nil {
			return translate(err, "role", role.Code)
		}

		var privileges []model.Privilege
		q := db.Model(&model.Privilege{})
		if codes, ok := model.DefaultRolePrivileges[role.Code]; ok {
			q = q.Where("code IN ?", codes)
		}
		if err := q.Find(&privileges).Error; err != nil {
			return translate(err, "privilege", nil)
		}
		if err := db.Model(&role).Association("Privileges").Replace(privileges); err != nil {
			return translate(err, "role", role.Code)
		}
	}
	return nil
}
