package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gesso-pos/internal/model"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error
	UpdatePrivileges(ctx context.Context, userID uuid.UUID, privileges []model.Privilege) error
	UpdateTokenVersion(ctx context.Context, userID uuid.UUID, version string) error
	UpdateLastSeen(ctx context.Context, userID uuid.UUID) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) withAccess(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Preload("Role").Preload("Privileges")
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.withAccess(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "user", email)
	}
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.withAccess(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "user", id)
	}
	return &user, nil
}

func (r *userRepo) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.withAccess(ctx).Order("full_name ASC").Find(&users).Error
	return users, translate(err, "user", nil)
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return translate(conn(ctx, r.db).Create(user).Error, "user", user.Email)
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return translate(conn(ctx, r.db).Omit("Privileges", "Role").Save(user).Error, "user", user.ID)
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(conn(ctx, r.db).Delete(&model.User{}, "id = ?", id).Error, "user", id)
}

func (r *userRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	return r.updateColumn(ctx, userID, "password", hashedPassword)
}

func (r *userRepo) UpdatePrivileges(ctx context.Context, userID uuid.UUID, privileges []model.Privilege) error {
	user := model.User{BaseModel: model.BaseModel{ID: userID}}
	err := conn(ctx, r.db).Model(&user).Association("Privileges").Replace(privileges)
	return translate(err, "user", userID)
}

func (r *userRepo) UpdateTokenVersion(ctx context.Context, userID uuid.UUID, version string) error {
	return r.updateColumn(ctx, userID, "token_version", version)
}

func (r *userRepo) UpdateLastSeen(ctx context.Context, userID uuid.UUID) error {
	return r.updateColumn(ctx, userID, "last_seen_at", gorm.Expr("NOW()"))
}

func (r *userRepo) updateColumn(ctx context.Context, userID uuid.UUID, column string, value interface{}) error {
	err := conn(ctx, r.db).Model(&model.User{}).Where("id = ?", userID).Update(column, value).Error
	return translate(err, "user", userID)
}
