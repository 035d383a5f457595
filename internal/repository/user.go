package repository

import (
	"context" // Request scoped cancellation

	"inventory_sales/internal/domain" // Domain models and errors
)

func (r *gormRepository) ListUsers(ctx context.Context, opts ListOptions) ([]domain.User, int64, error) {
	return list[domain.User](r.conn(ctx), opts)
}

func (r *gormRepository) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := r.conn(ctx).First(&u, id).Error; err != nil {
		return nil, findError(err, "user", id)
	}
	return &u, nil
}

func (r *gormRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	if err := r.conn(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, findError(err, "user", 0)
	}
	return &u, nil
}

func (r *gormRepository) CreateUser(ctx context.Context, u *domain.User) error {
	return saveError(r.conn(ctx).Create(u).Error, "user", "username")
}
