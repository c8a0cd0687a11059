package store

import (
	"context"

	"storefront_back_end/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.conn(ctx).Create(user).Error, "create user")
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, translate(err, "find user")
	}
	return &user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("email = ?", email).Take(&user).Error; err != nil {
		return nil, translate(err, "find user by email")
	}
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.conn(ctx).
		Select("id", "email", "name", "role", "enabled", "address", "created_at", "updated_at").
		Order("created_at ASC").
		Find(&users).Error
	return users, translate(err, "list users")
}

func (s *Store) UpdateUser(ctx context.Context, id string, fields map[string]any) error {
	res := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, "update user")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
