package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant/models"

	"gorm.io/gorm"
)

type NewUser struct {
	Name         string
	Email        string
	Phone        string
	PasswordHash string
}

// NormalizeEmail lowercases and trims an address so lookups and the unique
// index agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", NormalizeEmail(email)).
		First(&user).
		Error
	if err != nil {
		return user, notFound(err)
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return user, notFound(err)
	}
	return user, nil
}

// CreateUser inserts a regular (non admin) user.
func (s *Store) CreateUser(ctx context.Context, in NewUser) (models.User, error) {
	user := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    NormalizeEmail(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
		Password: in.PasswordHash,
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", user.Email).
		Count(&count).
		Error
	if err != nil {
		return user, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return user, ErrDuplicateEmail
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user, ErrDuplicateEmail
		}
		return user, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&users).
		Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
