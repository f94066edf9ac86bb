package repository

import (
	"context"
	"fmt"

	"restaurant/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SeedAdmin struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

var defaultMenu = []models.MenuItem{
	{Name: "Ribeye Steak", Description: "Juicy steak with grilled vegetables", Price: 1890, Category: "Main courses", IsAvailable: true},
	{Name: "Pasta Carbonara", Description: "Pasta with bacon and cream sauce", Price: 790, Category: "Main courses", IsAvailable: true},
	{Name: "Caesar Salad", Description: "Salad with chicken and caesar dressing", Price: 590, Category: "Salads", IsAvailable: true},
	{Name: "Tiramisu", Description: "Italian dessert", Price: 490, Category: "Desserts", IsAvailable: true},
	{Name: "Mojito", Description: "Refreshing cocktail", Price: 390, Category: "Drinks", IsAvailable: true},
}

// Seed creates the administrator account and the starter menu when their
// tables are empty. Running it again is a no-op.
func (s *Store) Seed(ctx context.Context, admin SeedAdmin) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var admins int64
		if err := tx.Model(&models.User{}).Where("is_admin = ?", true).Count(&admins).Error; err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		if admins == 0 && admin.Email != "" && admin.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}
			user := models.User{
				Name:     admin.Name,
				Email:    NormalizeEmail(admin.Email),
				Phone:    admin.Phone,
				Password: string(hash),
				IsAdmin:  true,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
		}

		var items int64
		if err := tx.Model(&models.MenuItem{}).Count(&items).Error; err != nil {
			return fmt.Errorf("count menu items: %w", err)
		}
		if items == 0 {
			menu := make([]models.MenuItem, len(defaultMenu))
			copy(menu, defaultMenu)
			if err := tx.Create(&menu).Error; err != nil {
				return fmt.Errorf("create menu: %w", err)
			}
		}
		return nil
	})
}
