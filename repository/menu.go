package repository

import (
	"context"
	"fmt"

	"restaurant/models"
)

type NewMenuItem struct {
	Name        string
	Description string
	Price       uint
	Category    string
	ImageURL    string
	IsAvailable bool
}

// MenuItemPatch carries the fields an admin update may change; nil fields
// are left alone.
type MenuItemPatch struct {
	Name        *string
	Description *string
	Price       *uint
	Category    *string
	ImageURL    *string
	IsAvailable *bool
}

type PopularMenuItem struct {
	models.MenuItem
	OrderCount int64 `json:"order_count"`
}

// ListMenuItems returns the available menu ordered by category and name.
func (s *Store) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.WithContext(ctx).
		Where("is_available = ?", true).
		Order("category").
		Order("name").
		Find(&items).
		Error
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}

// ListAllMenuItems includes unavailable items, for the admin panel.
func (s *Store) ListAllMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.WithContext(ctx).
		Order("category").
		Order("name").
		Find(&items).
		Error
	if err != nil {
		return nil, fmt.Errorf("list all menu items: %w", err)
	}
	return items, nil
}

func (s *Store) ListMenuCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("is_available = ?", true).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).
		Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// PopularMenuItems ranks available items by how many order lines reference
// them.
func (s *Store) PopularMenuItems(ctx context.Context, limit int) ([]PopularMenuItem, error) {
	var items []PopularMenuItem
	err := s.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Select("menu_items.*, COUNT(order_items.menu_item_id) AS order_count").
		Joins("LEFT JOIN order_items ON order_items.menu_item_id = menu_items.id").
		Where("menu_items.is_available = ?", true).
		Group("menu_items.id").
		Order("order_count DESC").
		Order("menu_items.id").
		Limit(limit).
		Scan(&items).
		Error
	if err != nil {
		return nil, fmt.Errorf("popular menu items: %w", err)
	}
	return items, nil
}

func (s *Store) GetMenuItem(ctx context.Context, id uint) (models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return item, notFound(err)
	}
	return item, nil
}

func (s *Store) AddMenuItem(ctx context.Context, in NewMenuItem) (models.MenuItem, error) {
	item := models.MenuItem{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		IsAvailable: in.IsAvailable,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return item, fmt.Errorf("add menu item: %w", err)
	}
	return item, nil
}

func (s *Store) UpdateMenuItem(ctx context.Context, id uint, patch MenuItemPatch) (models.MenuItem, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.ImageURL != nil {
		updates["image_url"] = *patch.ImageURL
	}
	if patch.IsAvailable != nil {
		updates["is_available"] = *patch.IsAvailable
	}

	if _, err := s.GetMenuItem(ctx, id); err != nil {
		return models.MenuItem{}, err
	}
	if len(updates) > 0 {
		err := s.db.WithContext(ctx).
			Model(&models.MenuItem{}).
			Where("id = ?", id).
			Updates(updates).
			Error
		if err != nil {
			return models.MenuItem{}, fmt.Errorf("update menu item %d: %w", id, err)
		}
	}
	return s.GetMenuItem(ctx, id)
}
