package handlers

import (
	"net/http"

	"restaurant/cache"
	"restaurant/logger"
	"restaurant/models"
	"restaurant/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const popularLimit = 6

type menuCategory struct {
	Name  string            `json:"name"`
	Items []models.MenuItem `json:"items"`
}

// availableMenu reads the menu from the cache and refills it from the
// database on a miss. Cache failures only cost a database query.
func availableMenu(c *gin.Context, store *repository.Store, menuCache cache.MenuCache) ([]models.MenuItem, error) {
	log := logger.FromGin(c)

	items, ok, err := menuCache.Get(c.Request.Context())
	if err != nil {
		log.Warn("read menu cache", zap.Error(err))
	}
	if ok {
		return items, nil
	}

	items, err = store.ListMenuItems(c.Request.Context())
	if err != nil {
		return nil, err
	}
	if err := menuCache.Set(c.Request.Context(), items); err != nil {
		log.Warn("fill menu cache", zap.Error(err))
	}
	return items, nil
}

func groupByCategory(items []models.MenuItem) []menuCategory {
	var groups []menuCategory
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, menuCategory{Name: item.Category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// HomeHandler lists the most ordered dishes.
func HomeHandler(c *gin.Context, store *repository.Store) {
	popular, err := store.PopularMenuItems(c.Request.Context(), popularLimit)
	if err != nil {
		failure(c, err, "Failed to load the menu")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"popular": popular,
	})
}

func MenuHandler(c *gin.Context, store *repository.Store, menuCache cache.MenuCache) {
	items, err := availableMenu(c, store, menuCache)
	if err != nil {
		failure(c, err, "Failed to load the menu")
		return
	}
	categories, err := store.ListMenuCategories(c.Request.Context())
	if err != nil {
		failure(c, err, "Failed to load the menu")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"items":      items,
	})
}

func MenuAPIHandler(c *gin.Context, store *repository.Store, menuCache cache.MenuCache) {
	items, err := availableMenu(c, store, menuCache)
	if err != nil {
		failure(c, err, "Failed to load the menu")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": groupByCategory(items),
	})
}
