package api

import (
	"net/http" // HTTP status codes

	"inventory_sales/internal/middleware" // Current user
	"inventory_sales/internal/service"    // Catalog service
	"inventory_sales/internal/visibility" // Projections

	"github.com/gin-gonic/gin" // Gin web framework
)

// CategoryRequest is the writable body of a category
type CategoryRequest struct {
	Name string `json:"name"` // Category name, stored upper-cased
}

// ListCategoriesHandler returns a filtered page of categories
func ListCategoriesHandler(catalog *service.Catalog, lc *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := middleware.CurrentUser(c) // Resolved identity or nil
		opts, err := parseList(c, categoryQuery, viewer)
		if err != nil {
			respondError(c, err)
			return
		}
		lc.serve(c, nsCategories, viewer, func() (gin.H, error) {
			rows, total, err := catalog.ListCategories(c.Request.Context(), opts)
			if err != nil {
				return nil, err
			}
			items := make([]gin.H, len(rows))
			for i, row := range rows {
				items[i] = visibility.Category(row, viewer)
			}
			return pageBody("categories", items, total, opts), nil
		})
	}
}

// GetCategoryHandler returns one category
func GetCategoryHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		cat, err := catalog.GetCategory(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": visibility.Category(*cat, middleware.CurrentUser(c))})
	}
}

// SaveCategoryHandler creates a category on POST and replaces one on PUT
func SaveCategoryHandler(catalog *service.Catalog, lc *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id uint // Zero creates
		if c.Param("id") != "" {
			var ok bool
			if id, ok = pathID(c); !ok {
				return
			}
		}
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		viewer := middleware.CurrentUser(c)
		cat, err := catalog.SaveCategory(c.Request.Context(), viewer, id, service.CategoryInput{Name: req.Name})
		if err != nil {
			respondError(c, err)
			return
		}
		lc.invalidate(c, nsCategories)
		c.JSON(writeStatus(id), gin.H{"category": visibility.Category(*cat, viewer)})
	}
}

// DeleteCategoryHandler deletes a category and its products
func DeleteCategoryHandler(catalog *service.Catalog, lc *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := catalog.DeleteCategory(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
			respondError(c, err)
			return
		}
		lc.invalidate(c, nsCategories, nsProducts) // Products went with the category
		c.Status(http.StatusNoContent)
	}
}

// writeStatus is 201 for creations and 200 for replacements
func writeStatus(id uint) int {
	if id == 0 {
		return http.StatusCreated
	}
	return http.StatusOK
}
