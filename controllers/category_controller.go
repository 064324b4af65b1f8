package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop-server/database"
	"eshop-server/models"
)

type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

var categoryStore CategoryStore

func SetCategoryStore(s CategoryStore) {
	categoryStore = s
}

func ListCategories(c *gin.Context) {
	categories, err := categoryStore.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func GetCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	category, err := categoryStore.Get(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	category, err := categoryStore.Create(c.Request.Context(), &models.Category{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	category, err := categoryStore.Update(c.Request.Context(), &models.Category{
		ID:    id,
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory does not cascade: products keep their reference and reads
// resolve it to nothing.
func DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	err := categoryStore.Delete(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "category deleted"})
}
