package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop-server/database"
	"eshop-server/models"
)

type ProductStore interface {
	List(ctx context.Context, categoryIDs []primitive.ObjectID) ([]models.Product, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Featured(ctx context.Context, limit int64) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Replace(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateGallery(ctx context.Context, id primitive.ObjectID, images []string) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

var productStore ProductStore

func SetProductStore(s ProductStore) {
	productStore = s
}

// ListProducts supports filtering by a comma-separated categories query
// param. Category references are resolved at read time.
func ListProducts(c *gin.Context) {
	var categoryIDs []primitive.ObjectID
	if raw := c.Query("categories"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := primitive.ObjectIDFromHex(strings.TrimSpace(part))
			if err != nil {
				respondError(c, http.StatusBadRequest, "invalid category filter")
				return
			}
			categoryIDs = append(categoryIDs, id)
		}
	}

	products, err := productStore.List(c.Request.Context(), categoryIDs)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list products")
		return
	}
	attachCategories(c, products)
	c.JSON(http.StatusOK, products)
}

func attachCategories(c *gin.Context, products []models.Product) {
	categories, err := categoryStore.List(c.Request.Context())
	if err != nil {
		return
	}
	byID := make(map[primitive.ObjectID]*models.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	for i := range products {
		products[i].Category = byID[products[i].CategoryID]
	}
}

func GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := productStore.Get(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get product")
		return
	}
	// a dangling category reference leaves the field empty
	if category, err := categoryStore.Get(c.Request.Context(), product.CategoryID); err == nil {
		product.Category = category
	}
	c.JSON(http.StatusOK, product)
}

// GetFeaturedProducts caps the result at the :count path parameter; a count
// of 0 means no cap.
func GetFeaturedProducts(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count < 0 {
		respondError(c, http.StatusBadRequest, "invalid count")
		return
	}
	products, err := productStore.Featured(c.Request.Context(), int64(count))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list featured products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func GetProductCount(c *gin.Context) {
	count, err := productStore.Count(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to count products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func CreateProduct(c *gin.Context) {
	var form models.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(form.Category)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category")
		return
	}
	if _, err := categoryStore.Get(c.Request.Context(), categoryID); err != nil {
		respondError(c, http.StatusBadRequest, "invalid category")
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "no image in request")
		return
	}
	imageURL, err := saveProductImage(c, fh)
	if errors.Is(err, errUnsupportedImage) {
		respondError(c, http.StatusBadRequest, "image must be png or jpeg")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to store image")
		return
	}

	product, err := productStore.Create(c.Request.Context(), &models.Product{
		Name:            form.Name,
		Description:     form.Description,
		RichDescription: form.RichDescription,
		Image:           imageURL,
		Brand:           form.Brand,
		Price:           form.Price,
		CategoryID:      categoryID,
		CountInStock:    form.CountInStock,
		Rating:          form.Rating,
		NumReviews:      form.NumReviews,
		IsFeatured:      form.IsFeatured,
		CreatedAt:       time.Now(),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct replaces every field. The main image is replaced only when
// a new file is part of the request; the gallery is kept either way.
func UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form models.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(form.Category)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category")
		return
	}
	if _, err := categoryStore.Get(c.Request.Context(), categoryID); err != nil {
		respondError(c, http.StatusBadRequest, "invalid category")
		return
	}

	existing, err := productStore.Get(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get product")
		return
	}

	imageURL := existing.Image
	if fh, err := c.FormFile("image"); err == nil {
		imageURL, err = saveProductImage(c, fh)
		if errors.Is(err, errUnsupportedImage) {
			respondError(c, http.StatusBadRequest, "image must be png or jpeg")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to store image")
			return
		}
	}

	product, err := productStore.Replace(c.Request.Context(), &models.Product{
		ID:              id,
		Name:            form.Name,
		Description:     form.Description,
		RichDescription: form.RichDescription,
		Image:           imageURL,
		Images:          existing.Images,
		Brand:           form.Brand,
		Price:           form.Price,
		CategoryID:      categoryID,
		CountInStock:    form.CountInStock,
		Rating:          form.Rating,
		NumReviews:      form.NumReviews,
		IsFeatured:      form.IsFeatured,
		CreatedAt:       existing.CreatedAt,
	})
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func UpdateProductGallery(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "multipart form required")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		respondError(c, http.StatusBadRequest, "no images in request")
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := saveProductImage(c, fh)
		if errors.Is(err, errUnsupportedImage) {
			respondError(c, http.StatusBadRequest, "images must be png or jpeg")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to store image")
			return
		}
		urls = append(urls, url)
	}

	product, err := productStore.UpdateGallery(c.Request.Context(), id, urls)
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update gallery")
		return
	}
	c.JSON(http.StatusOK, product)
}

func DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	err := productStore.Delete(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "product deleted"})
}
