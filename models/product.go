package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product stores its category as a reference; reads resolve it into Category
// so API responses carry the full category document.
type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	RichDescription string             `bson:"richDescription" json:"richDescription"`
	Image           string             `bson:"image" json:"image"`
	Images          []string           `bson:"images" json:"images"`
	Brand           string             `bson:"brand" json:"brand"`
	Price           float64            `bson:"price" json:"price"`
	CategoryID      primitive.ObjectID `bson:"category" json:"-"`
	Category        *Category          `bson:"-" json:"category,omitempty"`
	CountInStock    int                `bson:"countInStock" json:"countInStock"`
	Rating          float64            `bson:"rating" json:"rating"`
	NumReviews      int                `bson:"numReviews" json:"numReviews"`
	IsFeatured      bool               `bson:"isFeatured" json:"isFeatured"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProductForm carries the non-file fields of the multipart create/update
// request. Stock is bounded the same way the document schema bounds it.
type ProductForm struct {
	Name            string  `form:"name" binding:"required"`
	Description     string  `form:"description" binding:"required"`
	RichDescription string  `form:"richDescription"`
	Brand           string  `form:"brand"`
	Price           float64 `form:"price"`
	Category        string  `form:"category" binding:"required"`
	CountInStock    int     `form:"countInStock" binding:"min=0,max=255"`
	Rating          float64 `form:"rating"`
	NumReviews      int     `form:"numReviews"`
	IsFeatured      bool    `form:"isFeatured"`
}
