package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is persisted per cart line before the order that references it.
// There is no update path; items are immutable once created.
type OrderItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	ProductID primitive.ObjectID `bson:"product" json:"-"`
	Product   *Product           `bson:"-" json:"product,omitempty"`
}

// Order references its items by id and stores the total computed from the
// product prices at creation time. Later price changes do not touch it.
type Order struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OrderItemIDs     []primitive.ObjectID `bson:"orderItems" json:"orderItems"`
	Items            []OrderItem          `bson:"-" json:"items,omitempty"`
	ShippingAddress1 string               `bson:"shippingAddress1" json:"shippingAddress1"`
	ShippingAddress2 string               `bson:"shippingAddress2" json:"shippingAddress2"`
	City             string               `bson:"city" json:"city"`
	Zip              string               `bson:"zip" json:"zip"`
	Country          string               `bson:"country" json:"country"`
	Phone            string               `bson:"phone" json:"phone"`
	Status           string               `bson:"status" json:"status"`
	TotalPrice       float64              `bson:"totalPrice" json:"totalPrice"`
	UserID           primitive.ObjectID   `bson:"user" json:"user"`
	UserName         string               `bson:"-" json:"userName,omitempty"`
	CreatedAt        time.Time            `bson:"dateOrdered" json:"dateOrdered"`
}

type CartLine struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type OrderRequest struct {
	// an empty cart is accepted and yields a zero-total order
	OrderItems       []CartLine `json:"orderItems" binding:"dive"`
	ShippingAddress1 string     `json:"shippingAddress1" binding:"required"`
	ShippingAddress2 string     `json:"shippingAddress2"`
	City             string     `json:"city" binding:"required"`
	Zip              string     `json:"zip" binding:"required"`
	Country          string     `json:"country" binding:"required"`
	Phone            string     `json:"phone" binding:"required"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}
