package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the persisted user document. The password hash never leaves the
// server: it is excluded from JSON and stripped again at the store layer.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	IsAdmin      bool               `bson:"isAdmin" json:"isAdmin"`
	Street       string             `bson:"street" json:"street"`
	Apartment    string             `bson:"apartment" json:"apartment"`
	City         string             `bson:"city" json:"city"`
	Zip          string             `bson:"zip" json:"zip"`
	Country      string             `bson:"country" json:"country"`
	Phone        string             `bson:"phone" json:"phone"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	IsAdmin   bool   `json:"isAdmin"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	User  string `json:"user"`
	Token string `json:"token"`
}
