package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop-server/database"
	"eshop-server/models"
	"eshop-server/utils"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword is deliberately distinct from ErrUserNotFound; the
	// login endpoint reports which of the two failed.
	ErrWrongPassword = errors.New("wrong password")
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type AccountService struct {
	users     UserStore
	jwtSecret string
	hashCost  int
}

func NewAccountService(users UserStore, jwtSecret string, hashCost int) *AccountService {
	return &AccountService{users: users, jwtSecret: jwtSecret, hashCost: hashCost}
}

// Register is the self-service path: the admin flag in the request is
// ignored and the stored user is always non-admin.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.IsAdmin = false
	return s.create(ctx, req)
}

// AdminCreate honors the submitted admin flag. The route is gated to admin
// callers.
func (s *AccountService) AdminCreate(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	return s.create(ctx, req)
}

func (s *AccountService) create(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	hash, err := utils.HashPassword(req.Password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
		Street:       req.Street,
		Apartment:    req.Apartment,
		City:         req.City,
		Zip:          req.Zip,
		Country:      req.Country,
		Phone:        req.Phone,
		CreatedAt:    time.Now(),
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	created.PasswordHash = ""
	return created, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrWrongPassword
	}

	token, err := utils.GenerateToken(s.jwtSecret, user.ID.Hex(), user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.LoginResponse{User: user.Email, Token: token}, nil
}

func (s *AccountService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *AccountService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *AccountService) CountUsers(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}
