package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"eshop-server/database"
	"eshop-server/models"
	"eshop-server/utils"
)

type fakeUserStore struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	f.users[user.ID] = *user
	return user, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.users[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

const testSecret = "test-secret"

func newAccountFixture() (*fakeUserStore, *AccountService) {
	store := newFakeUserStore()
	return store, NewAccountService(store, testSecret, bcrypt.MinCost)
}

func TestRegisterForcesNonAdmin(t *testing.T) {
	store, svc := newAccountFixture()

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Mallory",
		Email:    "mallory@example.com",
		Password: "hunter22",
		IsAdmin:  true,
	})
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)

	stored := store.users[user.ID]
	assert.False(t, stored.IsAdmin)
}

func TestRegisterHashesPassword(t *testing.T) {
	store, svc := newAccountFixture()

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret33",
	})
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash, "hash must not leave the service")

	stored := store.users[user.ID]
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "s3cret33")
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))
	assert.True(t, utils.CheckPassword("s3cret33", stored.PasswordHash))
}

func TestAdminCreateHonorsAdminFlag(t *testing.T) {
	store, svc := newAccountFixture()

	user, err := svc.AdminCreate(context.Background(), models.RegisterRequest{
		Name:     "Root",
		Email:    "root@example.com",
		Password: "s3cret33",
		IsAdmin:  true,
	})
	require.NoError(t, err)
	assert.True(t, store.users[user.ID].IsAdmin)
}

func TestLogin(t *testing.T) {
	_, svc := newAccountFixture()
	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret33",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), "alice@example.com", "s3cret33")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", resp.User)

	claims, err := utils.ParseToken(testSecret, resp.Token)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.UserID)
}

func TestLoginDistinguishesFailures(t *testing.T) {
	_, svc := newAccountFixture()
	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret33",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "nobody@example.com", "s3cret33")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestListUsersStripsHashes(t *testing.T) {
	_, svc := newAccountFixture()
	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := svc.Register(context.Background(), models.RegisterRequest{
			Name:     "user",
			Email:    email,
			Password: "s3cret33",
		})
		require.NoError(t, err)
	}

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}
}

func TestGetUserNotFound(t *testing.T) {
	_, svc := newAccountFixture()
	_, err := svc.GetUser(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
