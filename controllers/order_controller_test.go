package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop-server/database"
	"eshop-server/models"
	"eshop-server/services"
)

type memOrderItemStore struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.OrderItem
}

func (f *memOrderItemStore) Create(_ context.Context, item *models.OrderItem) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	item.ID = id
	f.items[id] = *item
	return id, nil
}

func (f *memOrderItemStore) Get(_ context.Context, id primitive.ObjectID) (*models.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &item, nil
}

func (f *memOrderItemStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type memOrderStore struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]models.Order
}

func (f *memOrderStore) Insert(_ context.Context, order *models.Order) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = primitive.NewObjectID()
	f.orders[order.ID] = *order
	return order, nil
}

func (f *memOrderStore) Get(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &order, nil
}

func (f *memOrderStore) List(_ context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *memOrderStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *memOrderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	order.Status = status
	f.orders[id] = order
	return &order, nil
}

func (f *memOrderStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f *memOrderStore) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.orders)), nil
}

func (f *memOrderStore) TotalSales(_ context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total float64
	for _, o := range f.orders {
		total += o.TotalPrice
	}
	return total, nil
}

type memProductReader struct {
	products map[primitive.ObjectID]models.Product
}

func (f *memProductReader) Get(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &p, nil
}

type memUserReader struct{}

func (memUserReader) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return &models.User{ID: id, Name: "Buyer"}, nil
}

func newOrderRouter(t *testing.T, userID primitive.ObjectID) (*gin.Engine, *memProductReader, *memOrderStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := &memProductReader{products: map[primitive.ObjectID]models.Product{}}
	orders := &memOrderStore{orders: map[primitive.ObjectID]models.Order{}}
	items := &memOrderItemStore{items: map[primitive.ObjectID]models.OrderItem{}}
	SetOrderService(services.NewOrderService(orders, items, products, memUserReader{}, nil))

	r := gin.New()
	// stand-in for the auth gate: attach the caller identity directly
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID.Hex())
		c.Next()
	})
	r.POST("/orders", CreateOrder)
	r.GET("/orders/:id", GetOrder)
	r.DELETE("/orders/:id", DeleteOrder)
	r.PUT("/orders/:id", UpdateOrderStatus)
	r.GET("/orders/get/totalsales", GetTotalSales)
	return r, products, orders
}

func postJSON(r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validOrderRequest(productID string) models.OrderRequest {
	return models.OrderRequest{
		OrderItems:       []models.CartLine{{Product: productID, Quantity: 2}},
		ShippingAddress1: "1 Main St",
		City:             "Springfield",
		Zip:              "12345",
		Country:          "US",
		Phone:            "555-0100",
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	userID := primitive.NewObjectID()
	r, products, _ := newOrderRouter(t, userID)

	pid := primitive.NewObjectID()
	products.products[pid] = models.Product{ID: pid, Price: 12.5, CreatedAt: time.Now()}

	w := postJSON(r, "/orders", validOrderRequest(pid.Hex()))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, 25.0, order.TotalPrice)
	assert.Equal(t, userID, order.UserID)
}

func TestCreateOrderEndpointRejectsBadQuantity(t *testing.T) {
	r, _, _ := newOrderRouter(t, primitive.NewObjectID())

	req := validOrderRequest(primitive.NewObjectID().Hex())
	req.OrderItems[0].Quantity = 0
	w := postJSON(r, "/orders", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderEndpointUnknownProduct(t *testing.T) {
	r, _, orders := newOrderRouter(t, primitive.NewObjectID())

	w := postJSON(r, "/orders", validOrderRequest(primitive.NewObjectID().Hex()))
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "invalid product")

	count, _ := orders.Count(context.Background())
	assert.Zero(t, count)
}

func TestCreateOrderEndpointMalformedProductID(t *testing.T) {
	r, _, _ := newOrderRouter(t, primitive.NewObjectID())

	w := postJSON(r, "/orders", validOrderRequest("not-a-hex-id"))
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "invalid product")
}

func TestDeleteOrderEndpointNotFound(t *testing.T) {
	r, _, _ := newOrderRouter(t, primitive.NewObjectID())

	req := httptest.NewRequest(http.MethodDelete, "/orders/"+primitive.NewObjectID().Hex(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestTotalSalesEndpointEmpty(t *testing.T) {
	r, _, _ := newOrderRouter(t, primitive.NewObjectID())

	req := httptest.NewRequest(http.MethodGet, "/orders/get/totalsales", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalsales":0`)
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	userID := primitive.NewObjectID()
	r, products, orders := newOrderRouter(t, userID)

	pid := primitive.NewObjectID()
	products.products[pid] = models.Product{ID: pid, Price: 10}

	w := postJSON(r, "/orders", validOrderRequest(pid.Hex()))
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))

	body, _ := json.Marshal(models.StatusRequest{Status: "Shipped"})
	req := httptest.NewRequest(http.MethodPut, "/orders/"+order.ID.Hex(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := orders.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shipped", stored.Status)
}
