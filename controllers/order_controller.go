package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop-server/middlewares"
	"eshop-server/models"
	"eshop-server/services"
)

var orderService *services.OrderService

func SetOrderService(s *services.OrderService) {
	orderService = s
}

func CreateOrder(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("create", ok)
	}()

	userID, err := primitive.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	order, err := orderService.CreateOrder(c.Request.Context(), req, userID)
	if errors.Is(err, services.ErrInvalidProduct) {
		respondError(c, http.StatusBadRequest, "invalid product in order")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "the order cannot be created")
		return
	}
	c.JSON(http.StatusCreated, order)
}

func ListOrders(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("list", ok)
	}()

	orders, err := orderService.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func GetOrder(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("details", ok)
	}()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := orderService.GetOrder(c.Request.Context(), id)
	if errors.Is(err, services.ErrOrderNotFound) {
		respondError(c, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func GetUserOrders(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("user_list", ok)
	}()

	userID, ok := pathID(c, "userid")
	if !ok {
		return
	}
	orders, err := orderService.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list user orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func UpdateOrderStatus(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("update_status", ok)
	}()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	order, err := orderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if errors.Is(err, services.ErrOrderNotFound) {
		respondError(c, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func DeleteOrder(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("delete", ok)
	}()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	err := orderService.DeleteOrder(c.Request.Context(), id)
	if errors.Is(err, services.ErrOrderNotFound) {
		respondError(c, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "order deleted"})
}

func GetTotalSales(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("total_sales", ok)
	}()

	total, err := orderService.TotalSales(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to compute total sales")
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalsales": total})
}

func GetOrderCount(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("count", ok)
	}()

	count, err := orderService.CountOrders(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to count orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
