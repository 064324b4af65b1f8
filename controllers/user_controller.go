package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eshop-server/models"
	"eshop-server/services"
)

var accountService *services.AccountService

func SetAccountService(s *services.AccountService) {
	accountService = s
}

func Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := accountService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to register user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := accountService.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrUserNotFound) {
		respondError(c, http.StatusBadRequest, "user not found")
		return
	}
	if errors.Is(err, services.ErrWrongPassword) {
		respondError(c, http.StatusBadRequest, "password is wrong")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func CreateUser(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := accountService.AdminCreate(c.Request.Context(), req)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

func ListUsers(c *gin.Context) {
	users, err := accountService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := accountService.GetUser(c.Request.Context(), id)
	if errors.Is(err, services.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	err := accountService.DeleteUser(c.Request.Context(), id)
	if errors.Is(err, services.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "user deleted"})
}

func GetUserCount(c *gin.Context) {
	count, err := accountService.CountUsers(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to count users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
