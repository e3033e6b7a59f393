package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Casglez3/login-register-backend/internal/crypto"
	"github.com/Casglez3/login-register-backend/internal/service"
)

// UserHandler serves the authenticated account maintenance routes.
type UserHandler interface {
	GetByID(c *gin.Context)
	GetByUsername(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type userHandler struct {
	userService service.UserService
	log         *zap.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(userService service.UserService, log *zap.Logger) UserHandler {
	return &userHandler{userService: userService, log: log}
}

// UpdateUserRequest is a partial update: absent fields are left unchanged.
type UpdateUserRequest struct {
	UserName *string `json:"userName"`
	Password *string `json:"password"`
}

// GetByID renders the account, or null when no account has that id.
func (h *userHandler) GetByID(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error("Failed to find user by id", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error when finding the user by id"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetByUsername renders the account, or null when no account has that name.
func (h *userHandler) GetByUsername(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Request.Context(), c.Param("userName"))
	if err != nil {
		h.log.Error("Failed to find user by name", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error when finding the user by name"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *userHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON for user update", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	err := h.userService.Update(c.Request.Context(), c.Param("id"), req.UserName, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrWeakPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"message": crypto.PolicyDescription})
			return
		}
		h.log.Error("Failed to update user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error when updating the user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

func (h *userHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Error("Failed to delete user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error when deleting the user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
