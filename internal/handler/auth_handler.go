package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cruzaro/hpcollect/internal/middleware"
	"github.com/cruzaro/hpcollect/internal/service"
	"github.com/cruzaro/hpcollect/internal/utils"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	utils.Success(c, 200, "Login successful", result)
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.authService.SignOut(c.Request.Context(), middleware.ProfileID(c)); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Signed out", nil)
}
