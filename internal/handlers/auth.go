package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/middleware"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/repository"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/service"
)

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req models.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			detail(c, http.StatusBadRequest, "Email already registered")
			return
		}
		reqLog(c).Error().Err(err).Msg("register failed")
		detail(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user":    user.Profile(),
	})
}

func (h HandlerSet) Login(c *gin.Context) {
	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			detail(c, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, service.ErrUserInactive):
			detail(c, http.StatusForbidden, "Account is inactive")
		default:
			reqLog(c).Error().Err(err).Msg("login failed")
			detail(c, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   result.Token,
		"user":    result.User.Profile(),
	})
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user.Profile(),
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionIDKey)
	if err := h.authService.Logout(c.Request.Context(), sessionID); err != nil {
		reqLog(c).Error().Err(err).Msg("logout failed")
		detail(c, http.StatusInternalServerError, "Logout failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}
