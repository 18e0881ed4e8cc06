package handlers

import (
	"fintrack-backend/config"
	"fintrack-backend/database"
	"fintrack-backend/models"
	"fintrack-backend/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type AuthResponse struct {
	Access  string              `json:"access"`
	Refresh string              `json:"refresh"`
	User    models.UserResponse `json:"user"`
}

// POST /auth/register
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := database.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&count).Error; err != nil {
		utils.HandleError(c, err)
		return
	}
	if count > 0 {
		utils.Conflict(c, "Username or email already registered")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.InternalError(c, "Failed to hash password")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			utils.Conflict(c, "Username or email already registered")
			return
		}
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Registration successful", user.ToResponse())
}

// POST /auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error; err != nil {
		utils.HandleError(c, models.AuthError("Invalid username or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		utils.HandleError(c, models.AuthError("Invalid username or password"))
		return
	}

	cfg := config.AppConfig
	access, err := utils.GenerateToken(cfg.JWTSecret, user.ID, user.Username, utils.AccessToken, cfg.AccessTokenTTL)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}
	refresh, err := utils.GenerateToken(cfg.JWTSecret, user.ID, user.Username, utils.RefreshToken, cfg.RefreshTokenTTL)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", AuthResponse{
		Access:  access,
		Refresh: refresh,
		User:    user.ToResponse(),
	})
}

// POST /auth/refresh
func Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	cfg := config.AppConfig
	claims, err := utils.ParseToken(cfg.JWTSecret, req.Refresh, utils.RefreshToken)
	if err != nil {
		utils.HandleError(c, models.AuthError("Invalid or expired refresh token"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		utils.HandleError(c, models.AuthError("Invalid or expired refresh token"))
		return
	}

	access, err := utils.GenerateToken(cfg.JWTSecret, user.ID, user.Username, utils.AccessToken, cfg.AccessTokenTTL)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"access": access})
}
