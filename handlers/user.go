package handlers

import (
	"fintrack-backend/database"
	"fintrack-backend/models"
	"fintrack-backend/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type UpdateProfileRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
}

type UpdateFCMTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

func loadCurrentUser(c *gin.Context) (*models.User, bool) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", utils.GetCurrentUserID(c)).Error; err != nil {
		utils.NotFound(c, "User not found")
		return nil, false
	}
	return &user, true
}

// GET /api/users/me
func GetProfile(c *gin.Context) {
	user, ok := loadCurrentUser(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", user.ToResponse())
}

// PUT /api/users/me
func UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, ok := loadCurrentUser(c)
	if !ok {
		return
	}

	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" && email != user.Email {
		if err := database.DB.Model(user).Update("email", email).Error; err != nil {
			if database.IsUniqueViolation(err) {
				utils.Conflict(c, "Email already registered")
				return
			}
			utils.HandleError(c, err)
			return
		}
		user.Email = email
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated", user.ToResponse())
}

// PUT /api/users/me/fcm-token
func UpdateFCMToken(c *gin.Context) {
	var req UpdateFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := database.DB.Model(&models.User{}).
		Where("id = ?", utils.GetCurrentUserID(c)).
		Update("fcm_token", req.Token).Error; err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "FCM token updated", nil)
}
