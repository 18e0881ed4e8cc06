package handlers

import (
	"fintrack-backend/database"
	"fintrack-backend/models"
	"fintrack-backend/utils"
	"log"

	"github.com/gin-gonic/gin"
)

// currentUserForNotify loads the caller for a notification. A lookup failure
// only skips the notification.
func currentUserForNotify(c *gin.Context) (models.User, bool) {
	var user models.User
	if err := database.DB.WithContext(c.Request.Context()).First(&user, "id = ?", utils.GetCurrentUserID(c)).Error; err != nil {
		log.Printf("⚠️  Notification skipped, user lookup failed: %v", err)
		return user, false
	}
	return user, true
}
