package handlers

import (
	"fintrack-backend/database"
	"fintrack-backend/services"
	"fintrack-backend/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/activity
func GetActivity(c *gin.Context) {
	var pagination utils.PaginationQuery
	if err := c.ShouldBindQuery(&pagination); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	pagination.Normalize()

	activities, err := services.NewActivityService(database.DB).
		List(c.Request.Context(), utils.GetCurrentUserID(c), pagination.Offset(), pagination.Limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", activities)
}
