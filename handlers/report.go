package handlers

import (
	"fintrack-backend/database"
	"fintrack-backend/models"
	"fintrack-backend/services"
	"fintrack-backend/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GET /api/daily-expenses/reports?start_date=&end_date=
func GetExpenseReport(c *gin.Context) {
	start, err := optionalDate(c, "start_date")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	end, err := optionalDate(c, "end_date")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	report, err := services.NewReportService(database.DB).Report(c.Request.Context(), utils.GetCurrentUserID(c), start, end)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", report)
}

// GET /api/daily-expenses/monthly_bar_chart?year=
func GetMonthlyBarChart(c *gin.Context) {
	year, err := utils.QueryInt(c, "year", time.Now().Year())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	bars, err := services.NewReportService(database.DB).MonthlyBarChart(c.Request.Context(), utils.GetCurrentUserID(c), year)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", bars)
}

// GET /api/daily-expenses/category_pie_chart?year=&month=
func GetCategoryPieChart(c *gin.Context) {
	now := time.Now()
	year, err := utils.QueryInt(c, "year", now.Year())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	month, err := utils.QueryInt(c, "month", int(now.Month()))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	slices, err := services.NewReportService(database.DB).CategoryPieChart(c.Request.Context(), utils.GetCurrentUserID(c), year, month)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", slices)
}

// GET /api/daily-expenses/tabular_report?start_date=&end_date=&group_by=daily|monthly
func GetTabularReport(c *gin.Context) {
	if c.Query("start_date") == "" || c.Query("end_date") == "" {
		utils.BadRequest(c, "start_date and end_date are required")
		return
	}
	start, err := models.ParseDate(c.Query("start_date"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	end, err := models.ParseDate(c.Query("end_date"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	report, err := services.NewReportService(database.DB).
		TabularReport(c.Request.Context(), utils.GetCurrentUserID(c), start, end, c.Query("group_by"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", report)
}
