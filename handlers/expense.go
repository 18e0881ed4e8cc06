package handlers

import (
	"fintrack-backend/database"
	"fintrack-backend/models"
	"fintrack-backend/services"
	"fintrack-backend/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// POST /api/categories
func CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	category, err := services.NewExpenseService(database.DB).
		CreateCategory(c.Request.Context(), utils.GetCurrentUserID(c), req.Name)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Category created", category.ToResponse())
}

// GET /api/categories
func GetCategories(c *gin.Context) {
	categories, err := services.NewExpenseService(database.DB).ListCategories(c.Request.Context(), utils.GetCurrentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	responses := make([]models.CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, categories[i].ToResponse())
	}
	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// DELETE /api/categories/:id
func DeleteCategory(c *gin.Context) {
	categoryID, ok := utils.ParseUUIDParam(c, "id", "category")
	if !ok {
		return
	}

	if err := services.NewExpenseService(database.DB).
		DeleteCategory(c.Request.Context(), utils.GetCurrentUserID(c), categoryID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Category deleted", nil)
}

// POST /api/items
func CreateItem(c *gin.Context) {
	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		utils.BadRequest(c, "Invalid category")
		return
	}

	item, err := services.NewExpenseService(database.DB).
		CreateItem(c.Request.Context(), utils.GetCurrentUserID(c), req.Name, categoryID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Item created", item.ToResponse())
}

// GET /api/items
func GetItems(c *gin.Context) {
	items, err := services.NewExpenseService(database.DB).ListItems(c.Request.Context(), utils.GetCurrentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	responses := make([]models.ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, items[i].ToResponse())
	}
	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// DELETE /api/items/:id
func DeleteItem(c *gin.Context) {
	itemID, ok := utils.ParseUUIDParam(c, "id", "item")
	if !ok {
		return
	}

	if err := services.NewExpenseService(database.DB).
		DeleteItem(c.Request.Context(), utils.GetCurrentUserID(c), itemID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Item deleted", nil)
}

// GET /api/daily-expenses
func GetDailyExpenses(c *gin.Context) {
	days, err := services.NewExpenseService(database.DB).ListDays(c.Request.Context(), utils.GetCurrentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	responses := make([]models.DailyExpenseResponse, 0, len(days))
	for i := range days {
		responses = append(responses, days[i].ToResponse())
	}
	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// GET /api/daily-expenses/:date
func GetDailyExpense(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	day, err := services.NewExpenseService(database.DB).GetDay(c.Request.Context(), utils.GetCurrentUserID(c), date)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", day.ToResponse())
}

// POST /api/daily-expenses {date}
func CreateDailyExpense(c *gin.Context) {
	var req models.CreateDailyExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	getOrCreateDay(c, req.Date)
}

// POST /api/daily-expenses/:date
func EnsureDailyExpense(c *gin.Context) {
	getOrCreateDay(c, c.Param("date"))
}

func getOrCreateDay(c *gin.Context, raw string) {
	date, err := models.ParseDate(raw)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	day, created, err := services.NewExpenseService(database.DB).
		GetOrCreateDay(c.Request.Context(), utils.GetCurrentUserID(c), date)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if created {
		utils.SuccessResponse(c, http.StatusCreated, "Daily expense created", day.ToResponse())
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", day.ToResponse())
}

// POST /api/daily-expenses/:date/add_item
func AddExpenseItem(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req models.AddExpenseItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Item and Amount required")
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		utils.BadRequest(c, "Invalid item")
		return
	}

	day, err := services.NewExpenseService(database.DB).
		AddItem(c.Request.Context(), utils.GetCurrentUserID(c), date, itemID, *req.Amount)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Expense added", day.ToResponse())
}

// optionalDate reads a YYYY-MM-DD query parameter, nil when absent.
func optionalDate(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
