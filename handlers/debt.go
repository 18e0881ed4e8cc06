package handlers

import (
	"fintrack-backend/database"
	"fintrack-backend/models"
	"fintrack-backend/services"
	"fintrack-backend/utils"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func debtFilter(c *gin.Context) (services.DebtFilter, bool) {
	f := services.DebtFilter{Person: c.Query("person")}
	if status := strings.ToUpper(c.Query("status")); status != "" {
		f.Status = models.DebtStatus(status)
		if f.Status != models.DebtPending && f.Status != models.DebtClosed {
			utils.BadRequest(c, "Status must be PENDING or CLOSED")
			return f, false
		}
	}
	return f, true
}

func debtListResponses(debts []models.Debt, now time.Time) []models.DebtListResponse {
	out := make([]models.DebtListResponse, 0, len(debts))
	for i := range debts {
		out = append(out, debts[i].ToListResponse(now))
	}
	return out
}

// POST /api/debts
func CreateDebt(c *gin.Context) {
	var req models.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	debt, err := services.NewDebtService(database.DB).Create(c.Request.Context(), utils.GetCurrentUserID(c), req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Debt created", debt.ToResponse(time.Now()))
}

// GET /api/debts?person=&status=
func GetDebts(c *gin.Context) {
	f, ok := debtFilter(c)
	if !ok {
		return
	}

	debts, err := services.NewDebtService(database.DB).List(c.Request.Context(), utils.GetCurrentUserID(c), f)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", debtListResponses(debts, time.Now()))
}

// GET /api/debts/pending
func GetPendingDebts(c *gin.Context) {
	debts, total, err := services.NewDebtService(database.DB).
		Pending(c.Request.Context(), utils.GetCurrentUserID(c), c.Query("person"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", models.PendingDebtsResponse{
		Count:            len(debts),
		TotalOutstanding: models.NewMoney(total),
		Results:          debtListResponses(debts, time.Now()),
	})
}

// GET /api/debts/closed
func GetClosedDebts(c *gin.Context) {
	groups, err := services.NewDebtService(database.DB).
		Closed(c.Request.Context(), utils.GetCurrentUserID(c), c.Query("person"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", groups)
}

// GET /api/debts/summary
func GetDebtSummary(c *gin.Context) {
	summary, err := services.NewDebtService(database.DB).
		Summary(c.Request.Context(), utils.GetCurrentUserID(c), c.Query("person"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", summary)
}

// GET /api/debts/persons
func GetDebtPersons(c *gin.Context) {
	persons, err := services.NewDebtService(database.DB).Persons(c.Request.Context(), utils.GetCurrentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", persons)
}

// GET /api/debts/balances
func GetDebtBalances(c *gin.Context) {
	balances, err := services.NewDebtService(database.DB).Balances(c.Request.Context(), utils.GetCurrentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", balances)
}

// GET /api/debts/:id
func GetDebt(c *gin.Context) {
	debtID, ok := utils.ParseUUIDParam(c, "id", "debt")
	if !ok {
		return
	}

	debt, err := services.NewDebtService(database.DB).Get(c.Request.Context(), utils.GetCurrentUserID(c), debtID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", debt.ToResponse(time.Now()))
}

// PUT /api/debts/:id
func UpdateDebt(c *gin.Context) {
	debtID, ok := utils.ParseUUIDParam(c, "id", "debt")
	if !ok {
		return
	}

	var req models.UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	edit := models.DebtEdit{Amount: req.Amount, Type: req.Type}
	if req.PersonName != nil {
		name := strings.TrimSpace(*req.PersonName)
		edit.PersonName = &name
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			edit.ClearDueDate = true
		} else {
			due, err := models.ParseDate(*req.DueDate)
			if err != nil {
				utils.HandleError(c, err)
				return
			}
			edit.DueDate = &due
		}
	}

	debt, err := services.NewDebtService(database.DB).Update(c.Request.Context(), utils.GetCurrentUserID(c), debtID, edit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if debt.IsClosed() {
		notifyDebtClosed(c, *debt)
	}
	utils.SuccessResponse(c, http.StatusOK, "Debt updated", debt.ToResponse(time.Now()))
}

// DELETE /api/debts/:id
func DeleteDebt(c *gin.Context) {
	debtID, ok := utils.ParseUUIDParam(c, "id", "debt")
	if !ok {
		return
	}

	if err := services.NewDebtService(database.DB).Delete(c.Request.Context(), utils.GetCurrentUserID(c), debtID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Debt deleted", nil)
}

// POST /api/debts/:id/settle
func SettleDebt(c *gin.Context) {
	debtID, ok := utils.ParseUUIDParam(c, "id", "debt")
	if !ok {
		return
	}

	var req models.SettleDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	debt, err := services.NewDebtService(database.DB).
		Settle(c.Request.Context(), utils.GetCurrentUserID(c), debtID, *req.Amount, strings.TrimSpace(req.Notes))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	message := "Partial settlement recorded"
	if debt.IsClosed() {
		message = "Debt fully settled and closed"
		notifyDebtClosed(c, *debt)
	}

	utils.SuccessResponse(c, http.StatusOK, message, models.SettleResponse{
		Message: message,
		Debt:    debt.ToResponse(time.Now()),
	})
}

func notifyDebtClosed(c *gin.Context, debt models.Debt) {
	user, ok := currentUserForNotify(c)
	if !ok {
		return
	}
	services.GetNotificationService().NotifyDebtClosed(c.Request.Context(), user, debt)
}
