package handlers

import (
	"fintrack-backend/database"
	"fintrack-backend/models"
	"fintrack-backend/services"
	"fintrack-backend/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// POST /api/emis
func CreateEMI(c *gin.Context) {
	var req models.CreateEMIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	emi, err := services.NewEMIService(database.DB).Create(c.Request.Context(), utils.GetCurrentUserID(c), req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "EMI created", emi.ToResponse())
}

// GET /api/emis
func GetEMIs(c *gin.Context) {
	emis, err := services.NewEMIService(database.DB).List(c.Request.Context(), utils.GetCurrentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	responses := make([]models.EMIResponse, 0, len(emis))
	for i := range emis {
		responses = append(responses, emis[i].ToResponse())
	}
	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// GET /api/emis/:id
func GetEMI(c *gin.Context) {
	emiID, ok := utils.ParseUUIDParam(c, "id", "EMI")
	if !ok {
		return
	}

	emi, err := services.NewEMIService(database.DB).Get(c.Request.Context(), utils.GetCurrentUserID(c), emiID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", emi.ToResponse())
}

// DELETE /api/emis/:id
func DeleteEMI(c *gin.Context) {
	emiID, ok := utils.ParseUUIDParam(c, "id", "EMI")
	if !ok {
		return
	}

	if err := services.NewEMIService(database.DB).Delete(c.Request.Context(), utils.GetCurrentUserID(c), emiID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "EMI deleted", nil)
}

// GET /api/installments?status=
func GetInstallments(c *gin.Context) {
	status := models.InstallmentStatus(strings.ToUpper(c.Query("status")))
	if status != "" && status != models.InstallmentPending && status != models.InstallmentPaid {
		utils.BadRequest(c, "Status must be PENDING or PAID")
		return
	}

	installments, err := services.NewEMIService(database.DB).
		ListInstallments(c.Request.Context(), utils.GetCurrentUserID(c), status)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	responses := make([]models.InstallmentResponse, 0, len(installments))
	for i := range installments {
		responses = append(responses, installments[i].ToResponse())
	}
	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// POST /api/installments/:id/mark_paid
func MarkInstallmentPaid(c *gin.Context) {
	installmentID, ok := utils.ParseUUIDParam(c, "id", "installment")
	if !ok {
		return
	}

	installment, emi, err := services.NewEMIService(database.DB).
		MarkPaid(c.Request.Context(), utils.GetCurrentUserID(c), installmentID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	message := "Installment marked as paid"
	if emi.Status == models.EMICompleted {
		message = "Installment marked as paid, EMI completed"
		if user, ok := currentUserForNotify(c); ok {
			services.GetNotificationService().NotifyEMICompleted(c.Request.Context(), user, *emi)
		}
	}

	utils.SuccessResponse(c, http.StatusOK, message, models.MarkPaidResponse{
		Installment: installment.ToResponse(),
		EMI:         emi.ToResponse(),
	})
}
