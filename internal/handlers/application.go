// internal/handlers/application.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/internhub/gateway/internal/services"
	"github.com/internhub/gateway/internal/utils"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

type ApplyRequest struct {
	InternshipID string `json:"internship_id" validate:"required,uuid"`
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

// GET /v1/dashboard/applications
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}
	token, _ := utils.GetTokenFromContext(c)

	query := services.ApplicationQuery{
		Search: c.Query("q"),
		Status: c.Query("status"),
	}

	list, err := h.applicationService.Applications(c.Request.Context(), userID, token, query)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, list.Items, gin.H{
		"status_counts": list.StatusCounts,
		"last_synced":   list.LastSynced,
		"is_refreshing": list.IsRefreshing,
	})
}

// POST /v1/dashboard/applications/refresh
func (h *ApplicationHandler) RefreshApplications(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}
	token, _ := utils.GetTokenFromContext(c)

	if err := h.applicationService.Refresh(c.Request.Context(), userID, token); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Applications refreshed"})
}

// POST /v1/dashboard/applications
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}
	token, _ := utils.GetTokenFromContext(c)

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	record, err := h.applicationService.Apply(c.Request.Context(), userID, token, req.InternshipID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, record)
}
