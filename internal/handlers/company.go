// internal/handlers/company.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/internhub/gateway/internal/services"
	"github.com/internhub/gateway/internal/utils"
)

type CompanyHandler struct {
	companyService *services.CompanyService
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func NewCompanyHandler(companyService *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

// GET /v1/company/applicants
func (h *CompanyHandler) ListApplicants(c *gin.Context) {
	token, _ := utils.GetTokenFromContext(c)

	applicants, err := h.companyService.Applicants(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, applicants)
}

// GET /v1/company/internships/:id/applicants
func (h *CompanyHandler) ListApplicantsForInternship(c *gin.Context) {
	token, _ := utils.GetTokenFromContext(c)
	internshipID := c.Param("id")

	applicants, err := h.companyService.ApplicantsForInternship(c.Request.Context(), token, internshipID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, applicants)
}

// PATCH /v1/company/applications/:id/status
func (h *CompanyHandler) UpdateApplicationStatus(c *gin.Context) {
	token, _ := utils.GetTokenFromContext(c)
	applicationID := c.Param("id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	record, err := h.companyService.UpdateStatus(c.Request.Context(), token, applicationID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, record)
}
