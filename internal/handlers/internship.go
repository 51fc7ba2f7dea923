// internal/handlers/internship.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/internhub/gateway/internal/services"
	"github.com/internhub/gateway/internal/utils"
)

type InternshipHandler struct {
	internshipService *services.InternshipService
}

func NewInternshipHandler(internshipService *services.InternshipService) *InternshipHandler {
	return &InternshipHandler{
		internshipService: internshipService,
	}
}

// GET /v1/dashboard/internships
func (h *InternshipHandler) ListWithMatch(c *gin.Context) {
	token, _ := utils.GetTokenFromContext(c)

	query := services.InternshipQuery{
		Search:   c.Query("q"),
		Category: c.Query("category"),
	}

	internships, err := h.internshipService.WithMatch(c.Request.Context(), token, query)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, internships)
}

// GET /v1/internships
func (h *InternshipHandler) Browse(c *gin.Context) {
	token, _ := utils.GetTokenFromContext(c)

	query := services.InternshipQuery{
		Search:   c.Query("q"),
		Category: c.Query("category"),
	}

	internships, err := h.internshipService.Browse(c.Request.Context(), token, query)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, internships)
}
