// internal/handlers/offer.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/internhub/gateway/internal/models"
	"github.com/internhub/gateway/internal/services"
	"github.com/internhub/gateway/internal/utils"
)

type OfferHandler struct {
	offerService *services.OfferService
}

type RespondRequest struct {
	Response string `json:"response" validate:"required,oneof=accepted declined"`
}

func NewOfferHandler(offerService *services.OfferService) *OfferHandler {
	return &OfferHandler{
		offerService: offerService,
	}
}

// GET /v1/dashboard/offers
func (h *OfferHandler) ListOffers(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}
	token, _ := utils.GetTokenFromContext(c)

	list, err := h.offerService.Offers(c.Request.Context(), userID, token)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, list.Items, gin.H{
		"last_synced":   list.LastSynced,
		"is_refreshing": list.IsRefreshing,
	})
}

// POST /v1/dashboard/offers/refresh
func (h *OfferHandler) RefreshOffers(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}
	token, _ := utils.GetTokenFromContext(c)

	if err := h.offerService.Refresh(c.Request.Context(), userID, token); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Offers refreshed"})
}

// POST /v1/dashboard/offers/:id/respond
func (h *OfferHandler) RespondToOffer(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}
	token, _ := utils.GetTokenFromContext(c)
	applicationID := c.Param("id")

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	offer, err := h.offerService.Respond(
		c.Request.Context(),
		userID,
		token,
		applicationID,
		models.OfferResponseChoice(req.Response),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, offer)
}
