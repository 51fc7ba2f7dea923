// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/internhub/gateway/internal/services"
	"github.com/internhub/gateway/internal/upstream"
	"github.com/internhub/gateway/internal/utils"
)

// respondError translates client and service errors into the API
// envelope. 401s propagate as-is so the frontend can force
// re-authentication; transient upstream failures become 502s.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, upstream.ErrUnauthorized):
		utils.UnauthorizedResponse(c, "Session expired. Please log in again.")
	case errors.Is(err, upstream.ErrForbidden):
		utils.ForbiddenResponse(c, trimmedMessage(err))
	case errors.Is(err, upstream.ErrNotFound), errors.Is(err, services.ErrOfferNotFound):
		utils.NotFoundResponse(c, "Resource")
	case errors.Is(err, services.ErrNotRespondable), errors.Is(err, services.ErrResponseInFlight):
		utils.ConflictResponse(c, trimmedMessage(err))
	case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, upstream.ErrBadRequest):
		utils.BadRequestResponse(c, trimmedMessage(err), nil)
	case upstream.IsTransient(err):
		utils.BadGatewayResponse(c, "")
	default:
		utils.InternalErrorResponse(c, "")
	}
}

func trimmedMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
