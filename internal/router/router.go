// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/internhub/gateway/internal/config"
	"github.com/internhub/gateway/internal/handlers"
	"github.com/internhub/gateway/internal/middleware"
	"github.com/internhub/gateway/internal/services"
	"github.com/internhub/gateway/internal/upstream"
	"github.com/internhub/gateway/internal/utils"
)

// Initialize wires the upstream client, services, handlers, and routes.
// The returned cleanup function closes every polled view; call it on
// shutdown so no poll ticker outlives the server.
func Initialize(cfg *config.Config) (*gin.Engine, func()) {
	logger := logrus.StandardLogger()

	// Initialize services
	api := upstream.New(cfg.Upstream)
	applicationService := services.NewApplicationService(api, cfg.Sync, logger)
	offerService := services.NewOfferService(api, cfg.Sync, logger)
	internshipService := services.NewInternshipService(api)
	companyService := services.NewCompanyService(api)

	// Initialize handlers
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	offerHandler := handlers.NewOfferHandler(offerService)
	internshipHandler := handlers.NewInternshipHandler(internshipService)
	companyHandler := handlers.NewCompanyHandler(companyService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Intern dashboard routes
		dashboard := v1.Group("/dashboard")
		dashboard.Use(middleware.AuthRequired(), middleware.InternRequired())
		{
			dashboard.GET("/applications", applicationHandler.ListApplications)
			dashboard.POST("/applications", middleware.MutationRateLimit(), applicationHandler.Apply)
			dashboard.POST("/applications/refresh", middleware.RefreshRateLimit(), applicationHandler.RefreshApplications)

			dashboard.GET("/offers", offerHandler.ListOffers)
			dashboard.POST("/offers/refresh", middleware.RefreshRateLimit(), offerHandler.RefreshOffers)
			dashboard.POST("/offers/:id/respond", middleware.MutationRateLimit(), offerHandler.RespondToOffer)

			dashboard.GET("/internships", internshipHandler.ListWithMatch)
		}

		// Public browse (any authenticated role)
		v1.GET("/internships", middleware.AuthRequired(), internshipHandler.Browse)

		// Company dashboard routes
		company := v1.Group("/company")
		company.Use(middleware.AuthRequired(), middleware.CompanyRequired())
		{
			company.GET("/applicants", companyHandler.ListApplicants)
			company.GET("/internships/:id/applicants", companyHandler.ListApplicantsForInternship)
			company.PATCH("/applications/:id/status", middleware.MutationRateLimit(), companyHandler.UpdateApplicationStatus)
		}
	}

	cleanup := func() {
		applicationService.Close()
		offerService.Close()
	}
	return r, cleanup
}
