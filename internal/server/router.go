package server

import (
	"slices"
	"time"

	"mon-auxiliaire/internal/auth"
	"mon-auxiliaire/internal/config"
	"mon-auxiliaire/internal/handlers"
	"mon-auxiliaire/internal/middleware"
	"mon-auxiliaire/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func NewRouter(cfg *config.Config, h *handlers.Handler, tokens *auth.TokenIssuer, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/health", handlers.Health)

	api := r.Group("/api")

	// AUTH
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)

	authed := api.Group("/", middleware.RequireAuth(tokens))
	{
		authed.GET("/auth/profile", h.GetProfile)
		authed.PATCH("/auth/profile", h.UpdateProfile)

		// SITES
		authed.GET("/sites", h.ListSites)
		authed.POST("/sites", h.CreateSite)
		authed.GET("/sites/:id", h.GetSite)
		authed.PUT("/sites/:id", h.UpdateSite)
		authed.DELETE("/sites/:id", h.DeleteSite)
		authed.GET("/sites/:id/prestations", h.ListSitePrestations)

		// PRESTATIONS
		authed.GET("/prestations", h.ListPrestations)
		authed.POST("/prestations", h.CreatePrestation)
		authed.GET("/prestations/calendar", h.Calendar)
		authed.GET("/prestations/estimate", h.EstimatePrestation)
		authed.GET("/prestations/:id", h.GetPrestation)
		authed.PUT("/prestations/:id", h.UpdatePrestation)
		authed.PATCH("/prestations/:id", h.UpdatePrestation)
		authed.DELETE("/prestations/:id", h.DeletePrestation)
		authed.GET("/prestations/:id/affectations", h.ListAffectations)
		authed.POST("/prestations/:id/affectations", h.CreateAffectation)
		authed.DELETE("/affectations/:id", h.DeleteAffectation)

		// EMPLOYES
		authed.GET("/employes", h.ListEmployes)
		authed.POST("/employes", h.CreateEmploye)
		authed.GET("/employes/:id", h.GetEmploye)
		authed.PUT("/employes/:id", h.UpdateEmploye)
		authed.DELETE("/employes/:id", h.DeleteEmploye)
		authed.GET("/employes/:id/planning", h.EmployePlanning)

		// VEHICULES
		authed.GET("/vehicules", h.ListVehicules)
		authed.POST("/vehicules", h.CreateVehicule)
		authed.GET("/vehicules/:id", h.GetVehicule)
		authed.PUT("/vehicules/:id", h.UpdateVehicule)
		authed.DELETE("/vehicules/:id", h.DeleteVehicule)

		// FACTURES
		authed.GET("/factures", h.ListFactures)
		authed.POST("/factures", h.CreateFacture)
		authed.GET("/factures/:id", h.GetFacture)
		authed.PUT("/factures/:id", h.UpdateFacture)
		authed.PUT("/factures/:id/paiement", h.UpdatePaiement)
		authed.GET("/factures/:id/pdf", h.FacturePDF)

		// DASHBOARD
		authed.GET("/dashboard/kpis", h.DashboardKPIs)
		authed.GET("/dashboard/charts", h.DashboardCharts)
		authed.GET("/dashboard/alerts", h.DashboardAlerts)
		authed.GET("/dashboard/planning-jour", h.PlanningDuJour)

		// RAPPORTS / AUDIT
		authed.GET("/reports/export", h.ExportReport)
		authed.GET("/audit", middleware.RequireRole(models.RoleAdmin), h.ListAuditLogs)
	}

	return r
}
