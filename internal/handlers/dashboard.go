package handlers

import (
	"context"
	"net/http"

	"mon-auxiliaire/internal/dashboard"

	"github.com/gin-gonic/gin"
)

func (h *Handler) dashboardData(ctx context.Context) (dashboard.Data, error) {
	var (
		d   dashboard.Data
		err error
	)
	if d.Sites, err = h.store.Sites().List(ctx); err != nil {
		return d, err
	}
	if d.Prestations, err = h.store.Prestations().List(ctx); err != nil {
		return d, err
	}
	if d.Employes, err = h.store.Employes().List(ctx); err != nil {
		return d, err
	}
	if d.Affectations, err = h.store.Affectations().List(ctx); err != nil {
		return d, err
	}
	if d.Vehicules, err = h.store.Vehicules().List(ctx); err != nil {
		return d, err
	}
	if d.Factures, err = h.store.Factures().List(ctx); err != nil {
		return d, err
	}
	return d, nil
}

func (h *Handler) DashboardKPIs(c *gin.Context) {
	d, err := h.dashboardData(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard.ComputeKPIs(d, h.now()))
}

func (h *Handler) DashboardCharts(c *gin.Context) {
	d, err := h.dashboardData(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard.ComputeCharts(d, h.now()))
}

func (h *Handler) DashboardAlerts(c *gin.Context) {
	d, err := h.dashboardData(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard.ComputeAlerts(d, h.now()))
}

func (h *Handler) PlanningDuJour(c *gin.Context) {
	d, err := h.dashboardData(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard.PlanningDuJour(d, h.now()))
}
