package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"mon-auxiliaire/internal/apperr"
	"mon-auxiliaire/internal/models"
	"mon-auxiliaire/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type affectationRequest struct {
	EmployeID         uint             `json:"employeId" binding:"required,min=1"`
	Present           *bool            `json:"present"`
	HeuresTravaillees *decimal.Decimal `json:"heuresTravaillees"`
}

func (h *Handler) ListAffectations(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()

	if _, err := h.store.Prestations().Get(ctx, id); err != nil {
		h.fail(c, notFound(err, "Prestation non trouvée"))
		return
	}

	affectations, err := h.store.AffectationsByPrestation(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, affectations)
}

// CreateAffectation affecte un employé à une prestation, une seule fois.
func (h *Handler) CreateAffectation(c *gin.Context) {
	prestationID, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req affectationRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := checkAmounts(amount{"heuresTravaillees", req.HeuresTravaillees}); err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()

	if _, err := h.store.Prestations().Get(ctx, prestationID); err != nil {
		h.fail(c, notFound(err, "Prestation non trouvée"))
		return
	}
	employe, err := h.store.Employes().Get(ctx, req.EmployeID)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(c, apperr.Validation("Données invalides", apperr.FieldError{Field: "employeId", Message: "Employé inexistant"}))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	// --- un employé n'est affecté qu'une fois par prestation ---
	existing, err := h.store.AffectationsByPrestation(ctx, prestationID)
	if err != nil {
		h.fail(c, err)
		return
	}
	for _, a := range existing {
		if a.EmployeID == employe.ID {
			h.fail(c, apperr.Conflict(employe.FullName()+" est déjà affecté(e) à cette prestation"))
			return
		}
	}

	a := models.Affectation{PrestationID: prestationID, EmployeID: employe.ID, Present: true}
	if req.Present != nil {
		a.Present = *req.Present
	}
	if req.HeuresTravaillees != nil {
		a.HeuresTravaillees = decimal.NewNullDecimal(*req.HeuresTravaillees)
	}
	if err := h.store.Affectations().Create(ctx, &a); err != nil {
		h.fail(c, err)
		return
	}

	h.audit(c, "affectation", a.ID, "create",
		fmt.Sprintf("%s affecté(e) à la prestation #%d", employe.FullName(), prestationID))
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) DeleteAffectation(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.deleteOr404(c.Request.Context(), h.store.Affectations().Delete, id, "Affectation non trouvée"); err != nil {
		h.fail(c, err)
		return
	}

	h.audit(c, "affectation", id, "delete", "Affectation supprimée")
	c.Status(http.StatusNoContent)
}
