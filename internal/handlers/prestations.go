package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"mon-auxiliaire/internal/apperr"
	"mon-auxiliaire/internal/billing"
	"mon-auxiliaire/internal/models"
	"mon-auxiliaire/internal/sanitize"
	"mon-auxiliaire/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type prestationRequest struct {
	SiteID              uint                 `json:"siteId" binding:"required,min=1"`
	DatePrestation      string               `json:"datePrestation" binding:"required,datetime=2006-01-02"`
	HeureDebut          string               `json:"heureDebut" binding:"omitempty,datetime=15:04"`
	HeureFin            string               `json:"heureFin" binding:"omitempty,datetime=15:04"`
	NbManutentionnaires int                  `json:"nbManutentionnaires" binding:"required,min=1"`
	NbCamions           int                  `json:"nbCamions" binding:"min=0"`
	MontantPrevu        *decimal.Decimal     `json:"montantPrevu"`
	MontantFacture      *decimal.Decimal     `json:"montantFacture"`
	StatutPaiement      models.PaymentStatus `json:"statutPaiement" binding:"omitempty,oneof=en_attente paye retard annule"`
	StatutPrestation    models.JobStatus     `json:"statutPrestation" binding:"omitempty,oneof=planifie en_cours termine annule"`
	Notes               string               `json:"notes"`
}

func (r *prestationRequest) Normalize() {
	for _, s := range []*string{&r.DatePrestation, &r.HeureDebut, &r.HeureFin} {
		*s = strings.TrimSpace(*s)
	}
}

func (r prestationRequest) prestation() models.Prestation {
	p := models.Prestation{
		SiteID:              r.SiteID,
		DatePrestation:      r.DatePrestation,
		HeureDebut:          r.HeureDebut,
		HeureFin:            r.HeureFin,
		NbManutentionnaires: r.NbManutentionnaires,
		NbCamions:           r.NbCamions,
		StatutPaiement:      r.StatutPaiement,
		StatutPrestation:    r.StatutPrestation,
		Notes:               sanitize.Text(r.Notes),
	}
	if r.MontantPrevu != nil {
		p.MontantPrevu = decimal.NewNullDecimal(*r.MontantPrevu)
	}
	if r.MontantFacture != nil {
		p.MontantFacture = decimal.NewNullDecimal(*r.MontantFacture)
	}
	if p.StatutPaiement == "" {
		p.StatutPaiement = models.PaymentPending
	}
	if p.StatutPrestation == "" {
		p.StatutPrestation = models.JobPlanned
	}
	return p
}

func (h *Handler) ListPrestations(c *gin.Context) {
	siteID, err := queryID(c, "siteId")
	if err != nil {
		h.fail(c, err)
		return
	}
	statut := models.JobStatus(c.Query("statut"))
	date := c.Query("date")

	prestations, err := h.store.Prestations().List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]models.Prestation, 0, len(prestations))
	for _, p := range prestations {
		if siteID != 0 && p.SiteID != siteID {
			continue
		}
		if statut != "" && p.StatutPrestation != statut {
			continue
		}
		if date != "" && p.DatePrestation != date {
			continue
		}
		out = append(out, p)
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetPrestation(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	p, err := h.store.Prestations().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFound(err, "Prestation non trouvée"))
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreatePrestation pré-remplit montantPrevu avec l'estimation quand il est omis.
func (h *Handler) CreatePrestation(c *gin.Context) {
	var req prestationRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := checkAmounts(amount{"montantPrevu", req.MontantPrevu}, amount{"montantFacture", req.MontantFacture}); err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()

	site, err := h.store.Sites().Get(ctx, req.SiteID)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(c, apperr.Validation("Données invalides", apperr.FieldError{Field: "siteId", Message: "Site inexistant"}))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	p := req.prestation()
	if !p.MontantPrevu.Valid {
		// une durée négative ou nulle laisse simplement le montant vide
		if est, ok, _ := billing.Estimate(site.TarifHoraire, p.HeureDebut, p.HeureFin, p.NbManutentionnaires); ok {
			p.MontantPrevu = decimal.NewNullDecimal(est)
		}
	}
	p.StatutPrestation, p.StatutPaiement = billing.SyncStatus(p.StatutPrestation, p.StatutPaiement)

	if err := h.store.Prestations().Create(ctx, &p); err != nil {
		h.fail(c, err)
		return
	}

	h.audit(c, "prestation", p.ID, "create", fmt.Sprintf("Prestation du %s pour %s", p.DatePrestation, site.NomSite))
	c.JSON(http.StatusCreated, p)
}

// UpdatePrestation sert PUT et PATCH: seuls les champs fournis sont modifiés.
// Si l'un des statuts change, le couple résultant passe par SyncStatus.
func (h *Handler) UpdatePrestation(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var patch models.PrestationPatch
	if err := bind(c, &patch); err != nil {
		h.fail(c, err)
		return
	}
	if err := checkAmounts(amount{"montantPrevu", patch.MontantPrevu}, amount{"montantFacture", patch.MontantFacture}); err != nil {
		h.fail(c, err)
		return
	}
	patch.Notes = sanitize.Ptr(patch.Notes)
	ctx := c.Request.Context()

	current, err := h.store.Prestations().Get(ctx, id)
	if err != nil {
		h.fail(c, notFound(err, "Prestation non trouvée"))
		return
	}
	if patch.SiteID != nil && *patch.SiteID != current.SiteID {
		if _, err := h.store.Sites().Get(ctx, *patch.SiteID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				err = apperr.Validation("Données invalides", apperr.FieldError{Field: "siteId", Message: "Site inexistant"})
			}
			h.fail(c, err)
			return
		}
	}

	if patch.TouchesStatus() {
		merged := current
		patch.Apply(&merged)
		job, pay := billing.SyncStatus(merged.StatutPrestation, merged.StatutPaiement)
		patch.StatutPrestation, patch.StatutPaiement = &job, &pay
	}

	p, err := h.store.Prestations().Update(ctx, id, patch)
	if err != nil {
		h.fail(c, notFound(err, "Prestation non trouvée"))
		return
	}

	h.audit(c, "prestation", p.ID, "update",
		fmt.Sprintf("Statuts : %s / %s", p.StatutPrestation, p.StatutPaiement))
	c.JSON(http.StatusOK, p)
}

// DeletePrestation refuse si une facture existe; sinon les affectations partent avec.
func (h *Handler) DeletePrestation(c *gin.Context) {
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

	f, err := h.store.FactureByPrestation(ctx, id)
	switch {
	case err == nil:
		h.fail(c, apperr.Conflict("Impossible de supprimer cette prestation : la facture "+f.NumeroFacture+" y est rattachée"))
		return
	case !errors.Is(err, store.ErrNotFound):
		h.fail(c, err)
		return
	}

	affectations, err := h.store.AffectationsByPrestation(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	for _, a := range affectations {
		if _, err := h.store.Affectations().Delete(ctx, a.ID); err != nil {
			h.fail(c, err)
			return
		}
	}

	if err := h.deleteOr404(ctx, h.store.Prestations().Delete, id, "Prestation non trouvée"); err != nil {
		h.fail(c, err)
		return
	}

	h.audit(c, "prestation", id, "delete", fmt.Sprintf("Prestation supprimée (%d affectation(s))", len(affectations)))
	c.Status(http.StatusNoContent)
}

type calendarEvent struct {
	ID               uint                 `json:"id"`
	Title            string               `json:"title"`
	Start            string               `json:"start"`
	End              string               `json:"end,omitempty"`
	BackgroundColor  string               `json:"backgroundColor"`
	StatutPrestation models.JobStatus     `json:"statutPrestation"`
	StatutPaiement   models.PaymentStatus `json:"statutPaiement"`
	Label            billing.PaymentLabel `json:"label"`
	LabelText        string               `json:"labelText"`
}

func (h *Handler) Calendar(c *gin.Context) {
	siteID, err := queryID(c, "siteId")
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()

	prestations, err := h.store.Prestations().List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	sites, err := h.store.Sites().List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	factures, err := h.store.Factures().List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	names := make(map[uint]string, len(sites))
	for _, s := range sites {
		names[s.ID] = s.NomSite
	}
	dueDates := make(map[uint]string, len(factures))
	for _, f := range factures {
		dueDates[f.PrestationID] = f.DateEcheance
	}

	now := h.now()
	events := make([]calendarEvent, 0, len(prestations))
	for _, p := range prestations {
		if siteID != 0 && p.SiteID != siteID {
			continue
		}
		label := billing.LabelFor(p.StatutPrestation, p.StatutPaiement, dueDates[p.ID], now)
		ev := calendarEvent{
			ID:               p.ID,
			Title:            names[p.SiteID],
			Start:            eventTime(p.DatePrestation, p.HeureDebut),
			BackgroundColor:  label.Color(),
			StatutPrestation: p.StatutPrestation,
			StatutPaiement:   p.StatutPaiement,
			Label:            label,
			LabelText:        label.Text(),
		}
		if p.HeureFin != "" {
			ev.End = eventTime(p.DatePrestation, p.HeureFin)
		}
		if ev.Title == "" {
			ev.Title = fmt.Sprintf("Prestation #%d", p.ID)
		}
		events = append(events, ev)
	}
	c.JSON(http.StatusOK, events)
}

func eventTime(date, clock string) string {
	if clock == "" {
		return date
	}
	return date + "T" + clock + ":00"
}

type estimateQuery struct {
	SiteID              uint   `form:"siteId" json:"siteId" binding:"required,min=1"`
	HeureDebut          string `form:"heureDebut" json:"heureDebut" binding:"required,datetime=15:04"`
	HeureFin            string `form:"heureFin" json:"heureFin" binding:"required,datetime=15:04"`
	NbManutentionnaires int    `form:"nbManutentionnaires" json:"nbManutentionnaires" binding:"required,min=1"`
}

func (h *Handler) EstimatePrestation(c *gin.Context) {
	var q estimateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, queryError(err))
		return
	}

	site, err := h.store.Sites().Get(c.Request.Context(), q.SiteID)
	if err != nil {
		h.fail(c, notFound(err, "Site non trouvé"))
		return
	}

	est, ok, err := billing.Estimate(site.TarifHoraire, q.HeureDebut, q.HeureFin, q.NbManutentionnaires)
	if errors.Is(err, billing.ErrNegativeDuration) {
		h.fail(c, apperr.Validation("L'heure de fin doit être postérieure à l'heure de début",
			apperr.FieldError{Field: "heureFin", Message: "Doit être après heureDebut"}))
		return
	}
	if !ok {
		h.fail(c, apperr.Validation("Estimation impossible : le site n'a pas de tarif horaire"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"montantEstime": est})
}
