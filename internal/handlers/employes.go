package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"mon-auxiliaire/internal/apperr"
	"mon-auxiliaire/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type employeRequest struct {
	Nom               string           `json:"nom" binding:"required,max=50"`
	Prenom            string           `json:"prenom" binding:"required,max=50"`
	Telephone         string           `json:"telephone" binding:"max=20"`
	SalaireJournalier *decimal.Decimal `json:"salaireJournalier"`
	Specialite        string           `json:"specialite" binding:"max=100"`
	Actif             *bool            `json:"actif"`
}

func (r *employeRequest) Normalize() {
	for _, s := range []*string{&r.Nom, &r.Prenom, &r.Telephone, &r.Specialite} {
		*s = strings.TrimSpace(*s)
	}
}

func (r employeRequest) employe() models.Employe {
	e := models.Employe{
		Nom:        r.Nom,
		Prenom:     r.Prenom,
		Telephone:  r.Telephone,
		Specialite: r.Specialite,
		Actif:      true,
	}
	if r.SalaireJournalier != nil {
		e.SalaireJournalier = decimal.NewNullDecimal(*r.SalaireJournalier)
	}
	if r.Actif != nil {
		e.Actif = *r.Actif
	}
	return e
}

func (h *Handler) ListEmployes(c *gin.Context) {
	employes, err := h.store.Employes().List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, employes)
}

func (h *Handler) GetEmploye(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	e, err := h.store.Employes().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFound(err, "Employé non trouvé"))
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) CreateEmploye(c *gin.Context) {
	var req employeRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := checkAmounts(amount{"salaireJournalier", req.SalaireJournalier}); err != nil {
		h.fail(c, err)
		return
	}

	e := req.employe()
	if err := h.store.Employes().Create(c.Request.Context(), &e); err != nil {
		h.fail(c, err)
		return
	}

	h.audit(c, "employe", e.ID, "create", "Employé créé : "+e.FullName())
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) UpdateEmploye(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var patch models.EmployePatch
	if err := bind(c, &patch); err != nil {
		h.fail(c, err)
		return
	}
	if err := checkAmounts(amount{"salaireJournalier", patch.SalaireJournalier}); err != nil {
		h.fail(c, err)
		return
	}

	e, err := h.store.Employes().Update(c.Request.Context(), id, patch)
	if err != nil {
		h.fail(c, notFound(err, "Employé non trouvé"))
		return
	}

	h.audit(c, "employe", e.ID, "update", "Employé modifié : "+e.FullName())
	c.JSON(http.StatusOK, e)
}

// DeleteEmploye refuse tant que l'employé a des affectations.
func (h *Handler) DeleteEmploye(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()

	if _, err := h.store.Employes().Get(ctx, id); err != nil {
		h.fail(c, notFound(err, "Employé non trouvé"))
		return
	}

	affectations, err := h.store.AffectationsByEmploye(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(affectations) > 0 {
		h.fail(c, apperr.Conflict(fmt.Sprintf("Impossible de supprimer cet employé : %d affectation(s) en cours", len(affectations))))
		return
	}

	if err := h.deleteOr404(ctx, h.store.Employes().Delete, id, "Employé non trouvé"); err != nil {
		h.fail(c, err)
		return
	}

	h.audit(c, "employe", id, "delete", "Employé supprimé")
	c.Status(http.StatusNoContent)
}

type planningEntry struct {
	AffectationID     uint                `json:"affectationId"`
	PrestationID      uint                `json:"prestationId"`
	Date              string              `json:"date"`
	HeureDebut        string              `json:"heureDebut"`
	HeureFin          string              `json:"heureFin"`
	SiteNom           string              `json:"siteNom"`
	SiteVille         string              `json:"siteVille"`
	StatutPrestation  models.JobStatus    `json:"statutPrestation"`
	Present           bool                `json:"present"`
	HeuresTravaillees decimal.NullDecimal `json:"heuresTravaillees"`
}

// EmployePlanning joint les affectations de l'employé à leurs prestations et sites,
// par date puis heure de début.
func (h *Handler) EmployePlanning(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()

	if _, err := h.store.Employes().Get(ctx, id); err != nil {
		h.fail(c, notFound(err, "Employé non trouvé"))
		return
	}

	affectations, err := h.store.AffectationsByEmploye(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	planning := make([]planningEntry, 0, len(affectations))
	for _, a := range affectations {
		p, err := h.store.Prestations().Get(ctx, a.PrestationID)
		if err != nil {
			// affectation orpheline: rien à afficher
			continue
		}
		entry := planningEntry{
			AffectationID:     a.ID,
			PrestationID:      p.ID,
			Date:              p.DatePrestation,
			HeureDebut:        p.HeureDebut,
			HeureFin:          p.HeureFin,
			StatutPrestation:  p.StatutPrestation,
			Present:           a.Present,
			HeuresTravaillees: a.HeuresTravaillees,
		}
		if s, err := h.store.Sites().Get(ctx, p.SiteID); err == nil {
			entry.SiteNom, entry.SiteVille = s.NomSite, s.Ville
		}
		planning = append(planning, entry)
	}

	sort.SliceStable(planning, func(i, j int) bool {
		if planning[i].Date != planning[j].Date {
			return planning[i].Date < planning[j].Date
		}
		return planning[i].HeureDebut < planning[j].HeureDebut
	})
	c.JSON(http.StatusOK, planning)
}
