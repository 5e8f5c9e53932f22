package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"mon-auxiliaire/internal/apperr"
	"mon-auxiliaire/internal/models"
	"mon-auxiliaire/internal/sanitize"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type siteRequest struct {
	NomSite          string           `json:"nomSite" binding:"required,max=100"`
	Ville            string           `json:"ville" binding:"required,max=50"`
	Adresse          string           `json:"adresse" binding:"required"`
	ContactNom       string           `json:"contactNom" binding:"max=100"`
	ContactTelephone string           `json:"contactTelephone" binding:"max=20"`
	ContactEmail     string           `json:"contactEmail" binding:"omitempty,email,max=100"`
	TarifHoraire     *decimal.Decimal `json:"tarifHoraire"`
	Notes            string           `json:"notes"`
	Actif            *bool            `json:"actif"`
}

func (r *siteRequest) Normalize() {
	for _, s := range []*string{&r.NomSite, &r.Ville, &r.Adresse, &r.ContactNom, &r.ContactTelephone, &r.ContactEmail} {
		*s = strings.TrimSpace(*s)
	}
}

func (r siteRequest) site() models.Site {
	s := models.Site{
		NomSite:          r.NomSite,
		Ville:            r.Ville,
		Adresse:          r.Adresse,
		ContactNom:       r.ContactNom,
		ContactTelephone: r.ContactTelephone,
		ContactEmail:     r.ContactEmail,
		Notes:            sanitize.Text(r.Notes),
		Actif:            true,
	}
	if r.TarifHoraire != nil {
		s.TarifHoraire = decimal.NewNullDecimal(*r.TarifHoraire)
	}
	if r.Actif != nil {
		s.Actif = *r.Actif
	}
	return s
}

func (h *Handler) ListSites(c *gin.Context) {
	sites, err := h.store.Sites().List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	if raw := c.Query("actif"); raw != "" {
		actif, err := strconv.ParseBool(raw)
		if err != nil {
			h.fail(c, apperr.Validation("Paramètre invalide", apperr.FieldError{Field: "actif", Message: "Valeur booléenne attendue"}))
			return
		}
		filtered := sites[:0:0]
		for _, s := range sites {
			if s.Actif == actif {
				filtered = append(filtered, s)
			}
		}
		sites = filtered
	}

	c.JSON(http.StatusOK, sites)
}

func (h *Handler) GetSite(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	site, err := h.store.Sites().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFound(err, "Site non trouvé"))
		return
	}
	c.JSON(http.StatusOK, site)
}

func (h *Handler) CreateSite(c *gin.Context) {
	var req siteRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := checkAmounts(amount{"tarifHoraire", req.TarifHoraire}); err != nil {
		h.fail(c, err)
		return
	}

	site := req.site()
	if err := h.store.Sites().Create(c.Request.Context(), &site); err != nil {
		h.fail(c, err)
		return
	}

	h.audit(c, "site", site.ID, "create", "Site créé : "+site.NomSite)
	c.JSON(http.StatusCreated, site)
}

func (h *Handler) UpdateSite(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var patch models.SitePatch
	if err := bind(c, &patch); err != nil {
		h.fail(c, err)
		return
	}
	if err := checkAmounts(amount{"tarifHoraire", patch.TarifHoraire}); err != nil {
		h.fail(c, err)
		return
	}
	patch.Notes = sanitize.Ptr(patch.Notes)

	site, err := h.store.Sites().Update(c.Request.Context(), id, patch)
	if err != nil {
		h.fail(c, notFound(err, "Site non trouvé"))
		return
	}

	h.audit(c, "site", site.ID, "update", "Site modifié : "+site.NomSite)
	c.JSON(http.StatusOK, site)
}

// DeleteSite refuse la suppression tant que des prestations référencent le site.
func (h *Handler) DeleteSite(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()

	if _, err := h.store.Sites().Get(ctx, id); err != nil {
		h.fail(c, notFound(err, "Site non trouvé"))
		return
	}

	prestations, err := h.store.PrestationsBySite(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(prestations) > 0 {
		h.fail(c, apperr.Conflict(fmt.Sprintf("Impossible de supprimer ce site : %d prestation(s) y sont rattachées", len(prestations))))
		return
	}

	if err := h.deleteOr404(ctx, h.store.Sites().Delete, id, "Site non trouvé"); err != nil {
		h.fail(c, err)
		return
	}

	h.audit(c, "site", id, "delete", "Site supprimé")
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListSitePrestations(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()

	if _, err := h.store.Sites().Get(ctx, id); err != nil {
		h.fail(c, notFound(err, "Site non trouvé"))
		return
	}

	prestations, err := h.store.PrestationsBySite(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, prestations)
}

func (h *Handler) deleteOr404(ctx context.Context, del func(context.Context, uint) (bool, error), id uint, msg string) error {
	ok, err := del(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound(msg)
	}
	return nil
}
