package handlers

import (
	"context"
	"net/http"
	"strings"

	"mon-auxiliaire/internal/apperr"
	"mon-auxiliaire/internal/models"

	"github.com/gin-gonic/gin"
)

type vehiculeRequest struct {
	Immatriculation string               `json:"immatriculation" binding:"required,max=20"`
	TypeVehicule    string               `json:"typeVehicule" binding:"max=50"`
	Capacite        string               `json:"capacite" binding:"max=20"`
	Statut          models.VehicleStatus `json:"statut" binding:"omitempty,oneof=disponible en_mission maintenance"`
}

func (r *vehiculeRequest) Normalize() {
	for _, s := range []*string{&r.Immatriculation, &r.TypeVehicule, &r.Capacite} {
		*s = strings.TrimSpace(*s)
	}
}

func (h *Handler) ListVehicules(c *gin.Context) {
	vehicules, err := h.store.Vehicules().List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicules)
}

func (h *Handler) GetVehicule(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	v, err := h.store.Vehicules().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFound(err, "Véhicule non trouvé"))
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) CreateVehicule(c *gin.Context) {
	var req vehiculeRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	v := models.Vehicule{
		Immatriculation: normalizePlate(req.Immatriculation),
		TypeVehicule:    req.TypeVehicule,
		Capacite:        req.Capacite,
		Statut:          req.Statut,
	}
	if v.Statut == "" {
		v.Statut = models.VehicleAvailable
	}

	ctx := c.Request.Context()
	if err := h.ensurePlateFree(ctx, v.Immatriculation, 0); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.Vehicules().Create(ctx, &v); err != nil {
		h.fail(c, err)
		return
	}

	h.audit(c, "vehicule", v.ID, "create", "Véhicule créé : "+v.Immatriculation)
	c.JSON(http.StatusCreated, v)
}

func (h *Handler) UpdateVehicule(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var patch models.VehiculePatch
	if err := bind(c, &patch); err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()

	if patch.Immatriculation != nil {
		plate := normalizePlate(*patch.Immatriculation)
		patch.Immatriculation = &plate
		if err := h.ensurePlateFree(ctx, plate, id); err != nil {
			h.fail(c, err)
			return
		}
	}

	v, err := h.store.Vehicules().Update(ctx, id, patch)
	if err != nil {
		h.fail(c, notFound(err, "Véhicule non trouvé"))
		return
	}

	h.audit(c, "vehicule", v.ID, "update", "Véhicule modifié : "+v.Immatriculation+" ("+string(v.Statut)+")")
	c.JSON(http.StatusOK, v)
}

func (h *Handler) DeleteVehicule(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.deleteOr404(c.Request.Context(), h.store.Vehicules().Delete, id, "Véhicule non trouvé"); err != nil {
		h.fail(c, err)
		return
	}

	h.audit(c, "vehicule", id, "delete", "Véhicule supprimé")
	c.Status(http.StatusNoContent)
}

func normalizePlate(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// --- unicité de l'immatriculation (hors véhicule courant) ---
func (h *Handler) ensurePlateFree(ctx context.Context, plate string, self uint) error {
	vehicules, err := h.store.Vehicules().List(ctx)
	if err != nil {
		return err
	}
	for _, v := range vehicules {
		if v.ID != self && strings.EqualFold(v.Immatriculation, plate) {
			return apperr.Conflict("Un véhicule avec cette immatriculation existe déjà")
		}
	}
	return nil
}
