package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"mon-auxiliaire/internal/apperr"
	"mon-auxiliaire/internal/billing"
	"mon-auxiliaire/internal/models"
	"mon-auxiliaire/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// délai de paiement appliqué à l'envoi d'une facture sans échéance
const paymentTermDays = 30

type factureRequest struct {
	PrestationID  uint                 `json:"prestationId" binding:"required,min=1"`
	NumeroFacture string               `json:"numeroFacture" binding:"max=50"`
	DateEmission  string               `json:"dateEmission" binding:"omitempty,datetime=2006-01-02"`
	DateEcheance  string               `json:"dateEcheance" binding:"omitempty,datetime=2006-01-02"`
	MontantHT     *decimal.Decimal     `json:"montantHt" binding:"required"`
	TVA           *decimal.Decimal     `json:"tva" binding:"required"`
	MontantTTC    *decimal.Decimal     `json:"montantTtc"`
	Statut        models.InvoiceStatus `json:"statut" binding:"omitempty,oneof=brouillon envoyee payee en_retard"`
	FichierPDF    string               `json:"fichierPdf"`
}

type paiementRequest struct {
	Statut models.InvoiceStatus `json:"statut" binding:"required,oneof=brouillon envoyee payee en_retard"`
}

func (r *factureRequest) Normalize() {
	for _, s := range []*string{&r.NumeroFacture, &r.DateEmission, &r.DateEcheance, &r.FichierPDF} {
		*s = strings.TrimSpace(*s)
	}
}

func (h *Handler) ListFactures(c *gin.Context) {
	factures, err := h.store.Factures().List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	if statut := models.InvoiceStatus(c.Query("statut")); statut != "" {
		filtered := make([]models.Facture, 0, len(factures))
		for _, f := range factures {
			if f.Statut == statut {
				filtered = append(filtered, f)
			}
		}
		factures = filtered
	}
	c.JSON(http.StatusOK, factures)
}

func (h *Handler) GetFacture(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	f, err := h.store.Factures().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFound(err, "Facture non trouvée"))
		return
	}
	c.JSON(http.StatusOK, f)
}

// CreateFacture attribue un numéro F-<année>-<NNN> si aucun n'est fourni et
// calcule le TTC (HT + TVA) s'il est omis.
func (h *Handler) CreateFacture(c *gin.Context) {
	var req factureRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := checkAmounts(
		amount{"montantHt", req.MontantHT},
		amount{"tva", req.TVA},
		amount{"montantTtc", req.MontantTTC},
	); err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()

	if _, err := h.store.Prestations().Get(ctx, req.PrestationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = apperr.Validation("Données invalides", apperr.FieldError{Field: "prestationId", Message: "Prestation inexistante"})
		}
		h.fail(c, err)
		return
	}

	// --- une seule facture par prestation ---
	if existing, err := h.store.FactureByPrestation(ctx, req.PrestationID); err == nil {
		h.fail(c, apperr.Conflict("Cette prestation est déjà facturée ("+existing.NumeroFacture+")"))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.fail(c, err)
		return
	}

	now := h.now()
	f := models.Facture{
		PrestationID:  req.PrestationID,
		NumeroFacture: req.NumeroFacture,
		DateEmission:  req.DateEmission,
		DateEcheance:  req.DateEcheance,
		MontantHT:     *req.MontantHT,
		TVA:           *req.TVA,
		Statut:        req.Statut,
		FichierPDF:    req.FichierPDF,
	}
	if f.DateEmission == "" {
		f.DateEmission = now.Format(models.DateLayout)
	}
	if f.Statut == "" {
		f.Statut = models.InvoiceDraft
	}
	if req.MontantTTC != nil {
		f.MontantTTC = *req.MontantTTC
	} else {
		f.MontantTTC = f.MontantHT.Add(f.TVA)
	}

	numbers, err := h.invoiceNumbers(ctx, 0)
	if err != nil {
		h.fail(c, err)
		return
	}
	if f.NumeroFacture == "" {
		f.NumeroFacture = billing.NextInvoiceNumber(numbers, now.Year())
	} else if containsFold(numbers, f.NumeroFacture) {
		h.fail(c, apperr.Conflict("Ce numéro de facture existe déjà"))
		return
	}

	if err := h.store.Factures().Create(ctx, &f); err != nil {
		h.fail(c, err)
		return
	}

	h.audit(c, "facture", f.ID, "create",
		fmt.Sprintf("Facture %s créée (%s TTC)", f.NumeroFacture, billing.FormatEuro(f.MontantTTC)))
	c.JSON(http.StatusCreated, f)
}

// UpdateFacture applique un patch; un changement de statut suit le même chemin
// que le paiement et resynchronise la prestation.
func (h *Handler) UpdateFacture(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var patch models.FacturePatch
	if err := bind(c, &patch); err != nil {
		h.fail(c, err)
		return
	}
	if err := checkAmounts(
		amount{"montantHt", patch.MontantHT},
		amount{"tva", patch.TVA},
		amount{"montantTtc", patch.MontantTTC},
	); err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()

	current, err := h.store.Factures().Get(ctx, id)
	if err != nil {
		h.fail(c, notFound(err, "Facture non trouvée"))
		return
	}

	if patch.NumeroFacture != nil {
		numbers, err := h.invoiceNumbers(ctx, id)
		if err != nil {
			h.fail(c, err)
			return
		}
		if containsFold(numbers, *patch.NumeroFacture) {
			h.fail(c, apperr.Conflict("Ce numéro de facture existe déjà"))
			return
		}
	}
	// HT ou TVA modifiés sans TTC explicite: on recalcule
	if patch.MontantTTC == nil && (patch.MontantHT != nil || patch.TVA != nil) {
		merged := current
		patch.Apply(&merged)
		ttc := merged.MontantHT.Add(merged.TVA)
		patch.MontantTTC = &ttc
	}

	statusChanged := patch.Statut != nil && *patch.Statut != current.Statut
	if statusChanged {
		if _, err := h.store.Prestations().Get(ctx, current.PrestationID); err != nil {
			h.fail(c, notFound(err, "Prestation non trouvée"))
			return
		}
		h.applyPaymentTerm(&patch, current)
	}

	var f models.Facture
	err = h.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		if f, err = tx.Factures().Update(ctx, id, patch); err != nil {
			return notFound(err, "Facture non trouvée")
		}
		if !statusChanged {
			return nil
		}
		return syncPrestation(ctx, tx, f.PrestationID, f.Statut)
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.audit(c, "facture", f.ID, "update", "Facture modifiée : "+f.NumeroFacture)
	c.JSON(http.StatusOK, f)
}

// UpdatePaiement change le statut de la facture et resynchronise la prestation liée.
func (h *Handler) UpdatePaiement(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req paiementRequest
	if err := bind(c, &req); err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			err = apperr.Validation("Statut de paiement requis", appErr.Fields...)
		}
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()

	current, err := h.store.Factures().Get(ctx, id)
	if err != nil {
		h.fail(c, notFound(err, "Facture non trouvée"))
		return
	}
	if _, err := h.store.Prestations().Get(ctx, current.PrestationID); err != nil {
		h.fail(c, notFound(err, "Prestation non trouvée"))
		return
	}

	patch := models.FacturePatch{Statut: &req.Statut}
	h.applyPaymentTerm(&patch, current)

	// facture puis prestation, dans la même transaction
	var f models.Facture
	err = h.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		if f, err = tx.Factures().Update(ctx, id, patch); err != nil {
			return notFound(err, "Facture non trouvée")
		}
		return syncPrestation(ctx, tx, f.PrestationID, f.Statut)
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.audit(c, "facture", f.ID, "paiement",
		fmt.Sprintf("Facture %s : %s -> %s", f.NumeroFacture, current.Statut, f.Statut))
	c.JSON(http.StatusOK, f)
}

// syncPrestation écrit sur la prestation le couple de statuts qui découle du
// statut de facture. La prestation doit exister.
func syncPrestation(ctx context.Context, st store.Store, prestationID uint, status models.InvoiceStatus) error {
	p, err := st.Prestations().Get(ctx, prestationID)
	if err != nil {
		return notFound(err, "Prestation non trouvée")
	}

	job, pay := billing.SyncStatus(billing.PairForInvoiceStatus(status, p.StatutPrestation))
	_, err = st.Prestations().Update(ctx, prestationID, models.PrestationPatch{
		StatutPrestation: &job,
		StatutPaiement:   &pay,
	})
	return notFound(err, "Prestation non trouvée")
}

func (h *Handler) applyPaymentTerm(patch *models.FacturePatch, current models.Facture) {
	if patch.Statut == nil || *patch.Statut != models.InvoiceSent {
		return
	}
	if current.DateEcheance != "" || patch.DateEcheance != nil {
		return
	}
	due := h.now().AddDate(0, 0, paymentTermDays).Format(models.DateLayout)
	patch.DateEcheance = &due
}

func (h *Handler) FacturePDF(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()

	f, err := h.store.Factures().Get(ctx, id)
	if err != nil {
		h.fail(c, notFound(err, "Facture non trouvée"))
		return
	}
	p, err := h.store.Prestations().Get(ctx, f.PrestationID)
	if err != nil {
		h.fail(c, notFound(err, "Prestation non trouvée"))
		return
	}
	site, err := h.store.Sites().Get(ctx, p.SiteID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := billing.RenderInvoicePDF(&buf, billing.InvoiceDocument{Facture: f, Prestation: p, Site: site}); err != nil {
		h.fail(c, apperr.Internal(err))
		return
	}

	attachment(c, "facture-"+f.NumeroFacture+".pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// invoiceNumbers liste les numéros existants, sauf celui de la facture exclude.
func (h *Handler) invoiceNumbers(ctx context.Context, exclude uint) ([]string, error) {
	factures, err := h.store.Factures().List(ctx)
	if err != nil {
		return nil, err
	}
	numbers := make([]string, 0, len(factures))
	for _, f := range factures {
		if f.ID != exclude {
			numbers = append(numbers, f.NumeroFacture)
		}
	}
	return numbers, nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
