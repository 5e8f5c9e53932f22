package dashboard

import (
	"fmt"
	"slices"
	"time"

	"mon-auxiliaire/internal/billing"
	"mon-auxiliaire/internal/models"

	"github.com/shopspring/decimal"
)

type AlertType string

const (
	AlertError   AlertType = "error"
	AlertWarning AlertType = "warning"
	AlertInfo    AlertType = "info"
	AlertSuccess AlertType = "success"
)

type Alert struct {
	Type        AlertType `json:"type"`
	Message     string    `json:"message"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
}

func ComputeAlerts(d Data, now time.Time) []Alert {
	alerts := []Alert{}

	if n := countOverdue(d.Factures, now); n > 0 {
		alerts = append(alerts, Alert{
			Type:        AlertError,
			Message:     plural(n, "facture en retard de paiement", "factures en retard de paiement"),
			Description: "Échéance dépassée ou paiement signalé en retard",
			Link:        "/factures?statut=en_retard",
		})
	}

	for _, v := range d.Vehicules {
		if v.Statut != models.VehicleMaintenance {
			continue
		}
		alerts = append(alerts, Alert{
			Type:        AlertWarning,
			Message:     fmt.Sprintf("Véhicule %s en maintenance", v.Immatriculation),
			Description: "Indisponible pour les prestations",
			Link:        fmt.Sprintf("/vehicules/%d", v.ID),
		})
	}

	alerts = append(alerts, inactiveStaffAlerts(d, now)...)

	staffed := make(map[uint]bool, len(d.Affectations))
	for _, a := range d.Affectations {
		staffed[a.PrestationID] = true
	}
	day := today(now)
	for _, p := range d.Prestations {
		if p.DatePrestation != day || p.StatutPrestation == models.JobCancelled || staffed[p.ID] {
			continue
		}
		alerts = append(alerts, Alert{
			Type:        AlertInfo,
			Message:     "Prestation du jour sans personnel affecté",
			Description: fmt.Sprintf("Prestation #%d, %d manutentionnaire(s) prévu(s)", p.ID, p.NbManutentionnaires),
			Link:        fmt.Sprintf("/prestations/%d", p.ID),
		})
	}

	paid, total := paidThisMonth(d.Factures, now)
	if paid > 0 {
		alerts = append(alerts, Alert{
			Type:        AlertSuccess,
			Message:     plural(paid, "facture payée ce mois-ci", "factures payées ce mois-ci"),
			Description: "Total encaissé : " + billing.FormatEuro(total),
			Link:        "/factures?statut=payee",
		})
	}

	return alerts
}

// inactiveStaffAlerts signale les employés inactifs encore affectés à une
// prestation à venir (aujourd'hui compris, hors annulées).
func inactiveStaffAlerts(d Data, now time.Time) []Alert {
	inactive := make(map[uint]models.Employe)
	for _, e := range d.Employes {
		if !e.Actif {
			inactive[e.ID] = e
		}
	}
	if len(inactive) == 0 {
		return nil
	}

	upcoming := make(map[uint]bool, len(d.Prestations))
	day := today(now)
	for _, p := range d.Prestations {
		if p.DatePrestation >= day && p.StatutPrestation != models.JobCancelled {
			upcoming[p.ID] = true
		}
	}

	counts := make(map[uint]int)
	for _, a := range d.Affectations {
		if _, ok := inactive[a.EmployeID]; ok && upcoming[a.PrestationID] {
			counts[a.EmployeID]++
		}
	}

	ids := make([]uint, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	alerts := make([]Alert, 0, len(ids))
	for _, id := range ids {
		alerts = append(alerts, Alert{
			Type:        AlertWarning,
			Message:     fmt.Sprintf("%s est inactif(ve) mais reste affecté(e)", inactive[id].FullName()),
			Description: plural(counts[id], "prestation à venir", "prestations à venir"),
			Link:        fmt.Sprintf("/employes/%d", id),
		})
	}
	return alerts
}

// IsOverdue: en retard explicitement, ou échéance dépassée sans paiement.
func IsOverdue(f models.Facture, now time.Time) bool {
	if f.Statut == models.InvoiceOverdue {
		return true
	}
	if f.Statut == models.InvoicePaid || f.Statut == models.InvoiceDraft || f.DateEcheance == "" {
		return false
	}
	return f.DateEcheance < today(now)
}

func countOverdue(factures []models.Facture, now time.Time) int {
	n := 0
	for _, f := range factures {
		if IsOverdue(f, now) {
			n++
		}
	}
	return n
}

func paidThisMonth(factures []models.Facture, now time.Time) (int, decimal.Decimal) {
	n, total := 0, decimal.Zero
	for _, f := range factures {
		if f.Statut == models.InvoicePaid && inMonth(f.DateEmission, now) {
			n++
			total = total.Add(f.MontantTTC)
		}
	}
	return n, total
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
