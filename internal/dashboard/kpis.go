// Package dashboard calcule les indicateurs du tableau de bord à partir des
// collections du magasin. Toutes les fonctions sont pures; l'heure courante est
// passée en paramètre.
package dashboard

import (
	"time"

	"mon-auxiliaire/internal/models"

	"github.com/shopspring/decimal"
)

type KPIs struct {
	CAMensuel          decimal.Decimal `json:"caMensuel"`
	PrestationsMensuel int             `json:"prestationsMensuel"`
	TauxPaiement       int             `json:"tauxPaiement"`
	NouveauxClients    int             `json:"nouveauxClients"`
}

type Data struct {
	Sites        []models.Site
	Prestations  []models.Prestation
	Employes     []models.Employe
	Affectations []models.Affectation
	Vehicules    []models.Vehicule
	Factures     []models.Facture
}

func ComputeKPIs(d Data, now time.Time) KPIs {
	k := KPIs{CAMensuel: decimal.Zero}

	for _, f := range d.Factures {
		if inMonth(f.DateEmission, now) {
			k.CAMensuel = k.CAMensuel.Add(f.MontantTTC)
		}
	}
	for _, p := range d.Prestations {
		if inMonth(p.DatePrestation, now) {
			k.PrestationsMensuel++
		}
	}
	for _, s := range d.Sites {
		if sameMonth(s.CreatedAt.In(now.Location()), now) {
			k.NouveauxClients++
		}
	}
	k.TauxPaiement = PaymentRate(d.Prestations)
	return k
}

// PaymentRate = round(100 × payées / terminées), 100 s'il n'y a aucune prestation terminée.
func PaymentRate(prestations []models.Prestation) int {
	var paid, done int
	for _, p := range prestations {
		if p.StatutPaiement == models.PaymentPaid {
			paid++
		}
		if p.StatutPrestation == models.JobDone {
			done++
		}
	}
	if done == 0 {
		return 100
	}
	// arrondi au plus proche, demi vers le haut
	return (200*paid + done) / (2 * done)
}

func inMonth(date string, now time.Time) bool {
	t, err := time.ParseInLocation(models.DateLayout, date, now.Location())
	if err != nil {
		return false
	}
	return sameMonth(t, now)
}

func sameMonth(t, now time.Time) bool {
	return t.Year() == now.Year() && t.Month() == now.Month()
}

func today(now time.Time) string {
	return now.Format(models.DateLayout)
}
