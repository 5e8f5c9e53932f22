package dashboard

import (
	"sort"
	"time"

	"mon-auxiliaire/internal/models"

	"github.com/shopspring/decimal"
)

var monthLabels = [12]string{"Jan", "Fév", "Mar", "Avr", "Mai", "Juin", "Juil", "Août", "Sep", "Oct", "Nov", "Déc"}

type MoneySeries struct {
	Labels []string          `json:"labels"`
	Data   []decimal.Decimal `json:"data"`
}

type ShareSeries struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

type Charts struct {
	CAEvolution      MoneySeries `json:"caEvolution"`
	RepartitionSites ShareSeries `json:"repartitionSites"`
}

// PlaceholderCharts sert de jeu d'illustration tant qu'aucune facture n'existe.
func PlaceholderCharts() Charts {
	data := []int64{12000, 15000, 13500, 18000, 16500, 22000, 25000, 23500, 28000, 32000, 34000, 36000}
	ca := MoneySeries{Labels: monthLabels[:], Data: make([]decimal.Decimal, len(data))}
	for i, v := range data {
		ca.Data[i] = decimal.NewFromInt(v)
	}
	return Charts{
		CAEvolution: ca,
		RepartitionSites: ShareSeries{
			Labels: []string{"Entreprises", "Particuliers", "Administrations", "Autres"},
			Data:   []int{45, 30, 15, 10},
		},
	}
}

func ComputeCharts(d Data, now time.Time) Charts {
	if len(d.Factures) == 0 {
		return PlaceholderCharts()
	}
	return Charts{
		CAEvolution:      revenueByMonth(d.Factures, now),
		RepartitionSites: revenueShareBySite(d, 3),
	}
}

// revenueByMonth couvre les 12 derniers mois, le mois courant en dernier.
func revenueByMonth(factures []models.Facture, now time.Time) MoneySeries {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)

	s := MoneySeries{Labels: make([]string, 12), Data: make([]decimal.Decimal, 12)}
	for i := range s.Labels {
		m := first.AddDate(0, i, 0)
		s.Labels[i] = monthLabels[m.Month()-1]
		s.Data[i] = decimal.Zero
	}

	for _, f := range factures {
		t, err := time.ParseInLocation(models.DateLayout, f.DateEmission, now.Location())
		if err != nil {
			continue
		}
		idx := (t.Year()-first.Year())*12 + int(t.Month()) - int(first.Month())
		if idx < 0 || idx >= 12 {
			continue
		}
		s.Data[idx] = s.Data[idx].Add(f.MontantTTC)
	}
	return s
}

func revenueShareBySite(d Data, top int) ShareSeries {
	siteOf := make(map[uint]uint, len(d.Prestations))
	for _, p := range d.Prestations {
		siteOf[p.ID] = p.SiteID
	}
	names := make(map[uint]string, len(d.Sites))
	for _, s := range d.Sites {
		names[s.ID] = s.NomSite
	}

	totals := map[uint]decimal.Decimal{}
	sum := decimal.Zero
	for _, f := range d.Factures {
		site := siteOf[f.PrestationID]
		totals[site] = totals[site].Add(f.MontantTTC)
		sum = sum.Add(f.MontantTTC)
	}
	if !sum.IsPositive() {
		return PlaceholderCharts().RepartitionSites
	}

	type entry struct {
		name  string
		total decimal.Decimal
	}
	entries := make([]entry, 0, len(totals))
	for id, total := range totals {
		name, ok := names[id]
		if !ok {
			name = "Autres"
		}
		entries = append(entries, entry{name: name, total: total})
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].total.Cmp(entries[j].total); c != 0 {
			return c > 0
		}
		return entries[i].name < entries[j].name
	})

	out := ShareSeries{}
	rest := decimal.Zero
	for i, e := range entries {
		if i < top && e.name != "Autres" {
			out.Labels = append(out.Labels, e.name)
			out.Data = append(out.Data, percent(e.total, sum))
			continue
		}
		rest = rest.Add(e.total)
	}
	if rest.IsPositive() {
		out.Labels = append(out.Labels, "Autres")
		out.Data = append(out.Data, percent(rest, sum))
	}
	return out
}

var hundred = decimal.NewFromInt(100)

func percent(part, total decimal.Decimal) int {
	return int(part.Mul(hundred).Div(total).Round(0).IntPart())
}
