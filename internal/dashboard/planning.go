package dashboard

import (
	"fmt"
	"sort"
	"time"

	"mon-auxiliaire/internal/models"
)

type PlanningItem struct {
	ID          uint             `json:"id"`
	Heure       string           `json:"heure"`
	Client      string           `json:"client"`
	Description string           `json:"description"`
	Statut      models.JobStatus `json:"statut"`
}

// PlanningDuJour liste les prestations du jour triées par heure de début.
// Les prestations dont le site n'existe plus sont ignorées.
func PlanningDuJour(d Data, now time.Time) []PlanningItem {
	sites := make(map[uint]models.Site, len(d.Sites))
	for _, s := range d.Sites {
		sites[s.ID] = s
	}

	day := today(now)
	items := []PlanningItem{}
	for _, p := range d.Prestations {
		if p.DatePrestation != day {
			continue
		}
		site, ok := sites[p.SiteID]
		if !ok {
			continue
		}
		items = append(items, PlanningItem{
			ID:          p.ID,
			Heure:       p.HeureDebut,
			Client:      site.NomSite,
			Description: Description(site.Ville, p.NbManutentionnaires, p.NbCamions),
			Statut:      p.StatutPrestation,
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Heure < items[j].Heure })
	return items
}

// Description donne "Ville • N manutentionnaires • M camion(s)".
func Description(ville string, manutentionnaires, camions int) string {
	unit := "camion"
	if camions > 1 {
		unit = "camions"
	}
	return fmt.Sprintf("%s • %d manutentionnaires • %d %s", ville, manutentionnaires, camions, unit)
}
