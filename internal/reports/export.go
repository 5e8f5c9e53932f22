// Package reports produit l'export tableur des prestations et des factures.
package reports

import (
	"fmt"
	"io"

	"mon-auxiliaire/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetPrestations = "Prestations"
	SheetFactures    = "Factures"
)

var (
	prestationHeaders = []any{"ID", "Date", "Site", "Ville", "Début", "Fin", "Manutentionnaires", "Camions", "Montant prévu", "Montant facturé", "Statut prestation", "Statut paiement"}
	factureHeaders    = []any{"ID", "Numéro", "Prestation", "Site", "Émission", "Échéance", "Montant HT", "TVA", "Montant TTC", "Statut"}
)

type Input struct {
	Sites       []models.Site
	Prestations []models.Prestation
	Factures    []models.Facture
}

// WriteWorkbook écrit un classeur XLSX avec une feuille par collection.
func WriteWorkbook(w io.Writer, in Input) error {
	f := excelize.NewFile()
	defer f.Close()

	sites := make(map[uint]models.Site, len(in.Sites))
	for _, s := range in.Sites {
		sites[s.ID] = s
	}
	prestationSite := make(map[uint]uint, len(in.Prestations))

	if err := f.SetSheetName("Sheet1", SheetPrestations); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	rows := [][]any{prestationHeaders}
	for _, p := range in.Prestations {
		prestationSite[p.ID] = p.SiteID
		site := sites[p.SiteID]
		rows = append(rows, []any{
			p.ID, p.DatePrestation, site.NomSite, site.Ville, p.HeureDebut, p.HeureFin,
			p.NbManutentionnaires, p.NbCamions,
			nullable(p.MontantPrevu), nullable(p.MontantFacture),
			string(p.StatutPrestation), string(p.StatutPaiement),
		})
	}
	if err := writeRows(f, SheetPrestations, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetFactures); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	rows = [][]any{factureHeaders}
	for _, fa := range in.Factures {
		site := sites[prestationSite[fa.PrestationID]]
		rows = append(rows, []any{
			fa.ID, fa.NumeroFacture, fa.PrestationID, site.NomSite, fa.DateEmission, fa.DateEcheance,
			fa.MontantHT.InexactFloat64(), fa.TVA.InexactFloat64(), fa.MontantTTC.InexactFloat64(),
			string(fa.Statut),
		})
	}
	if err := writeRows(f, SheetFactures, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// une cellule vide plutôt que 0 quand le montant n'est pas renseigné
func nullable(d decimal.NullDecimal) any {
	if !d.Valid {
		return ""
	}
	return d.Decimal.InexactFloat64()
}
