package billing

import (
	"bytes"
	"testing"

	"mon-auxiliaire/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextInvoiceNumber(t *testing.T) {
	assert.Equal(t, "F-2026-001", NextInvoiceNumber(nil, 2026))
	assert.Equal(t, "F-2026-013", NextInvoiceNumber([]string{"F-2026-012", "F-2026-003", "F-2025-099", "MANUEL-1"}, 2026))
}

func TestFormatEuro(t *testing.T) {
	assert.Equal(t, "720,00 €", FormatEuro(decimal.NewFromInt(720)))
	assert.Equal(t, "1 250,50 €", FormatEuro(decimal.RequireFromString("1250.5")))
	assert.Equal(t, "1 234 567,89 €", FormatEuro(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "-12,00 €", FormatEuro(decimal.NewFromInt(-12)))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "19/10/2026", FormatDate("2026-10-19"))
	assert.Equal(t, "", FormatDate(""))
}

func TestRenderInvoicePDF(t *testing.T) {
	doc := InvoiceDocument{
		Facture: models.Facture{
			NumeroFacture: "F-2026-001",
			DateEmission:  "2026-10-19",
			DateEcheance:  "2026-11-18",
			MontantHT:     decimal.NewFromInt(600),
			TVA:           decimal.NewFromInt(120),
			MontantTTC:    decimal.NewFromInt(720),
			Statut:        models.InvoiceSent,
		},
		Prestation: models.Prestation{DatePrestation: "2026-10-19", HeureDebut: "08:00", HeureFin: "12:00", NbManutentionnaires: 4, NbCamions: 1},
		Site:       models.Site{NomSite: "Entrepôt Central", Ville: "Paris", Adresse: "12 rue de la Logistique", ContactNom: "Jean Dupont"},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderInvoicePDF(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestFormatEuroRoundsAndUsesPlainSpaces(t *testing.T) {
	got := FormatEuro(decimal.RequireFromString("98765.005"))
	assert.Equal(t, "98 765,01 €", got)
	assert.NotContains(t, got, "\u00a0")
	assert.NotContains(t, got, "\u202f")
	assert.Equal(t, "0,00 €", FormatEuro(decimal.Zero))
}
