package billing

import (
	"fmt"
	"io"

	"mon-auxiliaire/internal/models"

	"github.com/go-pdf/fpdf"
)

const companyName = "Mon Auxiliaire"

// InvoiceDocument rassemble ce qu'il faut pour imprimer une facture.
type InvoiceDocument struct {
	Facture    models.Facture
	Prestation models.Prestation
	Site       models.Site
}

// RenderInvoicePDF écrit la facture au format A4 dans w.
func RenderInvoicePDF(w io.Writer, doc InvoiceDocument) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Facture %s", doc.Facture.NumeroFacture), true)
	pdf.SetAuthor(companyName, true)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// polices standard en cp1252, pour les accents et le symbole euro
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(30, 64, 175)
	pdf.CellFormat(0, 12, "FACTURE", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 5, tr(companyName+" - Services de manutention et déménagement"), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetTextColor(0, 0, 0)
	section(pdf, tr, "Informations facture")
	line(pdf, tr, "Numéro", doc.Facture.NumeroFacture)
	line(pdf, tr, "Date d'émission", FormatDate(doc.Facture.DateEmission))
	if doc.Facture.DateEcheance != "" {
		line(pdf, tr, "Date d'échéance", FormatDate(doc.Facture.DateEcheance))
	}
	line(pdf, tr, "Statut", invoiceStatusText(doc.Facture.Statut))
	pdf.Ln(4)

	section(pdf, tr, "Client")
	line(pdf, tr, "Site", doc.Site.NomSite)
	line(pdf, tr, "Adresse", doc.Site.Adresse)
	line(pdf, tr, "Ville", doc.Site.Ville)
	if doc.Site.ContactNom != "" {
		line(pdf, tr, "Contact", doc.Site.ContactNom)
	}
	if doc.Site.ContactEmail != "" {
		line(pdf, tr, "E-mail", doc.Site.ContactEmail)
	}
	pdf.Ln(4)

	section(pdf, tr, "Détails de la prestation")
	line(pdf, tr, "Date", FormatDate(doc.Prestation.DatePrestation))
	if doc.Prestation.HeureDebut != "" && doc.Prestation.HeureFin != "" {
		line(pdf, tr, "Horaires", doc.Prestation.HeureDebut+" - "+doc.Prestation.HeureFin)
	}
	line(pdf, tr, "Manutentionnaires", fmt.Sprintf("%d", doc.Prestation.NbManutentionnaires))
	line(pdf, tr, "Camions", fmt.Sprintf("%d", doc.Prestation.NbCamions))
	pdf.Ln(4)

	section(pdf, tr, "Montants")
	amount(pdf, tr, "Montant HT", FormatEuro(doc.Facture.MontantHT), false)
	amount(pdf, tr, "TVA", FormatEuro(doc.Facture.TVA), false)
	amount(pdf, tr, "Montant TTC", FormatEuro(doc.Facture.MontantTTC), true)

	pdf.Ln(12)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 5, tr("Paiement à réception de facture. Merci de rappeler le numéro de facture lors de votre règlement."), "", "L", false)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render invoice %s: %w", doc.Facture.NumeroFacture, err)
	}
	return pdf.Output(w)
}

func section(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(239, 246, 255)
	pdf.CellFormat(0, 8, tr(title), "B", 1, "L", true, 0, "")
	pdf.Ln(2)
}

func line(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(50, 6, tr(label+" :"), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(value), "", 1, "L", false, 0, "")
}

func amount(pdf *fpdf.Fpdf, tr func(string) string, label, value string, total bool) {
	style := ""
	if total {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 11)
	pdf.CellFormat(120, 7, tr(label), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr(value), "", 1, "R", false, 0, "")
}

func invoiceStatusText(s models.InvoiceStatus) string {
	switch s {
	case models.InvoiceDraft:
		return "Brouillon"
	case models.InvoiceSent:
		return "Envoyée"
	case models.InvoicePaid:
		return "Payée"
	case models.InvoiceOverdue:
		return "En retard"
	default:
		return string(s)
	}
}
