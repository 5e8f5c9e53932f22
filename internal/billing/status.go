// Package billing regroupe les règles de facturation: cohérence entre statut de
// prestation et statut de paiement, montant estimé, numérotation et PDF des factures.
package billing

import (
	"time"

	"mon-auxiliaire/internal/models"
)

// SyncStatus renvoie le couple (statut prestation, statut paiement) cohérent.
// La première règle applicable l'emporte.
func SyncStatus(job models.JobStatus, payment models.PaymentStatus) (models.JobStatus, models.PaymentStatus) {
	switch {
	case job == models.JobCancelled:
		return models.JobCancelled, models.PaymentCancelled
	case payment == models.PaymentPaid:
		return models.JobDone, models.PaymentPaid
	case payment == models.PaymentLate:
		return models.JobDone, models.PaymentLate
	case job == models.JobDone:
		return models.JobDone, models.PaymentPending
	default:
		return job, models.PaymentPending
	}
}

// PairForInvoiceStatus traduit un statut de facture en couple de statuts pour la
// prestation liée, avant passage par SyncStatus.
func PairForInvoiceStatus(status models.InvoiceStatus, current models.JobStatus) (models.JobStatus, models.PaymentStatus) {
	switch status {
	case models.InvoiceDraft:
		return models.JobPlanned, models.PaymentPending
	case models.InvoiceSent:
		return models.JobInProgress, models.PaymentPending
	case models.InvoicePaid:
		return models.JobDone, models.PaymentPaid
	case models.InvoiceOverdue:
		return current, models.PaymentLate
	default:
		return current, models.PaymentPending
	}
}

type PaymentLabel string

const (
	LabelCancelled PaymentLabel = "cancelled"
	LabelPaid      PaymentLabel = "paid"
	LabelLate      PaymentLabel = "late"
	LabelPending   PaymentLabel = "pending"
	LabelUnpaid    PaymentLabel = "unpaid"
)

// LabelFor calcule l'étiquette de paiement affichée; dueDate peut être vide.
func LabelFor(job models.JobStatus, payment models.PaymentStatus, dueDate string, now time.Time) PaymentLabel {
	switch {
	case job == models.JobCancelled:
		return LabelCancelled
	case payment == models.PaymentPaid:
		return LabelPaid
	case payment == models.PaymentLate || isPast(dueDate, now):
		return LabelLate
	case job == models.JobDone:
		return LabelPending
	default:
		return LabelUnpaid
	}
}

func isPast(date string, now time.Time) bool {
	if date == "" {
		return false
	}
	d, err := time.ParseInLocation(models.DateLayout, date, now.Location())
	if err != nil {
		return false
	}
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	return d.Before(today)
}

func (l PaymentLabel) Text() string {
	switch l {
	case LabelCancelled:
		return "Annulé"
	case LabelPaid:
		return "Payé"
	case LabelLate:
		return "En retard"
	case LabelPending:
		return "En attente de paiement"
	default:
		return "Non payé"
	}
}

// Color est la couleur de l'événement dans le calendrier.
func (l PaymentLabel) Color() string {
	switch l {
	case LabelCancelled:
		return "#9ca3af"
	case LabelPaid:
		return "#22c55e"
	case LabelLate:
		return "#ef4444"
	case LabelPending:
		return "#f97316"
	default:
		return "#3b82f6"
	}
}
