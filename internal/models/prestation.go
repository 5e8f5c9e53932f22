package models

import "github.com/shopspring/decimal"

type JobStatus string

const (
	JobPlanned    JobStatus = "planifie"
	JobInProgress JobStatus = "en_cours"
	JobDone       JobStatus = "termine"
	JobCancelled  JobStatus = "annule"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "en_attente"
	PaymentPaid      PaymentStatus = "paye"
	PaymentLate      PaymentStatus = "retard"
	PaymentCancelled PaymentStatus = "annule"
)

type Prestation struct {
	Base
	SiteID              uint                `gorm:"not null;index" json:"siteId"`
	DatePrestation      string              `gorm:"size:10;not null;index" json:"datePrestation"`
	HeureDebut          string              `gorm:"size:5" json:"heureDebut"`
	HeureFin            string              `gorm:"size:5" json:"heureFin"`
	NbManutentionnaires int                 `gorm:"not null" json:"nbManutentionnaires"`
	NbCamions           int                 `gorm:"not null" json:"nbCamions"`
	MontantPrevu        decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"montantPrevu"`
	MontantFacture      decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"montantFacture"`
	StatutPaiement      PaymentStatus       `gorm:"type:varchar(20);not null" json:"statutPaiement"`
	StatutPrestation    JobStatus           `gorm:"type:varchar(20);not null" json:"statutPrestation"`
	Notes               string              `gorm:"type:text" json:"notes"`
}

type PrestationPatch struct {
	SiteID              *uint            `json:"siteId" binding:"omitempty,min=1"`
	DatePrestation      *string          `json:"datePrestation" binding:"omitempty,datetime=2006-01-02"`
	HeureDebut          *string          `json:"heureDebut" binding:"omitempty,datetime=15:04"`
	HeureFin            *string          `json:"heureFin" binding:"omitempty,datetime=15:04"`
	NbManutentionnaires *int             `json:"nbManutentionnaires" binding:"omitempty,min=1"`
	NbCamions           *int             `json:"nbCamions" binding:"omitempty,min=0"`
	MontantPrevu        *decimal.Decimal `json:"montantPrevu"`
	MontantFacture      *decimal.Decimal `json:"montantFacture"`
	StatutPaiement      *PaymentStatus   `json:"statutPaiement" binding:"omitempty,oneof=en_attente paye retard annule"`
	StatutPrestation    *JobStatus       `json:"statutPrestation" binding:"omitempty,oneof=planifie en_cours termine annule"`
	Notes               *string          `json:"notes"`
}

func (p *PrestationPatch) Normalize() {
	for _, s := range []*string{p.DatePrestation, p.HeureDebut, p.HeureFin} {
		trim(s)
	}
}

// TouchesStatus indique si le patch modifie l'un des deux statuts.
func (p PrestationPatch) TouchesStatus() bool {
	return p.StatutPaiement != nil || p.StatutPrestation != nil
}

func (p PrestationPatch) Apply(pr *Prestation) {
	if p.SiteID != nil {
		pr.SiteID = *p.SiteID
	}
	if p.DatePrestation != nil {
		pr.DatePrestation = *p.DatePrestation
	}
	if p.HeureDebut != nil {
		pr.HeureDebut = *p.HeureDebut
	}
	if p.HeureFin != nil {
		pr.HeureFin = *p.HeureFin
	}
	if p.NbManutentionnaires != nil {
		pr.NbManutentionnaires = *p.NbManutentionnaires
	}
	if p.NbCamions != nil {
		pr.NbCamions = *p.NbCamions
	}
	if p.MontantPrevu != nil {
		pr.MontantPrevu = decimal.NewNullDecimal(*p.MontantPrevu)
	}
	if p.MontantFacture != nil {
		pr.MontantFacture = decimal.NewNullDecimal(*p.MontantFacture)
	}
	if p.StatutPaiement != nil {
		pr.StatutPaiement = *p.StatutPaiement
	}
	if p.StatutPrestation != nil {
		pr.StatutPrestation = *p.StatutPrestation
	}
	if p.Notes != nil {
		pr.Notes = *p.Notes
	}
}
