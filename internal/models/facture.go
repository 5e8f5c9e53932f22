package models

import "github.com/shopspring/decimal"

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "brouillon"
	InvoiceSent    InvoiceStatus = "envoyee"
	InvoicePaid    InvoiceStatus = "payee"
	InvoiceOverdue InvoiceStatus = "en_retard"
)

type Facture struct {
	Base
	PrestationID  uint            `gorm:"not null;index" json:"prestationId"`
	NumeroFacture string          `gorm:"uniqueIndex;size:50;not null" json:"numeroFacture"`
	DateEmission  string          `gorm:"size:10;not null" json:"dateEmission"`
	DateEcheance  string          `gorm:"size:10" json:"dateEcheance"`
	MontantHT     decimal.Decimal `gorm:"column:montant_ht;type:numeric(10,2);not null" json:"montantHt"`
	TVA           decimal.Decimal `gorm:"column:tva;type:numeric(10,2);not null" json:"tva"`
	MontantTTC    decimal.Decimal `gorm:"column:montant_ttc;type:numeric(10,2);not null" json:"montantTtc"`
	Statut        InvoiceStatus   `gorm:"type:varchar(20);not null" json:"statut"`
	FichierPDF    string          `gorm:"column:fichier_pdf;type:text" json:"fichierPdf"`
}

type FacturePatch struct {
	NumeroFacture *string          `json:"numeroFacture" binding:"omitempty,min=1,max=50"`
	DateEmission  *string          `json:"dateEmission" binding:"omitempty,datetime=2006-01-02"`
	DateEcheance  *string          `json:"dateEcheance" binding:"omitempty,datetime=2006-01-02"`
	MontantHT     *decimal.Decimal `json:"montantHt"`
	TVA           *decimal.Decimal `json:"tva"`
	MontantTTC    *decimal.Decimal `json:"montantTtc"`
	Statut        *InvoiceStatus   `json:"statut" binding:"omitempty,oneof=brouillon envoyee payee en_retard"`
	FichierPDF    *string          `json:"fichierPdf"`
}

func (p *FacturePatch) Normalize() {
	for _, s := range []*string{p.NumeroFacture, p.DateEmission, p.DateEcheance, p.FichierPDF} {
		trim(s)
	}
}

func (p FacturePatch) Apply(f *Facture) {
	if p.NumeroFacture != nil {
		f.NumeroFacture = *p.NumeroFacture
	}
	if p.DateEmission != nil {
		f.DateEmission = *p.DateEmission
	}
	if p.DateEcheance != nil {
		f.DateEcheance = *p.DateEcheance
	}
	if p.MontantHT != nil {
		f.MontantHT = *p.MontantHT
	}
	if p.TVA != nil {
		f.TVA = *p.TVA
	}
	if p.MontantTTC != nil {
		f.MontantTTC = *p.MontantTTC
	}
	if p.Statut != nil {
		f.Statut = *p.Statut
	}
	if p.FichierPDF != nil {
		f.FichierPDF = *p.FichierPDF
	}
}
