package models

import "github.com/shopspring/decimal"

type Site struct {
	Base
	NomSite          string              `gorm:"size:100;not null" json:"nomSite"`
	Ville            string              `gorm:"size:50;not null" json:"ville"`
	Adresse          string              `gorm:"type:text;not null" json:"adresse"`
	ContactNom       string              `gorm:"size:100" json:"contactNom"`
	ContactTelephone string              `gorm:"size:20" json:"contactTelephone"`
	ContactEmail     string              `gorm:"size:100" json:"contactEmail"`
	TarifHoraire     decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"tarifHoraire"`
	Notes            string              `gorm:"type:text" json:"notes"`
	Actif            bool                `gorm:"not null" json:"actif"`
}

type SitePatch struct {
	NomSite          *string          `json:"nomSite" binding:"omitempty,min=1,max=100"`
	Ville            *string          `json:"ville" binding:"omitempty,min=1,max=50"`
	Adresse          *string          `json:"adresse" binding:"omitempty,min=1"`
	ContactNom       *string          `json:"contactNom" binding:"omitempty,max=100"`
	ContactTelephone *string          `json:"contactTelephone" binding:"omitempty,max=20"`
	ContactEmail     *string          `json:"contactEmail" binding:"omitempty,email,max=100"`
	TarifHoraire     *decimal.Decimal `json:"tarifHoraire"`
	Notes            *string          `json:"notes"`
	Actif            *bool            `json:"actif"`
}

// Normalize retire les espaces des champs texte avant validation.
func (p *SitePatch) Normalize() {
	for _, s := range []*string{p.NomSite, p.Ville, p.Adresse, p.ContactNom, p.ContactTelephone, p.ContactEmail} {
		trim(s)
	}
}

func (p SitePatch) Apply(s *Site) {
	if p.NomSite != nil {
		s.NomSite = *p.NomSite
	}
	if p.Ville != nil {
		s.Ville = *p.Ville
	}
	if p.Adresse != nil {
		s.Adresse = *p.Adresse
	}
	if p.ContactNom != nil {
		s.ContactNom = *p.ContactNom
	}
	if p.ContactTelephone != nil {
		s.ContactTelephone = *p.ContactTelephone
	}
	if p.ContactEmail != nil {
		s.ContactEmail = *p.ContactEmail
	}
	if p.TarifHoraire != nil {
		s.TarifHoraire = decimal.NewNullDecimal(*p.TarifHoraire)
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	if p.Actif != nil {
		s.Actif = *p.Actif
	}
}
