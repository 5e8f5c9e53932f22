package models

import "github.com/shopspring/decimal"

type Employe struct {
	Base
	Nom               string              `gorm:"size:50;not null" json:"nom"`
	Prenom            string              `gorm:"size:50;not null" json:"prenom"`
	Telephone         string              `gorm:"size:20" json:"telephone"`
	SalaireJournalier decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"salaireJournalier"`
	Specialite        string              `gorm:"size:100" json:"specialite"`
	Actif             bool                `gorm:"not null" json:"actif"`
}

func (e Employe) FullName() string {
	return e.Prenom + " " + e.Nom
}

type EmployePatch struct {
	Nom               *string          `json:"nom" binding:"omitempty,min=1,max=50"`
	Prenom            *string          `json:"prenom" binding:"omitempty,min=1,max=50"`
	Telephone         *string          `json:"telephone" binding:"omitempty,max=20"`
	SalaireJournalier *decimal.Decimal `json:"salaireJournalier"`
	Specialite        *string          `json:"specialite" binding:"omitempty,max=100"`
	Actif             *bool            `json:"actif"`
}

func (p *EmployePatch) Normalize() {
	for _, s := range []*string{p.Nom, p.Prenom, p.Telephone, p.Specialite} {
		trim(s)
	}
}

func (p EmployePatch) Apply(e *Employe) {
	if p.Nom != nil {
		e.Nom = *p.Nom
	}
	if p.Prenom != nil {
		e.Prenom = *p.Prenom
	}
	if p.Telephone != nil {
		e.Telephone = *p.Telephone
	}
	if p.SalaireJournalier != nil {
		e.SalaireJournalier = decimal.NewNullDecimal(*p.SalaireJournalier)
	}
	if p.Specialite != nil {
		e.Specialite = *p.Specialite
	}
	if p.Actif != nil {
		e.Actif = *p.Actif
	}
}
