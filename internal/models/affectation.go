package models

import "github.com/shopspring/decimal"

// Affectation rattache un employé à une prestation. Elle se crée et se supprime,
// elle n'est jamais modifiée.
type Affectation struct {
	Base
	PrestationID      uint                `gorm:"not null;index" json:"prestationId"`
	EmployeID         uint                `gorm:"not null;index" json:"employeId"`
	Present           bool                `gorm:"not null" json:"present"`
	HeuresTravaillees decimal.NullDecimal `gorm:"type:numeric(4,2)" json:"heuresTravaillees"`
}
