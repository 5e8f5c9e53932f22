package models

type AuditLog struct {
	Base

	UserID uint `gorm:"index" json:"userId"`

	Entity   string `gorm:"size:50;not null" json:"entity"` // "site", "prestation", "facture"...
	EntityID uint   `json:"entityId"`
	Action   string `gorm:"size:50;not null" json:"action"` // "create", "paiement", "delete"...
	Details  string `gorm:"type:text" json:"details"`
}
