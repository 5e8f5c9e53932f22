package models

import (
	"strings"
	"time"
)

// Base porte l'identifiant et la date de création communs à toutes les entités.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

func (b *Base) GetID() uint { return b.ID }

func (b *Base) SetID(id uint) { b.ID = id }

// Stamp fixe CreatedAt si la valeur n'a pas encore été posée.
func (b *Base) Stamp(t time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = t
	}
}

type Record interface {
	GetID() uint
	SetID(id uint)
	Stamp(t time.Time)
}

// Patch applique une mise à jour partielle sur une entité.
type Patch[T any] interface {
	Apply(*T)
}

// trim retire les espaces autour d'une valeur optionnelle.
func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// All liste les entités persistées, dans l'ordre de migration.
func All() []any {
	return []any{
		&User{},
		&Site{},
		&Prestation{},
		&Employe{},
		&Affectation{},
		&Vehicule{},
		&Facture{},
		&AuditLog{},
	}
}
