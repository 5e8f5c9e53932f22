// Package store définit l'accès aux données et ses deux implémentations:
// une mémoire locale au processus et une base relationnelle via gorm.
package store

import (
	"context"
	"errors"

	"mon-auxiliaire/internal/models"
)

var ErrNotFound = errors.New("record not found")

// Repository regroupe les opérations CRUD d'une entité.
// Update renvoie ErrNotFound sans rien modifier si l'id est inconnu,
// Delete renvoie false dans ce cas.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint) (T, error)
	Create(ctx context.Context, v *T) error
	Update(ctx context.Context, id uint, patch models.Patch[T]) (T, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type Store interface {
	Users() Repository[models.User]
	Sites() Repository[models.Site]
	Prestations() Repository[models.Prestation]
	Employes() Repository[models.Employe]
	Affectations() Repository[models.Affectation]
	Vehicules() Repository[models.Vehicule]
	Factures() Repository[models.Facture]
	AuditLogs() Repository[models.AuditLog]

	UserByUsername(ctx context.Context, username string) (models.User, error)
	PrestationsBySite(ctx context.Context, siteID uint) ([]models.Prestation, error)
	AffectationsByPrestation(ctx context.Context, prestationID uint) ([]models.Affectation, error)
	AffectationsByEmploye(ctx context.Context, employeID uint) ([]models.Affectation, error)
	FactureByPrestation(ctx context.Context, prestationID uint) (models.Facture, error)

	// Transaction exécute fn sur un magasin transactionnel: si fn renvoie une
	// erreur, ses écritures sont annulées (gorm).
	Transaction(ctx context.Context, fn func(tx Store) error) error

	Close() error
}
