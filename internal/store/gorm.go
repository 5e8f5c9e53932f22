package store

import (
	"context"
	"errors"

	"mon-auxiliaire/internal/models"

	"gorm.io/gorm"
)

type gormRepo[T any] struct {
	db *gorm.DB
}

func (r gormRepo[T]) List(ctx context.Context) ([]T, error) {
	var rows []T
	if err := r.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

func (r gormRepo[T]) Get(ctx context.Context, id uint) (T, error) {
	var row T
	err := r.db.WithContext(ctx).First(&row, id).Error
	return row, notFound(err)
}

func (r gormRepo[T]) Create(ctx context.Context, v *T) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r gormRepo[T]) Update(ctx context.Context, id uint, patch models.Patch[T]) (T, error) {
	var row T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, id).Error; err != nil {
			return err
		}
		patch.Apply(&row)
		return tx.Save(&row).Error
	})
	if err != nil {
		var zero T
		return zero, notFound(err)
	}
	return row, nil
}

func (r gormRepo[T]) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Gorm stocke les entités dans une base relationnelle (PostgreSQL ou SQLite).
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) Users() Repository[models.User]               { return gormRepo[models.User]{db: g.db} }
func (g *Gorm) Sites() Repository[models.Site]               { return gormRepo[models.Site]{db: g.db} }
func (g *Gorm) Prestations() Repository[models.Prestation]   { return gormRepo[models.Prestation]{db: g.db} }
func (g *Gorm) Employes() Repository[models.Employe]         { return gormRepo[models.Employe]{db: g.db} }
func (g *Gorm) Affectations() Repository[models.Affectation] { return gormRepo[models.Affectation]{db: g.db} }
func (g *Gorm) Vehicules() Repository[models.Vehicule]       { return gormRepo[models.Vehicule]{db: g.db} }
func (g *Gorm) Factures() Repository[models.Facture]         { return gormRepo[models.Facture]{db: g.db} }
func (g *Gorm) AuditLogs() Repository[models.AuditLog]       { return gormRepo[models.AuditLog]{db: g.db} }

func (g *Gorm) UserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := g.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", username).
		First(&u).Error
	return u, notFound(err)
}

func (g *Gorm) PrestationsBySite(ctx context.Context, siteID uint) ([]models.Prestation, error) {
	rows := []models.Prestation{}
	err := g.db.WithContext(ctx).Where("site_id = ?", siteID).Order("id asc").Find(&rows).Error
	return rows, err
}

func (g *Gorm) AffectationsByPrestation(ctx context.Context, prestationID uint) ([]models.Affectation, error) {
	rows := []models.Affectation{}
	err := g.db.WithContext(ctx).Where("prestation_id = ?", prestationID).Order("id asc").Find(&rows).Error
	return rows, err
}

func (g *Gorm) AffectationsByEmploye(ctx context.Context, employeID uint) ([]models.Affectation, error) {
	rows := []models.Affectation{}
	err := g.db.WithContext(ctx).Where("employe_id = ?", employeID).Order("id asc").Find(&rows).Error
	return rows, err
}

func (g *Gorm) FactureByPrestation(ctx context.Context, prestationID uint) (models.Facture, error) {
	var f models.Facture
	err := g.db.WithContext(ctx).Where("prestation_id = ?", prestationID).Order("id asc").First(&f).Error
	return f, notFound(err)
}

func (g *Gorm) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
