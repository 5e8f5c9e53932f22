package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"mon-auxiliaire/internal/models"
)

type record[T any] interface {
	*T
	models.Record
}

// table est une collection en mémoire protégée par un RWMutex.
// Les ids sont attribués de façon croissante et jamais réutilisés.
type table[T any, PT record[T]] struct {
	mu   sync.RWMutex
	rows map[uint]T
	next uint
	now  func() time.Time
}

func newTable[T any, PT record[T]](now func() time.Time) *table[T, PT] {
	return &table[T, PT]{rows: make(map[uint]T), next: 1, now: now}
}

func (t *table[T, PT]) List(_ context.Context) ([]T, error) {
	return t.where(func(T) bool { return true }), nil
}

func (t *table[T, PT]) where(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]uint, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if row := t.rows[id]; keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func (t *table[T, PT]) Get(_ context.Context, id uint) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return row, nil
}

func (t *table[T, PT]) Create(_ context.Context, v *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec := PT(v)
	rec.SetID(t.next)
	t.next++
	rec.Stamp(t.now())
	t.rows[rec.GetID()] = *v
	return nil
}

func (t *table[T, PT]) Update(_ context.Context, id uint, patch models.Patch[T]) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	patch.Apply(&row)
	PT(&row).SetID(id)
	t.rows[id] = row
	return row, nil
}

func (t *table[T, PT]) Delete(_ context.Context, id uint) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false, nil
	}
	delete(t.rows, id)
	return true, nil
}

// Memory garde toutes les données dans le processus; elles sont perdues à l'arrêt.
type Memory struct {
	users        *table[models.User, *models.User]
	sites        *table[models.Site, *models.Site]
	prestations  *table[models.Prestation, *models.Prestation]
	employes     *table[models.Employe, *models.Employe]
	affectations *table[models.Affectation, *models.Affectation]
	vehicules    *table[models.Vehicule, *models.Vehicule]
	factures     *table[models.Facture, *models.Facture]
	auditLogs    *table[models.AuditLog, *models.AuditLog]

	txMu sync.Mutex
}

func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{
		users:        newTable[models.User](now),
		sites:        newTable[models.Site](now),
		prestations:  newTable[models.Prestation](now),
		employes:     newTable[models.Employe](now),
		affectations: newTable[models.Affectation](now),
		vehicules:    newTable[models.Vehicule](now),
		factures:     newTable[models.Facture](now),
		auditLogs:    newTable[models.AuditLog](now),
	}
}

func (m *Memory) Users() Repository[models.User]               { return m.users }
func (m *Memory) Sites() Repository[models.Site]               { return m.sites }
func (m *Memory) Prestations() Repository[models.Prestation]   { return m.prestations }
func (m *Memory) Employes() Repository[models.Employe]         { return m.employes }
func (m *Memory) Affectations() Repository[models.Affectation] { return m.affectations }
func (m *Memory) Vehicules() Repository[models.Vehicule]       { return m.vehicules }
func (m *Memory) Factures() Repository[models.Facture]         { return m.factures }
func (m *Memory) AuditLogs() Repository[models.AuditLog]       { return m.auditLogs }

func (m *Memory) UserByUsername(_ context.Context, username string) (models.User, error) {
	rows := m.users.where(func(u models.User) bool {
		return strings.EqualFold(u.Username, username)
	})
	if len(rows) == 0 {
		return models.User{}, ErrNotFound
	}
	return rows[0], nil
}

func (m *Memory) PrestationsBySite(_ context.Context, siteID uint) ([]models.Prestation, error) {
	return m.prestations.where(func(p models.Prestation) bool { return p.SiteID == siteID }), nil
}

func (m *Memory) AffectationsByPrestation(_ context.Context, prestationID uint) ([]models.Affectation, error) {
	return m.affectations.where(func(a models.Affectation) bool { return a.PrestationID == prestationID }), nil
}

func (m *Memory) AffectationsByEmploye(_ context.Context, employeID uint) ([]models.Affectation, error) {
	return m.affectations.where(func(a models.Affectation) bool { return a.EmployeID == employeID }), nil
}

func (m *Memory) FactureByPrestation(_ context.Context, prestationID uint) (models.Facture, error) {
	rows := m.factures.where(func(f models.Facture) bool { return f.PrestationID == prestationID })
	if len(rows) == 0 {
		return models.Facture{}, ErrNotFound
	}
	return rows[0], nil
}

// Transaction sérialise les blocs transactionnels sans retour arrière: une écriture
// mémoire n'échoue que sur un id inconnu, que les appelants vérifient avant d'écrire.
func (m *Memory) Transaction(_ context.Context, fn func(tx Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(m)
}

func (m *Memory) Close() error { return nil }
