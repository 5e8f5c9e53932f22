package handlers

import (
	"time"

	"mon-auxiliaire/internal/auth"
	"mon-auxiliaire/internal/store"

	"go.uber.org/zap"
)

// Handler porte les dépendances partagées par tous les handlers HTTP.
type Handler struct {
	store store.Store
	auth  *auth.Service
	log   *zap.Logger
	now   func() time.Time
}

type Option func(*Handler)

// WithClock fixe l'horloge (tests, tableau de bord).
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

func New(st store.Store, authSvc *auth.Service, log *zap.Logger, opts ...Option) *Handler {
	setupValidator()

	h := &Handler{store: st, auth: authSvc, log: log, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
