package database

import (
	"context"
	"testing"
	"time"

	"mon-auxiliaire/internal/auth"
	"mon-auxiliaire/internal/models"
	"mon-auxiliaire/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeedAdminIsIdempotent(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, SeedAdmin(ctx, st, "", "", zap.NewNop()))
	require.NoError(t, SeedAdmin(ctx, st, "", "", zap.NewNop()))

	users, err := st.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, DefaultAdminUsername, users[0].Username)
	assert.True(t, auth.CheckPassword(users[0].PasswordHash, DefaultAdminPassword))
}

func TestSeedAdminSkipsWhenAnAdminExists(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	svc := auth.NewService(st, auth.NewTokenIssuer("secret", time.Hour))

	require.NoError(t, SeedAdmin(ctx, st, "", "", zap.NewNop()))
	admin, err := st.UserByUsername(ctx, DefaultAdminUsername)
	require.NoError(t, err)

	renamed := "patron"
	_, err = svc.UpdateProfile(ctx, admin.ID, auth.ProfileUpdate{Username: &renamed})
	require.NoError(t, err)

	// redémarrage sur un magasin persistant
	require.NoError(t, SeedAdmin(ctx, st, "", "", zap.NewNop()))

	users, err := st.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "patron", users[0].Username)

	_, _, err = svc.Login(ctx, DefaultAdminUsername, DefaultAdminPassword)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestSeedAdminKeepsNonAdminUsername(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	lecteur := models.User{Username: DefaultAdminUsername, PasswordHash: "x", Role: models.RoleLecteur}
	require.NoError(t, st.Users().Create(ctx, &lecteur))

	require.NoError(t, SeedAdmin(ctx, st, "", "", zap.NewNop()))

	users, err := st.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleLecteur, users[0].Role)
}

func TestSeedDemo(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	require.NoError(t, SeedDemo(ctx, st, now, zap.NewNop()))
	require.NoError(t, SeedDemo(ctx, st, now, zap.NewNop()))

	sites, err := st.Sites().List(ctx)
	require.NoError(t, err)
	assert.Len(t, sites, 3)

	prestations, err := st.Prestations().List(ctx)
	require.NoError(t, err)
	require.Len(t, prestations, 2)
	for _, p := range prestations {
		assert.Equal(t, "2026-10-19", p.DatePrestation)
	}

	affectations, err := st.AffectationsByPrestation(ctx, prestations[0].ID)
	require.NoError(t, err)
	assert.Len(t, affectations, 1)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "dsn", zap.NewNop())
	assert.Error(t, err)
}
