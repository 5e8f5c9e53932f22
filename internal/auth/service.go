package auth

import (
	"context"
	"errors"
	"fmt"

	"mon-auxiliaire/internal/models"
	"mon-auxiliaire/internal/store"
)

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrDuplicateUsername      = errors.New("username already exists")
	ErrInvalidCurrentPassword = errors.New("invalid current password")
	ErrUserNotFound           = errors.New("user not found")
)

type Service struct {
	store  store.Store
	tokens *TokenIssuer
}

func NewService(st store.Store, tokens *TokenIssuer) *Service {
	return &Service{store: st, tokens: tokens}
}

func (s *Service) Tokens() *TokenIssuer { return s.tokens }

// Login vérifie les identifiants et renvoie l'utilisateur avec un jeton signé.
func (s *Service) Login(ctx context.Context, username, password string) (models.User, string, error) {
	u, err := s.store.UserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("find user: %w", err)
	}
	if !CheckPassword(u.PasswordHash, password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return models.User{}, "", err
	}
	return u, token, nil
}

type RegisterInput struct {
	Username string
	Password string
	Email    string
	Role     models.UserRole
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	if err := s.ensureUsernameFree(ctx, in.Username, 0); err != nil {
		return models.User{}, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = models.RoleGestionnaire
	}
	u := models.User{
		Username:     in.Username,
		PasswordHash: hash,
		Email:        in.Email,
		Role:         role,
	}
	if err := s.store.Users().Create(ctx, &u); err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Service) Profile(ctx context.Context, id uint) (models.User, error) {
	u, err := s.store.Users().Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

type ProfileUpdate struct {
	Username        *string
	Email           *string
	CurrentPassword string
	NewPassword     string
}

// UpdateProfile modifie le profil; changer de mot de passe exige le mot de passe actuel.
func (s *Service) UpdateProfile(ctx context.Context, id uint, in ProfileUpdate) (models.User, error) {
	u, err := s.Profile(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	patch := models.UserPatch{Username: in.Username, Email: in.Email}
	if in.Username != nil {
		if err := s.ensureUsernameFree(ctx, *in.Username, id); err != nil {
			return models.User{}, err
		}
	}

	if in.NewPassword != "" {
		if in.CurrentPassword == "" || !CheckPassword(u.PasswordHash, in.CurrentPassword) {
			return models.User{}, ErrInvalidCurrentPassword
		}
		hash, err := HashPassword(in.NewPassword)
		if err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}

	updated, err := s.store.Users().Update(ctx, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return updated, err
}

func (s *Service) ensureUsernameFree(ctx context.Context, username string, self uint) error {
	existing, err := s.store.UserByUsername(ctx, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check username: %w", err)
	case existing.ID != self:
		return ErrDuplicateUsername
	default:
		return nil
	}
}
