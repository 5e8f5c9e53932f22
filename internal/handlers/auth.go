package handlers

import (
	"errors"
	"net/http"
	"strings"

	"mon-auxiliaire/internal/apperr"
	"mon-auxiliaire/internal/auth"
	"mon-auxiliaire/internal/middleware"
	"mon-auxiliaire/internal/models"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string          `json:"username" binding:"required,min=3,max=50"`
	Password string          `json:"password" binding:"required,min=6,notblank"`
	Email    string          `json:"email" binding:"omitempty,email,max=100"`
	Role     models.UserRole `json:"role" binding:"omitempty,oneof=gestionnaire lecteur"`
}

type profileRequest struct {
	Username        *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email           *string `json:"email" binding:"omitempty,email,max=100"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword" binding:"omitempty,min=6,notblank"`
}

// les mots de passe sont pris tels quels
func (r *registerRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

func (r *profileRequest) Normalize() {
	for _, s := range []*string{r.Username, r.Email} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		h.fail(c, apperr.Validation("Nom d'utilisateur et mot de passe requis"))
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), strings.TrimSpace(req.Username), req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.fail(c, apperr.Unauthenticated("Identifiants invalides"))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), auth.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Role:     req.Role,
	})
	if errors.Is(err, auth.ErrDuplicateUsername) {
		h.fail(c, apperr.Conflict("Ce nom d'utilisateur existe déjà"))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) GetProfile(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)

	user, err := h.auth.Profile(c.Request.Context(), id.UserID)
	if errors.Is(err, auth.ErrUserNotFound) {
		h.fail(c, apperr.NotFound("Utilisateur non trouvé"))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)

	var req profileRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), id.UserID, auth.ProfileUpdate{
		Username:        req.Username,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		h.fail(c, apperr.NotFound("Utilisateur non trouvé"))
		return
	case errors.Is(err, auth.ErrDuplicateUsername):
		h.fail(c, apperr.Conflict("Ce nom d'utilisateur existe déjà"))
		return
	case errors.Is(err, auth.ErrInvalidCurrentPassword):
		h.fail(c, apperr.Validation("Mot de passe actuel incorrect",
			apperr.FieldError{Field: "currentPassword", Message: "Mot de passe actuel incorrect"}))
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	h.audit(c, "user", user.ID, "update_profile", "Profil mis à jour")
	c.JSON(http.StatusOK, user)
}
