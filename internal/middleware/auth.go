package middleware

import (
	"strings"

	"mon-auxiliaire/internal/apperr"
	"mon-auxiliaire/internal/auth"
	"mon-auxiliaire/internal/models"

	"github.com/gin-gonic/gin"
)

// RequireAuth exige un en-tête "Authorization: Bearer <jeton>" valide.
// Absent ou mal formé: 401. Jeton refusé (expiré, signature, algorithme): 403.
func RequireAuth(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abort(c, apperr.Unauthenticated("Authentification requise"))
			return
		}

		id, err := tokens.Verify(token)
		if err != nil {
			abort(c, apperr.InvalidToken("Token invalide ou expiré", err))
			return
		}

		setIdentity(c, id)
		c.Next()
	}
}

func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			abort(c, apperr.Unauthenticated("Authentification requise"))
			return
		}

		if _, ok := roleSet[id.Role]; !ok {
			abort(c, apperr.Forbidden("Accès refusé"))
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	status, body := apperr.From(err)
	c.AbortWithStatusJSON(status, body)
}
