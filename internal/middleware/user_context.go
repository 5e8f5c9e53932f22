package middleware

import (
	"mon-auxiliaire/internal/auth"

	"github.com/gin-gonic/gin"
)

const identityKey = "CurrentUser"

func setIdentity(c *gin.Context, id auth.Identity) {
	c.Set(identityKey, id)
}

// CurrentIdentity renvoie l'utilisateur posé par RequireAuth.
func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}
