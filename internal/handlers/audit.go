package handlers

import (
	"net/http"

	"mon-auxiliaire/internal/middleware"
	"mon-auxiliaire/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const auditListLimit = 200

// audit consigne une action de l'utilisateur courant. Un échec d'écriture est
// journalisé sans faire échouer la requête.
func (h *Handler) audit(c *gin.Context, entity string, entityID uint, action, details string) {
	id, _ := middleware.CurrentIdentity(c)
	record := models.AuditLog{
		UserID:   id.UserID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if err := h.store.AuditLogs().Create(c.Request.Context(), &record); err != nil {
		h.log.Warn("audit log write failed",
			zap.Error(err),
			zap.String("entity", entity),
			zap.Uint("entity_id", entityID),
			zap.String("action", action),
		)
	}
}

// ListAuditLogs renvoie les dernières entrées du journal, les plus récentes d'abord.
func (h *Handler) ListAuditLogs(c *gin.Context) {
	logs, err := h.store.AuditLogs().List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]models.AuditLog, 0, min(len(logs), auditListLimit))
	for i := len(logs) - 1; i >= 0 && len(out) < auditListLimit; i-- {
		out = append(out, logs[i])
	}
	c.JSON(http.StatusOK, out)
}
