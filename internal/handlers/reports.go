package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"mon-auxiliaire/internal/apperr"
	"mon-auxiliaire/internal/models"
	"mon-auxiliaire/internal/reports"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) ExportReport(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		in  reports.Input
		err error
	)
	if in.Sites, err = h.store.Sites().List(ctx); err != nil {
		h.fail(c, err)
		return
	}
	if in.Prestations, err = h.store.Prestations().List(ctx); err != nil {
		h.fail(c, err)
		return
	}
	if in.Factures, err = h.store.Factures().List(ctx); err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := reports.WriteWorkbook(&buf, in); err != nil {
		h.fail(c, apperr.Internal(err))
		return
	}

	name := fmt.Sprintf("export-%s.xlsx", h.now().Format(models.DateLayout))
	attachment(c, name)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
