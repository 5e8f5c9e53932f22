// Package sanitize nettoie les champs de texte libre avant enregistrement.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text retire tout balisage HTML et les espaces en bordure.
// Le texte est ensuite déséchappé: l'API renvoie du JSON, pas du HTML.
func Text(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Ptr applique Text à un champ optionnel d'un patch.
func Ptr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := Text(*s)
	return &clean
}
