package billing

import (
	"strings"

	"mon-auxiliaire/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var frPrinter = message.NewPrinter(language.French)

// espaces insécables du séparateur de milliers: le PDF (cp1252) ne les rend pas
var plainSpaces = strings.NewReplacer("\u00a0", " ", "\u202f", " ")

// FormatEuro formate un montant à la française: "1 250,50 €".
func FormatEuro(d decimal.Decimal) string {
	r := d.Round(2)
	s := plainSpaces.Replace(frPrinter.Sprintf("%v", number.Decimal(r.Abs().InexactFloat64(), number.Scale(2))))
	if r.IsNegative() {
		s = "-" + s
	}
	return s + " €"
}

// FormatDate convertit YYYY-MM-DD en JJ/MM/AAAA; une date invalide est renvoyée telle quelle.
func FormatDate(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 || len(date) != len(models.DateLayout) {
		return date
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
