package billing

import (
	"fmt"
	"strconv"
	"strings"
)

// NextInvoiceNumber renvoie le prochain numéro F-<année>-<NNN> pour l'année donnée,
// à partir des numéros déjà attribués.
func NextInvoiceNumber(existing []string, year int) string {
	prefix := fmt.Sprintf("F-%d-", year)
	last := 0
	for _, num := range existing {
		rest, ok := strings.CutPrefix(num, prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > last {
			last = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, last+1)
}
