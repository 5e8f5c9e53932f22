package billing

import (
	"errors"
	"time"

	"mon-auxiliaire/internal/models"

	"github.com/shopspring/decimal"
)

var ErrNegativeDuration = errors.New("end time is not after start time")

var minutesPerHour = decimal.NewFromInt(60)

// Estimate calcule tarif horaire × durée × nombre de manutentionnaires.
// ok vaut false si le tarif ou l'une des heures manque ou est invalide.
func Estimate(rate decimal.NullDecimal, start, end string, headcount int) (amount decimal.Decimal, ok bool, err error) {
	if !rate.Valid || start == "" || end == "" {
		return decimal.Zero, false, nil
	}
	from, err := time.Parse(models.TimeLayout, start)
	if err != nil {
		return decimal.Zero, false, nil
	}
	to, err := time.Parse(models.TimeLayout, end)
	if err != nil {
		return decimal.Zero, false, nil
	}
	if !to.After(from) {
		return decimal.Zero, false, ErrNegativeDuration
	}

	minutes := decimal.NewFromInt(int64(to.Sub(from) / time.Minute))
	hours := minutes.Div(minutesPerHour)
	amount = rate.Decimal.Mul(hours).Mul(decimal.NewFromInt(int64(headcount))).Round(2)
	return amount, true, nil
}
