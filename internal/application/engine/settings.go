package engine

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
)

// updateSettings mezcla los campos enviados. Vacíos o numéricos inválidos conservan el
// valor anterior; nunca rechaza.
func (d *Dispatcher) updateSettings(s *session, c command.UpdateSettings) (string, error) {
	cur := s.settings
	cur.CompanyName = textOr(c.CompanyName, cur.CompanyName)
	cur.CompanyEmail = textOr(c.CompanyEmail, cur.CompanyEmail)
	cur.Currency = textOr(c.Currency, cur.Currency)
	if cur.Currency == "" {
		cur.Currency = entity.DefaultCurrency
	}
	if v, err := c.PricePerCase.Decimal(); err == nil {
		cur.PricePerCase = v
	}
	cur.GSTRate = rateFrom(c.GSTRate, cur.GSTRate)
	cur.QSTRate = rateFrom(c.QSTRate, cur.QSTRate)

	s.settings = cur
	s.settingsDirty = true
	return "settings updated", nil
}

func textOr(v, prev string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return strings.TrimSpace(prev)
}

func rateFrom(n command.Number, prev decimal.NullDecimal) decimal.NullDecimal {
	v, err := n.Decimal()
	if err != nil {
		return prev
	}
	return decimal.NewNullDecimal(v)
}
