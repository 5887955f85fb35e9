package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotANumber el texto recibido no es numérico.
var ErrNotANumber = errors.New("valor no numérico")

// Number valor numérico de payload. Acepta número JSON o texto (formularios), y conserva
// el texto original para que el manejador decida cómo tratar vacíos o valores inválidos.
type Number string

// UnmarshalJSON acepta 25, "25", " 25 " y null.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return err
		}
		*n = Number(num)
	}
	return nil
}

// MarshalJSON escribe número JSON cuando el texto es numérico y string en otro caso.
func (n Number) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(n))
	if s != "" && json.Valid([]byte(s)) {
		if _, err := decimal.NewFromString(s); err == nil {
			return []byte(s), nil
		}
	}
	return json.Marshal(string(n))
}

// Empty indica si no se envió valor.
func (n Number) Empty() bool { return strings.TrimSpace(string(n)) == "" }

// Decimal interpreta el valor como decimal.
func (n Number) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(n)))
	if err != nil {
		return decimal.Zero, ErrNotANumber
	}
	return d, nil
}

// Int interpreta el valor como entero. Acepta "25" y "25.0"; rechaza "25.5".
func (n Number) Int() (int, error) {
	d, err := n.Decimal()
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, ErrNotANumber
	}
	return int(d.IntPart()), nil
}

// IntOr devuelve def si el valor está vacío o no es entero.
func (n Number) IntOr(def int) int {
	if v, err := n.Int(); err == nil {
		return v
	}
	return def
}

// NumberOf construye un Number a partir de un entero.
func NumberOf(v int) Number {
	return Number(decimal.NewFromInt(int64(v)).String())
}
