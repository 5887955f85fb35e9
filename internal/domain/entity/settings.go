package entity

import "github.com/shopspring/decimal"

// Valores por defecto de facturación (Quebec).
var (
	DefaultCurrency     = "CAD"
	DefaultPricePerCase = decimal.RequireFromString("59.76")
	DefaultGSTRate      = decimal.RequireFromString("0.05")
	DefaultQSTRate      = decimal.RequireFromString("0.09975")
)

// Settings registro único de configuración comercial. Las tasas son nulas cuando no se
// han definido; una tasa explícita de 0 se respeta.
type Settings struct {
	CompanyName  string              `json:"company_name"`
	CompanyEmail string              `json:"company_email"`
	Currency     string              `json:"currency"`
	PricePerCase decimal.Decimal     `json:"price_per_case"`
	GSTRate      decimal.NullDecimal `json:"gst_rate"`
	QSTRate      decimal.NullDecimal `json:"qst_rate"`
}

// DefaultSettings valores iniciales al crear el almacén de datos.
func DefaultSettings() Settings {
	return Settings{
		CompanyName:  "SayF Sales",
		CompanyEmail: "sales@example.com",
		Currency:     DefaultCurrency,
		PricePerCase: DefaultPricePerCase,
		GSTRate:      decimal.NewNullDecimal(DefaultGSTRate),
		QSTRate:      decimal.NewNullDecimal(DefaultQSTRate),
	}
}
