package fiscal

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var locale = language.MustParse("fr-DZ")

// FormatInteger formatea la parte entera con separadores de miles fr-DZ (ej. 1 000 000).
func FormatInteger(d decimal.Decimal) string {
	p := message.NewPrinter(locale)
	return p.Sprintf("%d", d.IntPart())
}

// FormatAmount formatea un importe con dos decimales y separadores fr-DZ (ej. 1 234,50).
func FormatAmount(d decimal.Decimal) string {
	p := message.NewPrinter(locale)
	return p.Sprint(number.Decimal(d.Round(2).InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatMoney es FormatAmount con el sufijo de moneda.
func FormatMoney(d decimal.Decimal) string {
	return FormatAmount(d) + " " + Currency
}
