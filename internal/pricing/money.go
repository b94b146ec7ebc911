package pricing

import (
	"fmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts in one currency for one locale.
type Formatter struct {
	unit    currency.Unit
	scale   int
	printer *message.Printer
}

// NewFormatter returns a formatter for an ISO 4217 code and a BCP 47 tag,
// e.g. ("EUR", "fr-FR").
func NewFormatter(code, lang string) (*Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", code, err)
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("language %q: %w", lang, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return &Formatter{unit: unit, scale: scale, printer: message.NewPrinter(tag)}, nil
}

// Format renders the amount with the currency symbol, e.g. "€ 1,234.50".
func (f *Formatter) Format(amount float64) string {
	return f.printer.Sprintf("%v %v", currency.Symbol(f.unit), number.Decimal(amount, number.Scale(f.scale)))
}

// Number renders a plain localized number with the currency's decimals.
func (f *Formatter) Number(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.Scale(f.scale)))
}

// Code returns the ISO 4217 code.
func (f *Formatter) Code() string {
	return f.unit.String()
}
