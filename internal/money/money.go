package money

import (
	"fmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders minor-unit amounts as storefront prices: localized
// grouping, currency symbol, zero fraction digits.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

func NewFormatter(locale, currencyCode string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", currencyCode, err)
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		unit:    unit,
	}, nil
}

// Format renders an amount given in minor currency units, rounded to the
// nearest whole major unit (half away from zero).
func (f *Formatter) Format(minorUnits int64) string {
	major := minorUnits / 100
	switch rem := minorUnits % 100; {
	case rem >= 50:
		major++
	case rem <= -50:
		major--
	}
	return f.printer.Sprintf("%v %v",
		currency.Symbol(f.unit),
		number.Decimal(major, number.MaxFractionDigits(0)),
	)
}
