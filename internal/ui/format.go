package ui

import (
	"fmt"
	"time"

	"github.com/target/catalog-admin/internal/domain/model"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders prices and dates for one locale.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	cur     currency.Unit
	loc     *time.Location
}

// NewFormatter returns a formatter for the BCP 47 locale, falling back to Spanish.
func NewFormatter(locale string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	return Formatter{tag: tag, printer: message.NewPrinter(tag), cur: currency.USD, loc: time.Local}
}

// In returns a copy of f that renders dates in loc.
func (f Formatter) In(loc *time.Location) Formatter {
	f.loc = loc
	return f
}

// Price formats v with two decimals using the locale's separators, followed by the
// ISO currency code.
func (f Formatter) Price(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.Scale(2))) + " " + f.cur.String()
}

// Integer formats n with the locale's grouping.
func (f Formatter) Integer(n int) string {
	return f.printer.Sprint(number.Decimal(n))
}

var shortMonths = map[string][12]string{
	"es": {"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
	"en": {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
}

// Date formats ts as day, abbreviated month and year ("15 mar 2024" in Spanish).
// A zero timestamp renders as "-".
func (f Formatter) Date(ts model.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	t := ts.Time.In(f.loc)
	base, _ := f.tag.Base()
	months, ok := shortMonths[base.String()]
	if !ok {
		months = shortMonths["en"]
	}
	if base.String() == "en" {
		return fmt.Sprintf("%s %d, %d", months[t.Month()-1], t.Day(), t.Year())
	}
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}
