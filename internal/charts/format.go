package charts

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const maxLabelRunes = 18

// formatter renders axis values with locale grouping.
type formatter struct {
	printer *message.Printer
}

func newFormatter(tag language.Tag) formatter {
	if tag == language.Und {
		tag = language.German
	}
	return formatter{printer: message.NewPrinter(tag)}
}

func (f formatter) number(v float64, fraction int) string {
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(fraction)))
}

func (f formatter) percent(frac float64) string {
	return f.printer.Sprint(number.Percent(frac, number.MaxFractionDigits(1)))
}

// axis returns a go-chart value formatter.
func (f formatter) axis(fraction int) func(v interface{}) string {
	return func(v interface{}) string {
		switch typed := v.(type) {
		case float64:
			return f.number(typed, fraction)
		case int:
			return f.number(float64(typed), fraction)
		default:
			return f.printer.Sprint(v)
		}
	}
}

func truncate(label string) string {
	runes := []rune(label)
	if len(runes) <= maxLabelRunes {
		return label
	}
	return string(runes[:maxLabelRunes-1]) + "…"
}

func maxOf(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// yMax pads the top of the value axis and keeps the range non-degenerate.
func yMax(values []float64) float64 {
	m := maxOf(values)
	if m <= 0 {
		return 1
	}
	return m * 1.1
}
