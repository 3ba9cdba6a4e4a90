package charts

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/text/language"

	"github.com/angelmondragon/wcreports/pkg/config"
	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
)

func smallTheme() Theme {
	theme := DefaultTheme()
	theme.Width = 640
	theme.Height = 360
	return theme
}

func assertPNG(t *testing.T, data []byte, theme Theme) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != theme.Width || bounds.Dy() != theme.Height {
		t.Fatalf("unexpected size %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func twelveMonths() []string {
	return []string{"2023-01", "2023-02", "2023-03", "2023-04", "2023-05", "2023-06",
		"2023-07", "2023-08", "2023-09", "2023-10", "2023-11", "2023-12"}
}

func TestLineChartRenders(t *testing.T) {
	theme := smallTheme()
	c := LineChart{
		Title:  "Bestellungen 2023",
		Labels: twelveMonths(),
		Series: []LineSeries{
			{Name: "Bestellungen", Values: []float64{2, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0}, Dashed: true},
			{Name: "Einheiten", Values: []float64{5, 0, 5, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		},
	}
	var buf bytes.Buffer
	if err := c.Render(&buf, theme); err != nil {
		t.Fatalf("render: %v", err)
	}
	assertPNG(t, buf.Bytes(), theme)
}

func TestLineChartAllZeroAndSinglePoint(t *testing.T) {
	theme := smallTheme()
	for _, value := range []float64{0, 3} {
		c := LineChart{
			Labels: []string{"2023-01"},
			Series: []LineSeries{{Name: "x", Values: []float64{value}}, {Name: "y", Values: []float64{value * 2}, Dashed: true}},
		}
		var buf bytes.Buffer
		if err := c.Render(&buf, theme); err != nil {
			t.Fatalf("render single point %v: %v", value, err)
		}
		assertPNG(t, buf.Bytes(), theme)
	}
}

func TestLineAxisSinglePeriod(t *testing.T) {
	xs, rng := lineAxis(1)
	if len(xs) != 2 || xs[0] >= xs[1] || rng.Min != xs[0] || rng.Max != xs[1] {
		t.Fatalf("unexpected single period axis %v %+v", xs, rng)
	}
	if got := lineValues([]float64{4}); len(got) != 2 || got[0] != 4 || got[1] != 4 {
		t.Fatalf("unexpected single period values %v", got)
	}
	xs, rng = lineAxis(12)
	if len(xs) != 12 || rng.Min != 0 || rng.Max != 11 {
		t.Fatalf("unexpected axis %v %+v", xs, rng)
	}
}

func TestLineChartRejectsMismatchedSeries(t *testing.T) {
	c := LineChart{Labels: []string{"a", "b"}, Series: []LineSeries{{Name: "x", Values: []float64{1}}}}
	err := c.Render(io.Discard, smallTheme())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeRender {
		t.Fatalf("expected render error, got %v", err)
	}
	if err := (LineChart{}).Render(io.Discard, smallTheme()); pkgerrors.CodeOf(err) != pkgerrors.CodeNoData {
		t.Fatalf("expected no data error, got %v", err)
	}
}

func TestLineTicksThinLongRanges(t *testing.T) {
	labels := make([]string, 72)
	for i := range labels {
		labels[i] = "x"
	}
	ticks := lineTicks(labels)
	if len(ticks) > maxLineTicks {
		t.Fatalf("expected at most %d ticks, got %d", maxLineTicks, len(ticks))
	}
	if len(lineTicks(twelveMonths())) != 12 {
		t.Fatalf("short ranges keep every label")
	}
}

func TestBarChartRenders(t *testing.T) {
	theme := smallTheme()
	c := BarChart{Title: "Umsatz 2023", Bars: []Slice{
		{Label: "2023-01", Value: 1234.5},
		{Label: "2023-02", Value: 0},
		{Label: "a very long product name indeed", Value: 10},
	}}
	var buf bytes.Buffer
	if err := c.Render(&buf, theme); err != nil {
		t.Fatalf("render: %v", err)
	}
	assertPNG(t, buf.Bytes(), theme)

	if err := (BarChart{}).Render(io.Discard, theme); pkgerrors.CodeOf(err) != pkgerrors.CodeNoData {
		t.Fatalf("expected no data error, got %v", err)
	}
}

func TestPieChartRenders(t *testing.T) {
	theme := smallTheme()
	c := PieChart{Title: "Zahlungsarten", Slices: []Slice{
		{Label: "PayPal", Value: 3},
		{Label: "Bank", Value: 1},
		{Label: "Empty", Value: 0},
	}}
	var buf bytes.Buffer
	if err := c.Render(&buf, theme); err != nil {
		t.Fatalf("render: %v", err)
	}
	assertPNG(t, buf.Bytes(), theme)
}

func TestPieChartZeroTotal(t *testing.T) {
	c := PieChart{Slices: []Slice{{Label: "a", Value: 0}}}
	if err := c.Render(io.Discard, smallTheme()); pkgerrors.CodeOf(err) != pkgerrors.CodeNoData {
		t.Fatalf("expected no data error, got %v", err)
	}
	neg := PieChart{Slices: []Slice{{Label: "a", Value: -1}}}
	if err := neg.Render(io.Discard, smallTheme()); pkgerrors.CodeOf(err) != pkgerrors.CodeRender {
		t.Fatalf("expected render error, got %v", err)
	}
}

type failingChart struct{}

func (failingChart) Render(w io.Writer, _ Theme) error {
	_, _ = w.Write([]byte("partial"))
	return pkgerrors.New(pkgerrors.CodeRender, "boom")
}

func TestSaveWritesFile(t *testing.T) {
	theme := smallTheme()
	path := filepath.Join(t.TempDir(), "nested", "dir", "chart.png")
	c := BarChart{Bars: []Slice{{Label: "a", Value: 1}}}
	if err := Save(path, c, theme); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	assertPNG(t, data, theme)
}

func TestSaveRemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	err := Save(path, failingChart{}, smallTheme())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeRender {
		t.Fatalf("expected render error, got %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected no file after failed render, got %v", statErr)
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]drawing.Color{
		"white":       {R: 255, G: 255, B: 255, A: 255},
		"#333333":     {R: 0x33, G: 0x33, B: 0x33, A: 255},
		"#333":        {R: 0x33, G: 0x33, B: 0x33, A: 255},
		" LightGreen": {R: 0x90, G: 0xee, B: 0x90, A: 255},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %+v, want %+v", in, got, want)
		}
	}
	for _, bad := range []string{"", "chartreuse-ish", "#12345", "#gggggg"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestNewThemeCollectsErrors(t *testing.T) {
	_, err := NewTheme(config.ThemeConfig{Background: "nope", Foreground: "white", Grid: "gray"}, language.German)
	if err == nil {
		t.Fatalf("expected error")
	}
	theme := DefaultTheme()
	if theme.Color(0) != theme.Palette[0] || theme.Color(len(theme.Palette)) != theme.Palette[0] {
		t.Fatalf("palette should cycle")
	}
}

func TestFormatterUsesLocale(t *testing.T) {
	de := newFormatter(language.German)
	if got := de.number(1234.5, 2); got != "1.234,5" {
		t.Fatalf("unexpected german format %q", got)
	}
	en := newFormatter(language.English)
	if got := en.number(1234.5, 2); got != "1,234.5" {
		t.Fatalf("unexpected english format %q", got)
	}
	if got := truncate("short"); got != "short" {
		t.Fatalf("unexpected truncate %q", got)
	}
	if got := []rune(truncate("a very long product name indeed")); len(got) != maxLabelRunes {
		t.Fatalf("expected truncated label of %d runes, got %d", maxLabelRunes, len(got))
	}
}
