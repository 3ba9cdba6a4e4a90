package charts

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/multierr"
	"golang.org/x/text/language"

	"github.com/angelmondragon/wcreports/pkg/config"
)

// Theme carries every visual setting a renderer needs.
type Theme struct {
	Background drawing.Color
	Foreground drawing.Color
	Grid       drawing.Color
	Palette    []drawing.Color
	Width      int
	Height     int
	Language   language.Tag
}

var namedColors = map[string]string{
	"white":      "ffffff",
	"black":      "000000",
	"gray":       "808080",
	"grey":       "808080",
	"lightgray":  "d3d3d3",
	"darkgray":   "a9a9a9",
	"green":      "008000",
	"lightgreen": "90ee90",
	"darkgreen":  "006400",
	"red":        "ff0000",
	"blue":       "0000ff",
	"lightblue":  "add8e6",
	"orange":     "ffa500",
	"yellow":     "ffff00",
	"purple":     "800080",
}

// DefaultTheme mirrors the configuration defaults.
func DefaultTheme() Theme {
	theme, err := NewTheme(config.ThemeConfig{
		Background: "#333333",
		Foreground: "white",
		Grid:       "gray",
		Palette:    []string{"lightgreen", "green", "#4E79A7", "#F28E2B", "#E15759", "#76B7B2", "#EDC948", "#B07AA1", "#FF9DA7", "#9C755F"},
		Width:      1200,
		Height:     600,
	}, language.German)
	if err != nil {
		panic(err)
	}
	return theme
}

// NewTheme resolves configured color names and hex codes.
func NewTheme(cfg config.ThemeConfig, lang language.Tag) (Theme, error) {
	var errs error
	parse := func(field, value string) drawing.Color {
		c, err := ParseColor(value)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", field, err))
		}
		return c
	}

	theme := Theme{
		Background: parse("background", cfg.Background),
		Foreground: parse("foreground", cfg.Foreground),
		Grid:       parse("grid", cfg.Grid),
		Width:      cfg.Width,
		Height:     cfg.Height,
		Language:   lang,
	}
	for i, value := range cfg.Palette {
		theme.Palette = append(theme.Palette, parse(fmt.Sprintf("palette[%d]", i), value))
	}
	if len(theme.Palette) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("palette must not be empty"))
	}
	if theme.Width <= 0 || theme.Height <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("chart size must be positive, got %dx%d", theme.Width, theme.Height))
	}
	if errs != nil {
		return Theme{}, errs
	}
	return theme, nil
}

// Color cycles through the palette.
func (t Theme) Color(i int) drawing.Color {
	if len(t.Palette) == 0 {
		return t.Foreground
	}
	if i < 0 {
		i = -i
	}
	return t.Palette[i%len(t.Palette)]
}

// ParseColor accepts a handful of CSS color names, #rgb and #rrggbb.
func ParseColor(value string) (drawing.Color, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if named, ok := namedColors[v]; ok {
		v = named
	}
	v = strings.TrimPrefix(v, "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return drawing.Color{}, fmt.Errorf("unknown color %q", value)
	}
	rgb, err := hex.DecodeString(v)
	if err != nil {
		return drawing.Color{}, fmt.Errorf("unknown color %q", value)
	}
	return drawing.Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}

func isUnset(c drawing.Color) bool {
	return c == drawing.Color{}
}
