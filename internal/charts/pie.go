package charts

import (
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
)

// PieChart draws each slice's share of the total.
type PieChart struct {
	Title  string
	Slices []Slice
}

func (c PieChart) Render(w io.Writer, theme Theme) error {
	total := 0.0
	for _, s := range c.Slices {
		if s.Value < 0 {
			return pkgerrors.New(pkgerrors.CodeRender, "pie slice must not be negative").
				WithDetails(map[string]any{"label": s.Label, "value": s.Value})
		}
		total += s.Value
	}
	if total == 0 {
		return pkgerrors.New(pkgerrors.CodeNoData, "pie chart has no values")
	}
	format := newFormatter(theme.Language)

	values := make([]chart.Value, 0, len(c.Slices))
	for i, s := range c.Slices {
		if s.Value == 0 {
			continue
		}
		color := s.Color
		if isUnset(color) {
			color = theme.Color(i)
		}
		values = append(values, chart.Value{
			Label: truncate(s.Label) + " " + format.percent(s.Value/total),
			Value: s.Value,
			Style: chart.Style{FillColor: color, StrokeColor: theme.Background, StrokeWidth: 2},
		})
	}

	graph := chart.PieChart{
		Title:      c.Title,
		TitleStyle: chart.Style{FontColor: theme.Foreground, FontSize: 16},
		Width:      theme.Width,
		Height:     theme.Height,
		Background: chart.Style{
			FillColor: theme.Background,
			Padding:   chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas:     chart.Style{FillColor: theme.Background},
		SliceStyle: chart.Style{FontColor: theme.Foreground, FontSize: 11},
		Values:     values,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRender, err, "render pie chart")
	}
	return nil
}
