package charts

import (
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
)

// Slice is one labelled value of a bar or pie chart. A zero Color picks
// the next palette entry.
type Slice struct {
	Label string
	Value float64
	Color drawing.Color
}

// BarChart draws one bar per slice.
type BarChart struct {
	Title  string
	YLabel string
	Bars   []Slice
}

func (c BarChart) Render(w io.Writer, theme Theme) error {
	if len(c.Bars) == 0 {
		return pkgerrors.New(pkgerrors.CodeNoData, "bar chart has no bars")
	}
	format := newFormatter(theme.Language)

	values := make([]float64, len(c.Bars))
	bars := make([]chart.Value, len(c.Bars))
	for i, b := range c.Bars {
		color := b.Color
		if isUnset(color) {
			color = theme.Color(i)
		}
		values[i] = b.Value
		bars[i] = chart.Value{
			Label: truncate(b.Label),
			Value: b.Value,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
	}

	slot := (theme.Width - 160) / len(bars)
	axisStyle := chart.Style{FontColor: theme.Foreground, StrokeColor: theme.Foreground}
	graph := chart.BarChart{
		Title:      c.Title,
		TitleStyle: chart.Style{FontColor: theme.Foreground, FontSize: 16},
		Width:      theme.Width,
		Height:     theme.Height,
		Background: chart.Style{
			FillColor: theme.Background,
			Padding:   chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 40},
		},
		Canvas:     chart.Style{FillColor: theme.Background},
		BarWidth:   max(slot*2/3, 4),
		BarSpacing: max(slot/3, 2),
		XAxis:      chart.Style{FontColor: theme.Foreground, StrokeColor: theme.Foreground, TextRotationDegrees: 30},
		YAxis: chart.YAxis{
			Name:           c.YLabel,
			NameStyle:      axisStyle,
			Style:          axisStyle,
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax(values)},
			ValueFormatter: format.axis(0),
			GridMajorStyle: chart.Style{StrokeColor: theme.Grid, StrokeWidth: 1},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRender, err, "render bar chart")
	}
	return nil
}
