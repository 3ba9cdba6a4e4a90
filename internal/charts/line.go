package charts

import (
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
)

const maxLineTicks = 24

// LineSeries is one line over the chart's labels.
type LineSeries struct {
	Name   string
	Values []float64
	Color  drawing.Color
	Dashed bool
}

// LineChart plots one or more series against shared period labels.
type LineChart struct {
	Title  string
	XLabel string
	YLabel string
	Labels []string
	Series []LineSeries
}

func (c LineChart) Render(w io.Writer, theme Theme) error {
	if len(c.Series) == 0 || len(c.Labels) == 0 {
		return pkgerrors.New(pkgerrors.CodeNoData, "line chart has no series")
	}
	format := newFormatter(theme.Language)

	xs, xRange := lineAxis(len(c.Labels))

	var all []float64
	series := make([]chart.Series, 0, len(c.Series))
	for i, s := range c.Series {
		if len(s.Values) != len(c.Labels) {
			return pkgerrors.New(pkgerrors.CodeRender, "series length does not match labels").
				WithDetails(map[string]any{"series": s.Name, "values": len(s.Values), "labels": len(c.Labels)})
		}
		color := s.Color
		if isUnset(color) {
			color = theme.Color(i)
		}
		style := chart.Style{
			StrokeColor: color,
			StrokeWidth: 2,
			DotColor:    color,
			DotWidth:    4,
		}
		if s.Dashed {
			style.StrokeDashArray = []float64{8, 6}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: lineValues(s.Values),
			Style:   style,
		})
		all = append(all, s.Values...)
	}

	axisStyle := chart.Style{FontColor: theme.Foreground, StrokeColor: theme.Foreground}
	graph := chart.Chart{
		Title:      c.Title,
		TitleStyle: chart.Style{FontColor: theme.Foreground, FontSize: 16},
		Width:      theme.Width,
		Height:     theme.Height,
		Background: chart.Style{
			FillColor: theme.Background,
			Padding:   chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: theme.Background},
		XAxis: chart.XAxis{
			Name:      c.XLabel,
			NameStyle: axisStyle,
			Style:     axisStyle,
			TickStyle: chart.Style{FontColor: theme.Foreground, TextRotationDegrees: 45},
			Range:     xRange,
			Ticks:     lineTicks(c.Labels),
		},
		YAxis: chart.YAxis{
			Name:           c.YLabel,
			NameStyle:      axisStyle,
			Style:          axisStyle,
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax(all)},
			ValueFormatter: format.axis(0),
			GridMajorStyle: chart.Style{StrokeColor: theme.Grid, StrokeWidth: 1, StrokeDashArray: []float64{2, 4}},
			GridMinorStyle: chart.Style{Hidden: true},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph, chart.Style{
		FillColor:   theme.Background,
		FontColor:   theme.Foreground,
		StrokeColor: theme.Grid,
	})}

	if err := graph.Render(chart.PNG, w); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRender, err, "render line chart")
	}
	return nil
}

// lineAxis places n periods on the x axis. go-chart needs two distinct
// x values, so a single period is drawn as a flat segment around its tick.
func lineAxis(n int) ([]float64, *chart.ContinuousRange) {
	if n == 1 {
		return []float64{-0.5, 0.5}, &chart.ContinuousRange{Min: -0.5, Max: 0.5}
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs, &chart.ContinuousRange{Min: 0, Max: float64(n - 1)}
}

func lineValues(values []float64) []float64 {
	if len(values) == 1 {
		return []float64{values[0], values[0]}
	}
	return values
}

// lineTicks labels every period, thinned so long ranges stay legible.
func lineTicks(labels []string) []chart.Tick {
	step := 1
	if len(labels) > maxLineTicks {
		step = (len(labels) + maxLineTicks - 1) / maxLineTicks
	}
	ticks := make([]chart.Tick, 0, len(labels)/step+1)
	for i := 0; i < len(labels); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: labels[i]})
	}
	return ticks
}
