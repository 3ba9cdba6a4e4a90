package reports

import (
	"fmt"
	"time"

	"github.com/angelmondragon/wcreports/internal/aggregate"
	"github.com/angelmondragon/wcreports/internal/fetch"
	"github.com/angelmondragon/wcreports/pkg/config"
	"github.com/angelmondragon/wcreports/pkg/enums"
	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
)

// Request selects one report run.
type Request struct {
	Kind      Kind `json:"kind" validate:"required"`
	Year      int  `json:"year" validate:"required,gte=1970,lte=9999"`
	SinceYear int  `json:"since_year" validate:"omitempty,gte=1970"`
	TopN      int  `json:"top_n" validate:"gte=0,lte=100"`
	// Statuses restricts fetched orders; empty means every status.
	Statuses []enums.OrderStatus `json:"statuses"`
}

// RequestFromConfig builds the request described by the environment.
func RequestFromConfig(cfg config.ReportConfig, now time.Time) (Request, error) {
	statuses, err := enums.ParseOrderStatuses(cfg.Statuses)
	if err != nil {
		return Request{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse order statuses")
	}
	return Request{
		Kind:      Kind(cfg.Kind),
		Year:      cfg.YearOrCurrent(now),
		SinceYear: cfg.SinceYear,
		TopN:      cfg.TopN,
		Statuses:  statuses,
	}, nil
}

// span is the resolved time coverage of a run.
type span struct {
	window  fetch.Window
	periods []aggregate.Period
	label   string
	file    string
}

func resolveSpan(kind Kind, scope Scope, req Request) span {
	first := aggregate.Period{Year: req.Year, Month: time.January}
	if scope == ScopeSinceYear {
		since := aggregate.Period{Year: req.SinceYear, Month: time.January}
		window := fetch.Since(since.Start(time.UTC))
		window.Statuses = req.Statuses
		return span{
			window:  window,
			periods: aggregate.MonthRange(since, aggregate.Period{Year: req.Year, Month: time.December}),
			label:   fmt.Sprintf("%d - %d", req.SinceYear, req.Year),
			file:    fmt.Sprintf("%s_%d-%d.png", kind, req.SinceYear, req.Year),
		}
	}
	start := first.Start(time.UTC)
	window := fetch.Between(start, start.AddDate(1, 0, 0))
	window.Statuses = req.Statuses
	return span{
		window:  window,
		periods: aggregate.YearRange(req.Year),
		label:   fmt.Sprintf("%d", req.Year),
		file:    fmt.Sprintf("%s_%d.png", kind, req.Year),
	}
}
