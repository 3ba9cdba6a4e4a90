package fetch

import (
	"net/url"
	"time"

	"github.com/angelmondragon/wcreports/pkg/enums"
)

// TimeLayout is the ISO-8601 form the store expects in after/before.
const TimeLayout = "2006-01-02T15:04:05"

// Window is the half-open interval [After, Before) of record creation times.
// A nil Before leaves the window open-ended.
type Window struct {
	After  time.Time
	Before *time.Time
	// Statuses narrows the records to these order states; empty means all.
	Statuses []enums.OrderStatus
}

// Between returns a closed-on-the-left window ending before end.
func Between(start, end time.Time) Window {
	return Window{After: start, Before: &end}
}

// Since returns an open-ended window starting at start.
func Since(start time.Time) Window {
	return Window{After: start}
}

// Params renders the window as store query parameters.
func (w Window) Params() url.Values {
	params := url.Values{}
	if !w.After.IsZero() {
		params.Set("after", w.After.Format(TimeLayout))
	}
	if w.Before != nil {
		params.Set("before", w.Before.Format(TimeLayout))
	}
	if len(w.Statuses) > 0 {
		params.Set("status", enums.JoinOrderStatuses(w.Statuses))
	}
	return params
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.After) {
		return false
	}
	return w.Before == nil || t.Before(*w.Before)
}
