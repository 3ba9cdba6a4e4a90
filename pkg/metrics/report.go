package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for report runs.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// ReportMetrics records report runs and the store API traffic behind them.
type ReportMetrics struct {
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
	pages    *prometheus.CounterVec
	records  *prometheus.CounterVec
	lookups  *prometheus.CounterVec
}

// NewReportMetrics registers the report metrics on the provided registerer.
func NewReportMetrics(reg prometheus.Registerer) *ReportMetrics {
	if reg == nil {
		return &ReportMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_duration_seconds",
		Help:    "Duration of report runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"report"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_runs_total",
		Help: "Report runs by outcome.",
	}, []string{"report", "outcome"})
	pages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_pages_fetched_total",
		Help: "Result pages requested from the store API.",
	}, []string{"resource"})
	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_records_fetched_total",
		Help: "Records received from the store API.",
	}, []string{"resource"})
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "category_lookups_total",
		Help: "Product category lookups by cache result.",
	}, []string{"result"})
	reg.MustRegister(duration, runs, pages, records, lookups)
	return &ReportMetrics{
		duration: duration,
		runs:     runs,
		pages:    pages,
		records:  records,
		lookups:  lookups,
	}
}

// ObserveDuration records the duration for the named report.
func (m *ReportMetrics) ObserveDuration(report string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(report)).Observe(duration.Seconds())
}

// IncOutcome increments the run counter for the named report and outcome.
func (m *ReportMetrics) IncOutcome(report, outcome string) {
	if m == nil || m.runs == nil {
		return
	}
	m.runs.WithLabelValues(normalizeLabel(report), normalizeLabel(outcome)).Inc()
}

// ObservePage counts one fetched page and the records it carried.
func (m *ReportMetrics) ObservePage(resource string, records int) {
	if m == nil || m.pages == nil {
		return
	}
	m.pages.WithLabelValues(normalizeLabel(resource)).Inc()
	m.records.WithLabelValues(normalizeLabel(resource)).Add(float64(records))
}

// ObserveLookup counts a category lookup as a cache hit or miss.
func (m *ReportMetrics) ObserveLookup(hit bool) {
	if m == nil || m.lookups == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.lookups.WithLabelValues(result).Inc()
}

// WriteTextfile dumps the gathered metrics in the node_exporter textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if path == "" || g == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
