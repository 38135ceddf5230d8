// Package metrics exposes engine counters on the default Prometheus registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	recordsSplit = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timesheet",
		Name:      "records_split_total",
		Help:      "Overnight records split into a closing record and a continuation.",
	}, []string{"source"})

	sweepRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timesheet",
		Name:      "sweep_records_total",
		Help:      "Records handled by the overnight sweep, by outcome.",
	}, []string{"outcome"})

	reportDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "timesheet",
		Name:      "report_duration_seconds",
		Help:      "Time spent generating reports.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"report"})
)

func init() {
	prometheus.MustRegister(recordsSplit, sweepRecords, reportDuration)
}

const (
	SourceWrite = "write"
	SourceSweep = "sweep"
)

func RecordSplit(source string) {
	recordsSplit.WithLabelValues(source).Inc()
}

func RecordSweep(split, failed int) {
	sweepRecords.WithLabelValues("split").Add(float64(split))
	sweepRecords.WithLabelValues("failed").Add(float64(failed))
}

// ObserveReport records the time since start under the report name.
func ObserveReport(report string, start time.Time) {
	reportDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
}
