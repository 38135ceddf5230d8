package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSplit(t *testing.T) {
	before := testutil.ToFloat64(recordsSplit.WithLabelValues(SourceSweep))
	RecordSplit(SourceSweep)
	assert.Equal(t, before+1, testutil.ToFloat64(recordsSplit.WithLabelValues(SourceSweep)))
}

func TestRecordSweep(t *testing.T) {
	split := testutil.ToFloat64(sweepRecords.WithLabelValues("split"))
	failed := testutil.ToFloat64(sweepRecords.WithLabelValues("failed"))

	RecordSweep(3, 1)

	assert.Equal(t, split+3, testutil.ToFloat64(sweepRecords.WithLabelValues("split")))
	assert.Equal(t, failed+1, testutil.ToFloat64(sweepRecords.WithLabelValues("failed")))
}

func TestObserveReport(t *testing.T) {
	ObserveReport("period", time.Now().Add(-time.Second))
	assert.Equal(t, 1, testutil.CollectAndCount(reportDuration, "timesheet_report_duration_seconds"))
}
