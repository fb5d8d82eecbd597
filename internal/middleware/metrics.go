package middleware

import (
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/bryanwahyu/csv-sentiment/internal/domain/sentiment"
	"github.com/bryanwahyu/csv-sentiment/pkg/respond"
)

// Metrics stores application counters. All fields are updated atomically.
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress uint64
	RequestsSuccess    uint64
	RequestsFailed     uint64
	BatchesTotal       uint64
	BatchesFailed      uint64
	RowsScored         uint64
	RowsPositive       uint64
	RowsNegative       uint64
	RowsNeutral        uint64
	LoginsSucceeded    uint64
	LoginsFailed       uint64
	StartTime          time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

// RecordBatch counts one /analyze outcome.
func (m *Metrics) RecordBatch(counts sentiment.Counts, err error) {
	atomic.AddUint64(&m.BatchesTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.BatchesFailed, 1)
		return
	}
	atomic.AddUint64(&m.RowsScored, uint64(counts.Total))
	atomic.AddUint64(&m.RowsPositive, uint64(counts.Positive))
	atomic.AddUint64(&m.RowsNegative, uint64(counts.Negative))
	atomic.AddUint64(&m.RowsNeutral, uint64(counts.Neutral))
}

// RecordLogin counts one /token outcome.
func (m *Metrics) RecordLogin(ok bool) {
	if ok {
		atomic.AddUint64(&m.LoginsSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.LoginsFailed, 1)
}

// Snapshot returns current metrics
func (m *Metrics) Snapshot() map[string]any {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return map[string]any{
		"requests_total":       atomic.LoadUint64(&m.RequestsTotal),
		"requests_in_progress": atomic.LoadUint64(&m.RequestsInProgress),
		"requests_success":     atomic.LoadUint64(&m.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&m.RequestsFailed),
		"batches_total":        atomic.LoadUint64(&m.BatchesTotal),
		"batches_failed":       atomic.LoadUint64(&m.BatchesFailed),
		"rows_scored":          atomic.LoadUint64(&m.RowsScored),
		"rows_by_label": map[string]uint64{
			string(sentiment.LabelPositive): atomic.LoadUint64(&m.RowsPositive),
			string(sentiment.LabelNegative): atomic.LoadUint64(&m.RowsNegative),
			string(sentiment.LabelNeutral):  atomic.LoadUint64(&m.RowsNeutral),
		},
		"logins_succeeded": atomic.LoadUint64(&m.LoginsSucceeded),
		"logins_failed":    atomic.LoadUint64(&m.LoginsFailed),
		"uptime_seconds":   time.Since(m.StartTime).Seconds(),
		"memory": map[string]any{
			"alloc_bytes":       mem.Alloc,
			"total_alloc_bytes": mem.TotalAlloc,
			"sys_bytes":         mem.Sys,
			"num_gc":            mem.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// Middleware tracks request counters
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&m.RequestsTotal, 1)
		atomic.AddUint64(&m.RequestsInProgress, 1)
		defer atomic.AddUint64(&m.RequestsInProgress, ^uint64(0))

		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			atomic.AddUint64(&m.RequestsSuccess, 1)
		} else {
			atomic.AddUint64(&m.RequestsFailed, 1)
		}
	})
}

// Handler returns metrics as JSON
func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, m.Snapshot())
}
