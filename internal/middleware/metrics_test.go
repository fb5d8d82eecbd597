package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/csv-sentiment/internal/domain/sentiment"
)

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics()
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			http.Error(w, "nope", http.StatusBadRequest)
			return
		}
		w.Write([]byte("ok"))
	}))

	for _, p := range []string{"/ok", "/ok", "/fail"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, uint64(3), m.RequestsTotal)
	assert.Equal(t, uint64(2), m.RequestsSuccess)
	assert.Equal(t, uint64(1), m.RequestsFailed)
	assert.Equal(t, uint64(0), m.RequestsInProgress)
}

func TestMetricsRecordAndHandler(t *testing.T) {
	m := NewMetrics()
	m.RecordBatch(sentiment.Counts{Positive: 2, Negative: 1, Neutral: 3, Total: 6}, nil)
	m.RecordBatch(sentiment.Counts{}, errors.New("bad csv"))
	m.RecordLogin(true)
	m.RecordLogin(false)
	m.RecordLogin(false)

	rec := httptest.NewRecorder()
	m.Handler(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		BatchesTotal    uint64            `json:"batches_total"`
		BatchesFailed   uint64            `json:"batches_failed"`
		RowsScored      uint64            `json:"rows_scored"`
		RowsByLabel     map[string]uint64 `json:"rows_by_label"`
		LoginsSucceeded uint64            `json:"logins_succeeded"`
		LoginsFailed    uint64            `json:"logins_failed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint64(2), body.BatchesTotal)
	assert.Equal(t, uint64(1), body.BatchesFailed)
	assert.Equal(t, uint64(6), body.RowsScored)
	assert.Equal(t, map[string]uint64{"positive": 2, "negative": 1, "neutral": 3}, body.RowsByLabel)
	assert.Equal(t, uint64(1), body.LoginsSucceeded)
	assert.Equal(t, uint64(2), body.LoginsFailed)
}
