package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveGeneration(t *testing.T) {
	m := New()

	m.ObserveGeneration("blog", time.Now(), nil)
	m.ObserveGeneration("blog", time.Now(), errors.New("boom"))
	m.ObserveGeneration("twitter", time.Now(), nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationRequests.WithLabelValues("blog", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationRequests.WithLabelValues("blog", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationRequests.WithLabelValues("twitter", "ok")))
}

func TestObserveExtraction(t *testing.T) {
	m := New()

	m.ObserveExtraction("url", errors.New("short"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Extractions.WithLabelValues("url", "error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveGeneration("blog", time.Now(), nil)
		m.ObserveExtraction("file", nil)
	})
}
