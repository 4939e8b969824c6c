package config

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

var (
	metricsOnce sync.Once
	metrics     *ConfigMetrics
)

// testConfigMetrics shares one instance across tests; promauto panics on a
// second registration of the same names.
func testConfigMetrics() *ConfigMetrics {
	metricsOnce.Do(func() {
		metrics = NewConfigMetrics("configtest")
	})
	return metrics
}

func TestConfigMetrics_RecordValidationError(t *testing.T) {
	m := testConfigMetrics()

	before := testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("cron_schedule"))
	m.RecordValidationError("cron_schedule")
	after := testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("cron_schedule"))

	if after != before+1 {
		t.Errorf("validation errors = %v, want %v", after, before+1)
	}
}

func TestConfigMetrics_RecordFallback(t *testing.T) {
	m := testConfigMetrics()

	before := testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("timezone"))
	m.RecordFallback("timezone", "default")
	after := testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("timezone"))

	if after != before+1 {
		t.Errorf("fallbacks = %v, want %v", after, before+1)
	}
}

func TestConfigMetrics_FallbackActive(t *testing.T) {
	m := testConfigMetrics()

	m.SetFallbackActive("", true)
	if got := testutil.ToFloat64(m.FallbackActive); got != 1 {
		t.Errorf("fallback active = %v, want 1", got)
	}

	m.SetFallbackActive("", false)
	if got := testutil.ToFloat64(m.FallbackActive); got != 0 {
		t.Errorf("fallback active = %v, want 0", got)
	}
}

func TestConfigMetrics_LoadTimestamp(t *testing.T) {
	m := testConfigMetrics()

	m.RecordLoadTimestamp()
	if got := testutil.ToFloat64(m.LoadTimestamp); got <= 0 {
		t.Errorf("load timestamp = %v, want positive unix time", got)
	}
}
