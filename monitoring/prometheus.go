package monitoring

import (
	"net/http"
	"time"

	"github.com/mezonai/forktips/logx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ApplyOutcome string

var (
	ApplyExtended ApplyOutcome = "extended"
	ApplyCreated  ApplyOutcome = "created"
)

type forkPromMetrics struct {
	upUnixSeconds     prometheus.Gauge
	branchCount       prometheus.Gauge
	applyTotal        *prometheus.CounterVec
	applyDuration     prometheus.Histogram
	directUpdateTotal prometheus.Counter
	panicCount        prometheus.Counter
}

func newForkPromMetrics(reg prometheus.Registerer) *forkPromMetrics {
	factory := promauto.With(reg)
	return &forkPromMetrics{
		upUnixSeconds: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "forktips_up_timestamp_unix_seconds",
				Help: "Unix timestamp of the process start",
			},
		),
		branchCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "forktips_branch_count",
				Help: "The number of branch tips currently tracked by the registry",
			},
		),
		applyTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forktips_apply_total",
				Help: "The total number of candidates placed by apply-or-create, by outcome",
			},
			[]string{"outcome"},
		),
		applyDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "forktips_apply_duration_seconds",
				Help:    "Time spent in apply-or-create including waiting for the registry lock",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
		directUpdateTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "forktips_direct_update_total",
				Help: "The total number of tips replaced directly on a branch handle",
			},
		),
		panicCount: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "forktips_panic_count",
				Help: "The total number of recovered goroutine panics",
			},
		),
	}
}

// Metrics are registered against the default registry on first import so that
// recording is always safe, even before InitMetrics.
var nodeMetrics = newForkPromMetrics(prometheus.DefaultRegisterer)

// InitMetrics stamps the process start time.
func InitMetrics() {
	nodeMetrics.upUnixSeconds.SetToCurrentTime()
}

func RegisterMetrics(mux *http.ServeMux) {
	logx.Info("MONITORING", "Registering prometheus metrics")
	mux.Handle("/metrics", promhttp.Handler())
}

func SetBranchCount(count int) {
	nodeMetrics.branchCount.Set(float64(count))
}

func RecordApply(outcome ApplyOutcome, duration time.Duration) {
	nodeMetrics.applyTotal.With(prometheus.Labels{
		"outcome": string(outcome),
	}).Inc()
	nodeMetrics.applyDuration.Observe(duration.Seconds())
}

func IncreaseDirectUpdateCount() {
	nodeMetrics.directUpdateTotal.Inc()
}

func IncreasePanicCount() {
	nodeMetrics.panicCount.Inc()
}
