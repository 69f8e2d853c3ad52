package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus is a Recorder backed by prometheus/client_golang
// counters/gauges, with an HdrHistogram-go histogram tracking put latency
// at high resolution between Prometheus scrapes. The gauge vector below
// exports select quantiles from it rather than a second, coarser
// Prometheus histogram.
type Prometheus struct {
	hist *hdrhistogram.Histogram

	putLatencyQuantile *prometheus.GaugeVec
	rotations          prometheus.Counter
	flushDispatches    *prometheus.CounterVec
	immutableCount     prometheus.Gauge
}

// NewPrometheus registers a fresh set of collectors on reg and returns a
// Recorder backed by them.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	p := &Prometheus{
		hist: hdrhistogram.New(1, int64(10*time.Second), 3),
		putLatencyQuantile: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "put_latency_seconds",
			Help:      "Quantiles of TseriesFamily.Put latency.",
		}, []string{"quantile"}),
		rotations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rotations_total",
			Help:      "Count of mutable-to-immutable rotations.",
		}),
		flushDispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flush_dispatches_total",
			Help:      "Count of FlushReq enqueues, by kind.",
		}, []string{"kind"}),
		immutableCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "immutable_cache_count",
			Help:      "Current length of the immutable cache list.",
		}),
	}
	reg.MustRegister(p.putLatencyQuantile, p.rotations, p.flushDispatches, p.immutableCount)
	return p
}

func (p *Prometheus) ObservePut(d time.Duration) {
	_ = p.hist.RecordValue(d.Microseconds())
	for _, q := range []float64{0.5, 0.9, 0.99} {
		v := time.Duration(p.hist.ValueAtQuantile(q*100)) * time.Microsecond
		p.putLatencyQuantile.WithLabelValues(quantileLabel(q)).Set(v.Seconds())
	}
}

func (p *Prometheus) IncRotation() {
	p.rotations.Inc()
}

func (p *Prometheus) IncFlushDispatch(isDelta bool) {
	kind := "immutable"
	if isDelta {
		kind = "delta"
	}
	p.flushDispatches.WithLabelValues(kind).Inc()
}

func (p *Prometheus) SetImmutableCount(n int) {
	p.immutableCount.Set(float64(n))
}

func quantileLabel(q float64) string {
	switch q {
	case 0.5:
		return "p50"
	case 0.9:
		return "p90"
	case 0.99:
		return "p99"
	default:
		return "p?"
	}
}

var _ Recorder = (*Prometheus)(nil)
