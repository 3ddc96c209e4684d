package spawn

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const outcomeSuccess = "success"

// Metrics counts launches by outcome and records how long they take.
// A nil *Metrics records nothing.
type Metrics struct {
	launches *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates launch metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		launches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spawn",
			Name:      "launches_total",
			Help:      "Launch attempts by outcome (success or failure kind).",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spawn",
			Name:      "launch_duration_seconds",
			Help:      "Time from launch request to process creation or failure.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
	}
	for _, c := range []prometheus.Collector{m.launches, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.launches.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}
