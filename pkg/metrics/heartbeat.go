package metrics

import "github.com/prometheus/client_golang/prometheus"

// HeartbeatMetrics tracks availability pings sent by the heartbeat daemon.
type HeartbeatMetrics struct {
	ticks    prometheus.Counter
	failures prometheus.Counter
}

// NewHeartbeatMetrics registers heartbeat counters on the provided registerer.
func NewHeartbeatMetrics(reg prometheus.Registerer) *HeartbeatMetrics {
	if reg == nil {
		return &HeartbeatMetrics{}
	}
	ticks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "partner_heartbeat_ticks",
		Help: "Availability pings attempted.",
	})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "partner_heartbeat_failures",
		Help: "Availability pings that failed.",
	})
	reg.MustRegister(ticks, failures)
	return &HeartbeatMetrics{ticks: ticks, failures: failures}
}

// IncTick counts one heartbeat attempt.
func (m *HeartbeatMetrics) IncTick() {
	if m == nil || m.ticks == nil {
		return
	}
	m.ticks.Inc()
}

// IncFailure counts one failed heartbeat.
func (m *HeartbeatMetrics) IncFailure() {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.Inc()
}
