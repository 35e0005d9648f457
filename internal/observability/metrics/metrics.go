package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	packagesSold       prometheus.Counter
	sessionsConsumed   prometheus.Counter
	commissionRecorded *prometheus.CounterVec
	reportsExported    *prometheus.CounterVec
}

// New registers the domain instruments on the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the domain instruments on the given registerer.
// Tests pass a fresh prometheus.NewRegistry to avoid collisions.
func NewWith(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		packagesSold: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agendabela_packages_sold_total",
			Help: "Package sales completed, renewals included.",
		}),
		sessionsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agendabela_sessions_consumed_total",
			Help: "Package sessions debited from balances.",
		}),
		commissionRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agendabela_commission_records_total",
			Help: "Commission ledger entries written.",
		}, []string{"source"}),
		reportsExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agendabela_reports_exported_total",
			Help: "Period reports exported.",
		}, []string{"format"}),
	}

	for _, collector := range []prometheus.Collector{
		m.packagesSold,
		m.sessionsConsumed,
		m.commissionRecorded,
		m.reportsExported,
	} {
		if err := registerer.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}

	return m
}

func (m *Metrics) PackageSold() {
	if m == nil {
		return
	}
	m.packagesSold.Inc()
}

func (m *Metrics) SessionsConsumed(sessions int) {
	if m == nil || sessions <= 0 {
		return
	}
	m.sessionsConsumed.Add(float64(sessions))
}

func (m *Metrics) CommissionRecorded(source string) {
	if m == nil {
		return
	}
	m.commissionRecorded.WithLabelValues(source).Inc()
}

func (m *Metrics) ReportExported(format string) {
	if m == nil {
		return
	}
	m.reportsExported.WithLabelValues(format).Inc()
}
