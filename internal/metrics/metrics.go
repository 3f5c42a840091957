package metrics

import "github.com/prometheus/client_golang/prometheus"

// Matching groups the collectors of the matching engine. A nil *Matching records nothing.
type Matching struct {
	OffersCreated        *prometheus.CounterVec
	Outcomes             *prometheus.CounterVec
	NotificationFailures prometheus.Counter
	GeoRangeQueries      prometheus.Counter
	AssignmentsExpired   prometheus.Counter
	PublishRetries       prometheus.Counter
}

// NewMatching returns unregistered matching collectors.
func NewMatching() *Matching {
	return &Matching{
		OffersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matching_offers_created_total",
			Help: "Total number of offers created, by assignment kind",
		}, []string{"kind"}),
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matching_outcomes_total",
			Help: "Total number of donation matching status changes, by status",
		}, []string{"status"}),
		NotificationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matching_notification_failures_total",
			Help: "Total number of push notifications that could not be sent",
		}),
		GeoRangeQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matching_geo_range_queries_total",
			Help: "Total number of geohash range queries issued",
		}),
		AssignmentsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matching_assignments_expired_total",
			Help: "Total number of pending assignments moved to expired by the sweep",
		}),
		PublishRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matching_publish_retries_total",
			Help: "Total number of retried event publications",
		}),
	}
}

// Register registers all collectors with reg.
func (m *Matching) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.OffersCreated, m.Outcomes, m.NotificationFailures, m.GeoRangeQueries, m.AssignmentsExpired, m.PublishRetries,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// OfferCreated counts a new offer of kind.
func (m *Matching) OfferCreated(kind string) {
	if m == nil {
		return
	}
	m.OffersCreated.WithLabelValues(kind).Inc()
}

// Outcome counts a donation reaching status.
func (m *Matching) Outcome(status string) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(status).Inc()
}

// NotificationFailed counts a failed push notification.
func (m *Matching) NotificationFailed() {
	if m == nil {
		return
	}
	m.NotificationFailures.Inc()
}

// Expired counts n assignments moved to expired.
func (m *Matching) Expired(n int) {
	if m == nil {
		return
	}
	m.AssignmentsExpired.Add(float64(n))
}
