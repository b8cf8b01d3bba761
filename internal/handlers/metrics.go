package handlers

import "github.com/prometheus/client_golang/prometheus"

type FormMetrics struct {
	ContactRequests    *prometheus.CounterVec
	MembershipRequests *prometheus.CounterVec
}

func (m *FormMetrics) IncContact(status string) {
	if m == nil || m.ContactRequests == nil {
		return
	}

	m.ContactRequests.WithLabelValues(status).Inc()
}

func (m *FormMetrics) IncMembership(status string) {
	if m == nil || m.MembershipRequests == nil {
		return
	}

	m.MembershipRequests.WithLabelValues(status).Inc()
}
