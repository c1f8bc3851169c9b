package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AuthMetrics records outcomes of authentication operations.
type AuthMetrics struct {
	duration      *prometheus.HistogramVec
	loginSuccess  prometheus.Counter
	loginFailure  prometheus.Counter
	registrations prometheus.Counter
}

// NewAuthMetrics registers the auth metrics on the provided registerer.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	if reg == nil {
		return &AuthMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "auth_operation_duration_seconds",
		Help:    "Duration of authentication operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	loginSuccess := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_login_success_total",
		Help: "Successful logins.",
	})
	loginFailure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_login_failure_total",
		Help: "Rejected logins.",
	})
	registrations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Accounts created through registration.",
	})
	reg.MustRegister(duration, loginSuccess, loginFailure, registrations)
	return &AuthMetrics{
		duration:      duration,
		loginSuccess:  loginSuccess,
		loginFailure:  loginFailure,
		registrations: registrations,
	}
}

// ObserveDuration records the duration for the named operation.
func (a *AuthMetrics) ObserveDuration(operation string, duration time.Duration) {
	if a == nil || a.duration == nil {
		return
	}
	a.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncLoginSuccess increments the successful login counter.
func (a *AuthMetrics) IncLoginSuccess() {
	if a == nil || a.loginSuccess == nil {
		return
	}
	a.loginSuccess.Inc()
}

// IncLoginFailure increments the rejected login counter.
func (a *AuthMetrics) IncLoginFailure() {
	if a == nil || a.loginFailure == nil {
		return
	}
	a.loginFailure.Inc()
}

// IncRegistration increments the registration counter.
func (a *AuthMetrics) IncRegistration() {
	if a == nil || a.registrations == nil {
		return
	}
	a.registrations.Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
