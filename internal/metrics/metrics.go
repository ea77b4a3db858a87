package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request duration seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "http_in_flight_requests", Help: "In-flight HTTP requests"},
	)

	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "account_registrations_total", Help: "Registration attempts"},
		[]string{"result"},
	)
	VerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "account_verifications_total", Help: "Email verification attempts"},
		[]string{"result"},
	)
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "account_logins_total", Help: "Login attempts"},
		[]string{"result"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		RequestsTotal, ReqDuration, InFlight,
		RegistrationsTotal, VerificationsTotal, LoginsTotal,
	)
}
