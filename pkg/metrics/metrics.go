package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChallengesIssued counts email verification challenges by result (success|error|rate_limited).
	ChallengesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ymango_email_challenges_total",
			Help: "Total number of email verification challenges issued",
		},
		[]string{"result"},
	)

	// VerificationAttempts counts code submissions by result (verified|invalid|error).
	VerificationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ymango_email_verification_attempts_total",
			Help: "Total number of email verification code submissions",
		},
		[]string{"result"},
	)

	// SignupAttempts counts account creation attempts by result
	// (success|not_verified|duplicate|invalid|error).
	SignupAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ymango_signup_attempts_total",
			Help: "Total number of signup attempts",
		},
		[]string{"result"},
	)

	// CompanyResolutions counts company lookups by outcome (canonical|transient).
	CompanyResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ymango_company_resolutions_total",
			Help: "Total number of company resolutions",
		},
		[]string{"outcome"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ymango_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
