package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TeamsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "onboarding_teams_created_total",
		Help: "Teams created on the SCA platform",
	})

	MembersAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "onboarding_members_added_total",
		Help: "Maintainers added to platform teams",
	})

	Invitations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onboarding_invitations_total",
		Help: "Platform invitations by result",
	}, []string{"result"})

	IssuesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onboarding_issues_processed_total",
		Help: "Onboarding issues by outcome",
	}, []string{"outcome"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)
