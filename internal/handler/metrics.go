package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "birthday_signups_total",
		Help: "Total number of successful user registrations.",
	})

	signinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "birthday_signins_total",
		Help: "Total number of successful signins.",
	})

	subscriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birthday_subscription_changes_total",
			Help: "Total number of subscription changes by operation.",
		},
		[]string{"operation"},
	)

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birthday_token_verifications_total",
			Help: "Total number of bearer token verification attempts by status.",
		},
		[]string{"status"},
	)
)
