// Package metrics содержит коллекторы Prometheus витрины.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal запросы по маршруту, методу и коду ответа.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	// HTTPRequestDuration длительность обработки запросов.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	SubscriptionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "subscriptions_created_total",
		Help:      "Subscriptions created by plan interval.",
	}, []string{"interval"})

	SubscriptionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "subscriptions_expired_total",
		Help:      "Subscriptions moved to expired by the scheduler.",
	})

	// TransactionsTotal переходы транзакций по статусам.
	TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "crypto_transactions_total",
		Help:      "Crypto transactions recorded or updated, by status.",
	}, []string{"status"})

	ActiveSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "storefront",
		Name:      "active_subscriptions",
		Help:      "Active subscriptions at the last statistics computation.",
	})

	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "notifications_published_total",
		Help:      "Email notifications handed to the broker, by template and result.",
	}, []string{"template", "result"})
)
