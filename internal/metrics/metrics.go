// Package metrics регистрирует метрики Prometheus для HTTP-сервера
// и бизнес-событий магазина. Метрики отдаются на /metrics через promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal — счетчик HTTP-запросов по методу, маршруту и коду ответа.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "online_shop_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration — гистограмма длительности HTTP-запросов в секундах.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "online_shop_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// OrdersCreatedTotal — счетчик успешно оформленных заказов.
	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "online_shop_orders_created_total",
			Help: "Total number of successfully placed orders.",
		},
	)

	// OrderTotalPrice — гистограмма сумм заказов в копейках.
	OrderTotalPrice = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "online_shop_order_total_price",
			Help:    "Distribution of order totals, in kopecks.",
			Buckets: prometheus.ExponentialBuckets(10000, 4, 8),
		},
	)
)
