package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "weather_tagger",
			Name:      "fetch_requests_total",
			Help:      "City fetch requests by outcome (stored, invalid, failed).",
		},
		[]string{"outcome"},
	)

	listTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "weather_tagger",
			Name:      "list_requests_total",
			Help:      "Successful listing requests.",
		},
	)

	tagUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "weather_tagger",
			Name:      "tag_updates_total",
			Help:      "Successful tag replacements.",
		},
	)
)

func metricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
