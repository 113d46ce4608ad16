// Package metrics exposes Prometheus counters for task activity, insight calls and HTTP traffic.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

type Collector struct {
	activities *prometheus.CounterVec
	insights   *prometheus.CounterVec
	httpStatus *prometheus.CounterVec
}

// NewCollector registers the collectors on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		activities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nexus_activity_recorded_total",
			Help: "Activity log entries recorded, by action.",
		}, []string{"action"}),
		insights: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nexus_insight_requests_total",
			Help: "Insight generation attempts, by outcome.",
		}, []string{"outcome"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nexus_http_responses_total",
			Help: "HTTP responses, by status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(c.activities, c.insights, c.httpStatus)
	return c
}

func (c *Collector) ObserveAction(action string) {
	c.activities.WithLabelValues(action).Inc()
}

func (c *Collector) ObserveInsight(outcome string) {
	c.insights.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler serves the Prometheus scrape endpoint on fasthttp.
func Handler(gatherer prometheus.Gatherer) fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
