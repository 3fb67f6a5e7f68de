// metrics — prometheus-метрики шлюза: входящие HTTP-запросы и вызовы апстрима.
// Регистр передаётся явно, чтобы тесты не делили глобальный DefaultRegisterer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nyt_gateway"

// Исходы вызова апстрима (label outcome).
const (
	OutcomeOK        = "ok"
	OutcomeStatus    = "status_error"
	OutcomeTransport = "transport_error"
	OutcomeDecode    = "decode_error"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec

	dispatched *prometheus.CounterVec
}

// New создаёт набор метрик на собственном регистре (+ go/process коллекторы).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Inbound HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Inbound HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Outbound NYT API calls by endpoint family and outcome.",
		}, []string{"endpoint", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Outbound NYT API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatcher",
			Name:      "messages_total",
			Help:      "Dispatched envelopes by message type and result.",
		}, []string{"message_type", "result"}),
	}

	reg.MustRegister(m.httpRequests, m.httpDuration, m.upstreamRequests, m.upstreamDuration, m.dispatched)

	return m
}

// Handler — /metrics поверх собственного регистра.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry нужен тестам и для подключения сторонних коллекторов.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveHTTP(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}

	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ObserveUpstream(endpoint, outcome string, dur time.Duration) {
	if m == nil {
		return
	}

	m.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.upstreamDuration.WithLabelValues(endpoint).Observe(dur.Seconds())
}

func (m *Metrics) ObserveDispatch(messageType, result string) {
	if m == nil {
		return
	}

	m.dispatched.WithLabelValues(messageType, result).Inc()
}

// HTTPRequests/UpstreamRequests/Dispatched — доступ к счётчикам для testutil.
func (m *Metrics) HTTPRequests() *prometheus.CounterVec     { return m.httpRequests }
func (m *Metrics) UpstreamRequests() *prometheus.CounterVec { return m.upstreamRequests }
func (m *Metrics) Dispatched() *prometheus.CounterVec       { return m.dispatched }
