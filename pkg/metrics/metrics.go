package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coivault"

type Metrics struct {
	registry *prometheus.Registry

	httpReqCnt *prometheus.CounterVec
	httpDur    *prometheus.HistogramVec
	httpInfl   *prometheus.GaugeVec

	webhookCnt *prometheus.CounterVec
	webhookDur *prometheus.HistogramVec

	reminderDocs   prometheus.Counter
	reminderOrgs   prometheus.Counter
	reminderEmails *prometheus.CounterVec

	rateLimited *prometheus.CounterVec
	quotaDenied *prometheus.CounterVec
}

func New() *Metrics {
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests handled."}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency.", Buckets: prometheus.DefBuckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: "http_requests_inflight", Help: "HTTP requests in flight."}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	webhookCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Subsystem: "billing", Name: "webhook_events_total", Help: "Billing webhook events by type and outcome."}, []string{"type", "outcome"})
	webhookDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Subsystem: "billing", Name: "webhook_duration_seconds", Help: "Billing webhook processing time.", Buckets: prometheus.DefBuckets}, []string{"type"})
	r.MustRegister(webhookCnt, webhookDur)

	reminderDocs := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Subsystem: "reminders", Name: "documents_matched_total", Help: "Documents found expiring by reminder sweeps."})
	reminderOrgs := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Subsystem: "reminders", Name: "organizations_notified_total", Help: "Organizations grouped by reminder sweeps."})
	reminderEmails := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Subsystem: "reminders", Name: "emails_total", Help: "Reminder emails by result."}, []string{"result"})
	r.MustRegister(reminderDocs, reminderOrgs, reminderEmails)

	rateLimited := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "rate_limited_total", Help: "Requests rejected by the rate limiter."}, []string{"route"})
	quotaDenied := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "quota_denied_total", Help: "Creates rejected by plan limits."}, []string{"resource", "plan"})
	r.MustRegister(rateLimited, quotaDenied)

	return &Metrics{
		registry:       r,
		httpReqCnt:     httpReqCnt,
		httpDur:        httpDur,
		httpInfl:       httpInfl,
		webhookCnt:     webhookCnt,
		webhookDur:     webhookDur,
		reminderDocs:   reminderDocs,
		reminderOrgs:   reminderOrgs,
		reminderEmails: reminderEmails,
		rateLimited:    rateLimited,
		quotaDenied:    quotaDenied,
	}
}

func (m *Metrics) WebhookDone(eventType, outcome string, since time.Time) {
	m.webhookCnt.WithLabelValues(eventType, outcome).Inc()
	m.webhookDur.WithLabelValues(eventType).Observe(time.Since(since).Seconds())
}

func (m *Metrics) ReminderSweepDone(documents, organizations, sent, failed int) {
	m.reminderDocs.Add(float64(documents))
	m.reminderOrgs.Add(float64(organizations))
	m.reminderEmails.WithLabelValues("sent").Add(float64(sent))
	m.reminderEmails.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) RateLimited(route string) {
	m.rateLimited.WithLabelValues(route).Inc()
}

func (m *Metrics) QuotaDenied(resource, plan string) {
	m.quotaDenied.WithLabelValues(resource, plan).Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
