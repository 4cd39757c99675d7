// Package metrics holds the Prometheus collectors of the site
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "portfolio"

// Metrics reports request and engagement counters. A nil *Metrics records
// nothing.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	pageRenders     *prometheus.CounterVec
	pageCacheHits   prometheus.Counter
	resumeDownloads *prometheus.CounterVec
	outboundClicks  *prometheus.CounterVec
	contactMessages *prometheus.CounterVec
	contentReloads  *prometheus.CounterVec
}

// MustNewMetrics registers the collectors with reg, the default registerer
// when nil. Registration errors panic.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		pageRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_renders_total",
			Help:      "Full page renders by resolved theme.",
		}, []string{"theme"}),
		pageCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_cache_hits_total",
			Help:      "Pages served from the render cache.",
		}),
		resumeDownloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resume_requests_total",
			Help:      "Resume requests by disposition.",
		}, []string{"disposition"}),
		outboundClicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbound_clicks_total",
			Help:      "Followed outbound links by source.",
		}, []string{"source"}),
		contactMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_messages_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"outcome"}),
		contentReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_reloads_total",
			Help:      "Content file reloads by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.pageRenders, m.pageCacheHits,
		m.resumeDownloads, m.outboundClicks, m.contactMessages, m.contentReloads)
	return m
}

// ObserveRequest records a finished request
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) PageRendered(theme string) {
	if m == nil {
		return
	}
	if theme == "" {
		theme = "unresolved"
	}
	m.pageRenders.WithLabelValues(theme).Inc()
}

func (m *Metrics) PageCacheHit() {
	if m == nil {
		return
	}
	m.pageCacheHits.Inc()
}

// ResumeServed counts inline views and downloads
func (m *Metrics) ResumeServed(download bool) {
	if m == nil {
		return
	}
	d := "inline"
	if download {
		d = "attachment"
	}
	m.resumeDownloads.WithLabelValues(d).Inc()
}

func (m *Metrics) OutboundClick(source string) {
	if m == nil {
		return
	}
	m.outboundClicks.WithLabelValues(source).Inc()
}

// ContactMessage counts submissions: sent, stored, invalid, limited or failed
func (m *Metrics) ContactMessage(outcome string) {
	if m == nil {
		return
	}
	m.contactMessages.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ContentReloaded(ok bool) {
	if m == nil {
		return
	}
	r := "ok"
	if !ok {
		r = "error"
	}
	m.contentReloads.WithLabelValues(r).Inc()
}
