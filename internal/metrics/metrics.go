// Package metrics define las métricas Prometheus del servicio.
// Un *Metrics nil es válido: todos los métodos son no-op.
package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec
	rateLimitedTotal    *prometheus.CounterVec

	// Dominio
	registrationsTotal *prometheus.CounterVec
	loginsTotal        *prometheus.CounterVec
	codesIssuedTotal   *prometheus.CounterVec
	codesVerifiedTotal *prometheus.CounterVec
	matchEventsTotal   *prometheus.CounterVec
	deliveryFailures   *prometheus.CounterVec
}

// New crea y registra las métricas y los collectors extra (ej: pool de pg).
// reg nil usa un registry propio.
func New(reg *prometheus.Registry, extra ...prometheus.Collector) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método",
		}, []string{"method"}),
		rateLimitedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rechazadas por rate limit",
		}, []string{"bucket"}),
		registrationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentorlink_registrations_total",
			Help: "Identidades creadas por rol",
		}, []string{"role"}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentorlink_logins_total",
			Help: "Intentos de login por resultado",
		}, []string{"result"}), // ok | invalid_credentials | not_approved
		codesIssuedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentorlink_codes_issued_total",
			Help: "Códigos de verificación emitidos",
		}, []string{"purpose"}),
		codesVerifiedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentorlink_codes_verified_total",
			Help: "Verificaciones de código por resultado",
		}, []string{"purpose", "result"}),
		matchEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentorlink_match_events_total",
			Help: "Transiciones de matches",
		}, []string{"event"}), // confirmed | accepted | declined
		deliveryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentorlink_email_delivery_failures_total",
			Help: "Emails que no se pudieron entregar",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{
		m.httpRequestsTotal, m.httpRequestDuration, m.httpInflight, m.rateLimitedTotal,
		m.registrationsTotal, m.loginsTotal, m.codesIssuedTotal, m.codesVerifiedTotal,
		m.matchEventsTotal, m.deliveryFailures,
	} {
		if err := registerCollector(reg, c); err != nil {
			return nil, err
		}
	}
	for _, c := range extra {
		if err := registerCollector(reg, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// registerCollector registra el collector ignorando duplicados.
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// ─── HTTP ───

func (m *Metrics) RequestStarted(method string) {
	if m == nil {
		return
	}
	m.httpInflight.WithLabelValues(method).Inc()
}

func (m *Metrics) RequestDone(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpInflight.WithLabelValues(method).Dec()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) RateLimited(bucket string) {
	if m == nil {
		return
	}
	m.rateLimitedTotal.WithLabelValues(bucket).Inc()
}

// ─── Dominio ───

func (m *Metrics) Registered(role string) {
	if m == nil {
		return
	}
	m.registrationsTotal.WithLabelValues(role).Inc()
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) CodeIssued(purpose string) {
	if m == nil {
		return
	}
	m.codesIssuedTotal.WithLabelValues(purpose).Inc()
}

func (m *Metrics) CodeVerified(purpose, result string) {
	if m == nil {
		return
	}
	m.codesVerifiedTotal.WithLabelValues(purpose, result).Inc()
}

func (m *Metrics) MatchEvent(event string) {
	if m == nil {
		return
	}
	m.matchEventsTotal.WithLabelValues(event).Inc()
}

func (m *Metrics) DeliveryFailed(kind string) {
	if m == nil {
		return
	}
	m.deliveryFailures.WithLabelValues(kind).Inc()
}

// ─── Labels ───

var (
	uuidSegmentRE = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F-]{4}-[0-9a-fA-F-]{4,}$`)
	hexSegmentRE  = regexp.MustCompile(`^[0-9a-fA-F]{16,}$`)
)

// NormalizePath reemplaza segmentos dinámicos por ":param" para acotar la
// cardinalidad del label route cuando no hay patrón de chi disponible.
func NormalizePath(p string) string {
	clean := strings.SplitN(p, "?", 2)[0]
	var out []string
	for _, seg := range strings.Split(clean, "/") {
		if seg == "" {
			continue
		}
		if isDynamicSegment(seg) {
			seg = ":param"
		}
		out = append(out, seg)
	}
	if len(out) == 0 {
		return "/"
	}
	return "/" + strings.Join(out, "/")
}

func isDynamicSegment(seg string) bool {
	if len(seg) > 48 || uuidSegmentRE.MatchString(seg) || hexSegmentRE.MatchString(seg) {
		return true
	}
	_, err := strconv.Atoi(seg)
	return err == nil
}
