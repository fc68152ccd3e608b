// Package metrics, Prometheus sayaçlarını tek yerde toplar.
//
// Tüm collector'lar package-level tanımlanır ve init() içinde default
// registry'ye kaydedilir; /metrics endpoint'i promhttp.Handler() ile servis
// edilir. Uygulama kodu doğrudan bu değişkenleri kullanır — ayrıca bir
// dependency injection katmanı gerekmez.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PollsTotal, poll isteklerini mod ve sonuca göre sayar.
	// mode: blocking|non_blocking, outcome: events|empty|timeout
	PollsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatsync_polls_total",
		Help: "Total number of sync poll requests by mode and outcome",
	}, []string{"mode", "outcome"})

	// CollectsTotal, collector turlarını kaynağa göre sayar.
	// source: queue (fast path) | fallback (DB range scan) | empty
	CollectsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatsync_collects_total",
		Help: "Total number of event collections by source path",
	}, []string{"source"})

	// QueueOpsTotal, ephemeral queue operasyonlarını sonuca göre sayar.
	// op: append|consume, result: ok|error
	QueueOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatsync_queue_ops_total",
		Help: "Total number of ephemeral queue operations",
	}, []string{"op", "result"})

	// QueueEvictionsTotal, queue'dan tüketilmeden düşen entry sayısı.
	// reason: trim (maxLen aşımı) | ttl (key süresi doldu)
	// Evict edilen event kaybolmaz — DB fallback telafi eder; bu sayaç
	// queue boyutlandırmasının (TTL / maxLen) yeterliliğini izlemek içindir.
	QueueEvictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatsync_queue_evictions_total",
		Help: "Total number of queue entries evicted before consumption",
	}, []string{"reason"})

	// EventsDeliveredTotal, client'lara teslim edilen event sayısı (türe göre).
	EventsDeliveredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatsync_events_delivered_total",
		Help: "Total number of sync events delivered to clients",
	}, []string{"type"})

	// BlockingWaitSeconds, blocking poll'lerin gerçek bekleme süresi.
	// Bucket'lar poll penceresine göre seçildi (1s tick, 30s clamp).
	BlockingWaitSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chatsync_blocking_wait_seconds",
		Help:    "Observed wait duration of blocking sync polls",
		Buckets: []float64{0.05, 0.25, 1, 2, 5, 10, 20, 30},
	})

	// HTTPRequestsTotal / HTTPRequestDuration, genel HTTP istek metrikleri.
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(
		PollsTotal,
		CollectsTotal,
		QueueOpsTotal,
		QueueEvictionsTotal,
		EventsDeliveredTotal,
		BlockingWaitSeconds,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// statusRecorder, WriteHeader'ı yakalayıp status kodunu saklar.
// http.ResponseWriter'ı sarmalamadan status koduna erişmenin yolu yoktur.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware, temel istek metriklerini toplayan HTTP middleware'i.
//
// Path label'ı olarak ServeMux'un eşleşen pattern'i kullanılır (r.Pattern),
// ham URL değil — aksi halde /api/channels/1, /api/channels/2 ... ayrı
// serilere bölünüp cardinality patlatırdı.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"path":   path,
			"status": strconv.Itoa(rec.status),
		}
		HTTPRequestsTotal.With(labels).Inc()
		HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	})
}
