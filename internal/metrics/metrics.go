package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "baradari_ws_connections",
		Help: "Current number of active websocket connections",
	})
	MessagesSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "baradari_messages_sent_total",
		Help: "Total number of chat messages sent",
	})
	ChatsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "baradari_chats_created_total",
		Help: "Total number of chats created by the resolver",
	})
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
	prometheus.MustRegister(WsConnections, MessagesSentTotal, ChatsCreatedTotal, HTTPRequestsTotal, HTTPRequestDuration)
}

// GinMiddleware records basic per-route request metrics.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HTTPRequestsTotal.With(labels).Inc()
		HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
