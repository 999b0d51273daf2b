package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/beego/beego/v2/server/web/context"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpReqTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpReqDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "HTTP request duration in ms",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"path", "method"},
	)
)

// HTTPMetricsFilter 记录 HTTP 请求开始时间
func HTTPMetricsFilter(ctx *context.Context) {
	ctx.Input.SetData("_metrics_start", time.Now())
}

// HTTPMetricsAfter 在响应完成后记录耗时与状态码
func HTTPMetricsAfter(ctx *context.Context) {
	v := ctx.Input.GetData("_metrics_start")
	start, _ := v.(time.Time)
	if start.IsZero() {
		return
	}
	dur := time.Since(start).Milliseconds()
	path := normalizePath(ctx.Input.URL())
	method := ctx.Input.Method()
	status := ctx.ResponseWriter.Status
	httpReqDuration.WithLabelValues(path, method).Observe(float64(dur))
	httpReqTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
}

// normalizePath 将路径中的回合ID段归一化，控制 label 基数。
// 形如 /api/games/mines/round/{uuid}/action -> /api/games/mines/round/:round_id/action
func normalizePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		if len(s) >= 32 || looksLikeUUID(s) {
			parts[i] = ":round_id"
		}
	}
	return strings.Join(parts, "/")
}

func looksLikeUUID(s string) bool {
	return len(s) == 36 && strings.Count(s, "-") == 4
}
