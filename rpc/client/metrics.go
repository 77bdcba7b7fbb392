package client

import (
	"fmt"
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// operation names used as metric labels
const (
	opCreate = "create"
	opGet    = "get"
	opSet    = "set"
	opDelete = "delete"
	opList   = "list"
)

// observe records one request of op that started at start
func observe(op string, start time.Time, ok bool) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`cloudkv_client_requests_total{op=%q}`, op)).Inc()
	metrics.GetOrCreateHistogram(fmt.Sprintf(`cloudkv_client_request_duration_seconds{op=%q}`, op)).UpdateDuration(start)
	if !ok {
		metrics.GetOrCreateCounter(fmt.Sprintf(`cloudkv_client_errors_total{op=%q}`, op)).Inc()
	}
}

// RequestCount returns how many requests of op were sent by this process
func RequestCount(op string) uint64 {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`cloudkv_client_requests_total{op=%q}`, op)).Get()
}

// WriteMetrics writes all client metrics in Prometheus text format to w
func WriteMetrics(w io.Writer) {
	metrics.WritePrometheus(w, false)
}
