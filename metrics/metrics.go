// Package metrics exposes Prometheus counters for the device and the server serving them.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "xpub_device"

var (
	apduTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "apdu_total",
		Help:      "Processed APDU commands by instruction and status word.",
	}, []string{"ins", "status"})

	confirmationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "confirmations_total",
		Help:      "On-device confirmation prompts by outcome.",
	}, []string{"result"})
)

// RecordAPDU counts a processed command.
func RecordAPDU(ins byte, status fmt.Stringer) {
	apduTotal.WithLabelValues(fmt.Sprintf("0x%02X", ins), status.String()).Inc()
}

// RecordConfirmation counts an answered confirmation prompt.
func RecordConfirmation(approved bool) {
	result := "denied"
	if approved {
		result = "approved"
	}
	confirmationsTotal.WithLabelValues(result).Inc()
}

// MetricsServer serves the default Prometheus registry on /metrics.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server listening on addr.
func New(addr string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &MetricsServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
