package metrics

// Provider define o contrato para envio de métricas.
// Isso permite trocar Datadog por Prometheus ou Logging sem alterar a lógica de negócio.
type Provider interface {
	Count(name string, value float64, tags []string) error
	Gauge(name string, value float64, tags []string) error
	Histogram(name string, value float64, tags []string) error
}

// Nomes das métricas emitidas pelos handlers.
const (
	MetricRequest      = "request"
	MetricLatency      = "request.latency_ms"
	MetricListedItems  = "list.items"
	MetricEventFailure = "events.publish_failed"
)
