package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Recorder traduz os eventos de requisição em chamadas ao Provider.
// Falhas no envio nunca interrompem a requisição, apenas são logadas.
type Recorder struct {
	provider Provider
	tags     []string
}

// NewRecorder cria um Recorder. baseTags é anexado a todas as métricas.
func NewRecorder(provider Provider, baseTags ...string) *Recorder {
	return &Recorder{provider: provider, tags: baseTags}
}

// Request registra o contador e a latência de uma operação.
func (r *Recorder) Request(operation string, status int, latency time.Duration) {
	if r == nil {
		return
	}
	tags := r.with("operation:"+operation, "status:"+strconv.Itoa(status))
	r.report(MetricRequest, r.provider.Count(MetricRequest, 1, tags))
	r.report(MetricLatency, r.provider.Histogram(MetricLatency, float64(latency.Milliseconds()), tags))
}

// ListedItems registra quantos registros a listagem devolveu.
func (r *Recorder) ListedItems(n int) {
	if r == nil {
		return
	}
	r.report(MetricListedItems, r.provider.Gauge(MetricListedItems, float64(n), r.with()))
}

// EventFailure registra uma falha ao publicar um evento de alteração.
func (r *Recorder) EventFailure(event string) {
	if r == nil {
		return
	}
	r.report(MetricEventFailure, r.provider.Count(MetricEventFailure, 1, r.with("event:"+event)))
}

func (r *Recorder) with(extra ...string) []string {
	tags := make([]string, 0, len(r.tags)+len(extra))
	tags = append(tags, r.tags...)
	return append(tags, extra...)
}

func (r *Recorder) report(name string, err error) {
	if err != nil {
		log.Warn().Err(fmt.Errorf("métrica %s: %w", name, err)).Msg("falha ao enviar métrica")
	}
}
