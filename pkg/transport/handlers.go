package transport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/raywall/student-records/dyndb"
	"github.com/raywall/student-records/pkg/metrics"
	"github.com/raywall/student-records/pkg/student"
	"github.com/rs/zerolog/log"
)

const (
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"

	// MethodsList e MethodsInsert são anunciados no CORS de cada função.
	MethodsList   = "GET,OPTIONS"
	MethodsInsert = "POST,OPTIONS"
	MethodsAll    = "GET,POST,OPTIONS"

	// SavedMessage é o corpo (string JSON) de um insert bem sucedido.
	SavedMessage = "Student data saved successfully!"
)

type contextKey string

// ContextKeyCorrID guarda o correlation id no contexto da requisição.
const ContextKeyCorrID contextKey = "correlation_id"

// CorrelationID devolve o id da requisição corrente, se houver.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyCorrID).(string)
	return id
}

// Repository é o que os handlers precisam do armazenamento.
type Repository interface {
	List(ctx context.Context) ([]dyndb.Document, error)
	Save(ctx context.Context, rec student.Record) error
}

// LambdaFunc é a assinatura de um handler de API Gateway.
type LambdaFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Handlers adapta eventos do API Gateway para o repositório de alunos.
// Todo erro vira 500 com {"error": "..."}; o erro devolvido ao runtime é
// sempre nil.
type Handlers struct {
	repo     Repository
	notifier student.Notifier
	metrics  *metrics.Recorder
	timeout  time.Duration
}

// Option customiza os Handlers.
type Option func(*Handlers)

// WithNotifier publica um evento a cada insert bem sucedido.
func WithNotifier(n student.Notifier) Option {
	return func(h *Handlers) { h.notifier = n }
}

// WithMetrics habilita as métricas de requisição.
func WithMetrics(r *metrics.Recorder) Option {
	return func(h *Handlers) { h.metrics = r }
}

// WithTimeout aplica um deadline a cada requisição.
func WithTimeout(d time.Duration) Option {
	return func(h *Handlers) { h.timeout = d }
}

func NewHandlers(repo Repository, opts ...Option) *Handlers {
	h := &Handlers{repo: repo, notifier: student.NoopNotifier{}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// List devolve todos os alunos como array JSON.
func (h *Handlers) List(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return h.observe(ctx, req, "list", MethodsList, h.list), nil
}

// Insert grava o aluno enviado no corpo.
func (h *Handlers) Insert(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return h.observe(ctx, req, "insert", MethodsInsert, h.insert), nil
}

// Preflight responde OPTIONS anunciando os métodos informados.
func (h *Handlers) Preflight(methods string) LambdaFunc {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return h.observe(ctx, req, "preflight", methods, nil), nil
	}
}

// Dispatch escolhe o handler pelo método HTTP, para quando uma única função
// atende a rota inteira.
func (h *Handlers) Dispatch(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch req.HTTPMethod {
	case http.MethodGet:
		return h.List(ctx, req)
	case http.MethodPost:
		return h.Insert(ctx, req)
	case http.MethodOptions:
		return h.Preflight(MethodsAll)(ctx, req)
	default:
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusMethodNotAllowed,
			Headers: map[string]string{
				"Access-Control-Allow-Origin": "*",
				"Allow":                       MethodsAll,
				"Content-Type":                "application/json",
			},
			Body: string(errorBody(fmt.Errorf("method %s not allowed", req.HTTPMethod))),
		}, nil
	}
}

type operation func(ctx context.Context, req events.APIGatewayProxyRequest) (int, []byte, error)

func (h *Handlers) observe(ctx context.Context, req events.APIGatewayProxyRequest, name, methods string, op operation) events.APIGatewayProxyResponse {
	start := time.Now()

	corrID := header(req.Headers, HeaderCorrelationID)
	if corrID == "" {
		corrID = uuid.NewString()
	}

	logger := log.With().Str("correlation_id", corrID).Str("operation", name).Logger()
	ctx = logger.WithContext(ctx)
	ctx = context.WithValue(ctx, ContextKeyCorrID, corrID)

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	status, body := http.StatusOK, []byte(nil)
	if op != nil && req.HTTPMethod != http.MethodOptions {
		var err error
		status, body, err = op(ctx, req)
		if err != nil {
			logger.Error().Err(err).Msg("falha ao processar requisição")
			status, body = http.StatusInternalServerError, errorBody(err)
		}
	}

	latency := time.Since(start)
	h.metrics.Request(name, status, latency)
	logger.Info().
		Str("method", req.HTTPMethod).
		Str("path", req.Path).
		Int("status", status).
		Int64("latency_ms", latency.Milliseconds()).
		Msg("lambda request completed")

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": methods,
			"Access-Control-Allow-Headers": "Content-Type",
			"Content-Type":                 "application/json",
			HeaderCorrelationID:            corrID,
		},
		Body: string(body),
	}
}

func (h *Handlers) list(ctx context.Context, _ events.APIGatewayProxyRequest) (int, []byte, error) {
	docs, err := h.repo.List(ctx)
	if err != nil {
		return 0, nil, err
	}
	if docs == nil {
		docs = []dyndb.Document{}
	}

	body, err := json.Marshal(docs)
	if err != nil {
		return 0, nil, &student.OperationFailure{Op: "encode", Err: err}
	}

	h.metrics.ListedItems(len(docs))
	log.Ctx(ctx).Debug().Int("items", len(docs)).Msg("alunos listados")
	return http.StatusOK, body, nil
}

func (h *Handlers) insert(ctx context.Context, req events.APIGatewayProxyRequest) (int, []byte, error) {
	body := req.Body
	if req.IsBase64Encoded {
		raw, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return 0, nil, &student.OperationFailure{Op: "parse", Err: err}
		}
		body = string(raw)
	}

	rec, err := student.ParseRecord(body)
	if err != nil {
		return 0, nil, err
	}
	if err := h.repo.Save(ctx, rec); err != nil {
		return 0, nil, err
	}

	if err := h.notifier.StudentSaved(ctx, rec); err != nil {
		h.metrics.EventFailure(student.EventSaved)
		log.Ctx(ctx).Warn().Err(err).Str("studentid", rec.ID()).Msg("falha ao publicar evento")
	}

	log.Ctx(ctx).Debug().Str("studentid", rec.ID()).Msg("aluno gravado")
	msg, _ := json.Marshal(SavedMessage)
	return http.StatusOK, msg, nil
}

func errorBody(err error) []byte {
	body, mErr := json.Marshal(map[string]string{"error": err.Error()})
	if mErr != nil {
		return []byte(`{"error":"internal server error"}`)
	}
	return body
}

// header busca um header ignorando maiúsculas; o API Gateway pode ou não
// normalizar os nomes.
func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
