// Package bootstrap monta as dependências do serviço a partir da
// configuração: logger, clientes AWS, repositório, notificador e métricas.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/raywall/student-records/pkg/awsconf"
	"github.com/raywall/student-records/pkg/config"
	"github.com/raywall/student-records/pkg/logger"
	"github.com/raywall/student-records/pkg/metrics"
	"github.com/raywall/student-records/pkg/observability"
	"github.com/raywall/student-records/pkg/student"
	"github.com/raywall/student-records/pkg/transport"
	"github.com/rs/zerolog/log"
)

// Variáveis injetáveis para mocking
var (
	loadAWS      = awsconf.Load
	setupMetrics = observability.SetupMetrics
)

// App reúne tudo o que os binários precisam em tempo de execução.
type App struct {
	Config     *config.ServiceConfig
	AWS        aws.Config
	Repository *student.Repository
	Handlers   *transport.Handlers
	Metrics    observability.Provider
}

// New carrega a configuração de cfgPath (opcional) e do ambiente e monta a App.
func New(ctx context.Context, cfgPath string) (*App, error) {
	cfg, err := config.NewLoader().Load(ctx, cfgPath)
	if err != nil {
		return nil, err
	}
	return FromConfig(ctx, cfg)
}

// FromConfig monta a App para uma configuração já carregada.
func FromConfig(ctx context.Context, cfg *config.ServiceConfig) (*App, error) {
	logger.Configure(cfg.Logging, cfg.Service.Name)

	awsCfg, err := loadAWS(ctx, cfg.Table.Region)
	if err != nil {
		return nil, err
	}

	repo, err := student.NewRepository(awsconf.NewDynamoClient(awsCfg, cfg.Table.Endpoint), cfg.Table)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: repository: %w", err)
	}

	provider, err := setupMetrics(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	opts := []transport.Option{
		transport.WithTimeout(cfg.Service.Timeout),
		transport.WithMetrics(metrics.NewRecorder(provider, "service:"+cfg.Service.Name)),
	}
	if cfg.Events.QueueURL != "" {
		opts = append(opts, transport.WithNotifier(student.NewSQSNotifier(awsconf.NewSQSClient(awsCfg), cfg.Events.QueueURL)))
		log.Info().Str("queue_url", cfg.Events.QueueURL).Msg("publicação de eventos habilitada")
	}

	log.Info().
		Str("table", cfg.Table.Name).
		Str("region", cfg.Table.Region).
		Str("runtime", cfg.Service.Runtime).
		Msg("serviço inicializado")

	return &App{
		Config:     cfg,
		AWS:        awsCfg,
		Repository: repo,
		Handlers:   transport.NewHandlers(repo, opts...),
		Metrics:    provider,
	}, nil
}

// Lambda envolve fn para enviar as métricas ao fim de cada invocação.
func (a *App) Lambda(fn transport.LambdaFunc) transport.LambdaFunc {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		resp, err := fn(ctx, req)
		if ferr := a.Metrics.Flush(); ferr != nil {
			log.Ctx(ctx).Warn().Err(ferr).Msg("falha ao enviar métricas")
		}
		return resp, err
	}
}

// Close libera o provedor de métricas.
func (a *App) Close() error {
	return a.Metrics.Close()
}
