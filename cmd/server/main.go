package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/raywall/student-records/pkg/bootstrap"
	"github.com/raywall/student-records/pkg/config"
	"github.com/raywall/student-records/pkg/transport"
)

var (
	configPath string
	// Variáveis injetáveis para mocking
	serverStarter = transport.StartHTTPServer
	lambdaStarter = lambda.Start
)

func init() {
	configPath = os.Getenv("CONFIG_FILE_PATH")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, configPath); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run contém a lógica principal testável
func run(ctx context.Context, cfgPath string) error {
	app, err := bootstrap.New(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer app.Close()

	switch app.Config.Service.Runtime {
	case config.RuntimeLocal:
		return serverStarter(ctx, app.Config.Service.Port, transport.NewRouter(app.Handlers))
	case config.RuntimeLambda:
		lambdaStarter(app.Lambda(app.Handlers.Dispatch))
		return nil
	default:
		return fmt.Errorf("runtime desconhecido: %s", app.Config.Service.Runtime)
	}
}
