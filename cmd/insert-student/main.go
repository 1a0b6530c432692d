// Função Lambda que grava um aluno a partir do corpo da requisição.
package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/raywall/student-records/pkg/bootstrap"
)

var (
	configPath string
	// Variável injetável para mocking
	lambdaStarter = lambda.Start
)

func init() {
	configPath = os.Getenv("CONFIG_FILE_PATH")
}

func main() {
	if err := run(context.Background(), configPath); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run(ctx context.Context, cfgPath string) error {
	app, err := bootstrap.New(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer app.Close()

	lambdaStarter(app.Lambda(app.Handlers.Insert))
	return nil
}
