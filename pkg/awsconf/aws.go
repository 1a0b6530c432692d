// Package awsconf constrói a configuração e os clientes AWS usados pelo
// serviço. Os clientes são criados uma vez na inicialização do processo e
// injetados nos componentes, nunca mantidos em variáveis globais.
package awsconf

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// loadDefaultConfig é injetável para testes.
var loadDefaultConfig = config.LoadDefaultConfig

// Load carrega a configuração da AWS (env vars, profile, IAM role).
func Load(ctx context.Context, region string) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := loadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("awsconf: load config: %w", err)
	}
	return cfg, nil
}

// NewDynamoClient cria o cliente DynamoDB. Um endpoint não vazio substitui
// o da AWS (ex: LocalStack ou DynamoDB Local).
func NewDynamoClient(cfg aws.Config, endpoint string) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

// NewSQSClient cria o cliente SQS usado para eventos de alteração.
func NewSQSClient(cfg aws.Config) *sqs.Client {
	return sqs.NewFromConfig(cfg)
}

// NewS3Client cria o cliente S3 usado por export/import.
func NewS3Client(cfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}
