package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/raywall/student-records/pkg/config"
	"github.com/raywall/student-records/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	observability.NoopProvider
	flushes int
}

func (c *countingProvider) Flush() error {
	c.flushes++
	return nil
}

func testConfig() *config.ServiceConfig {
	return &config.ServiceConfig{
		Service: config.ServiceDetails{Name: "student-records", Runtime: config.RuntimeLambda},
		Table:   config.TableConf{Name: "studentData", HashKey: "studentid", Region: "ap-south-1"},
		Logging: config.LoggingConf{Disabled: true},
		Events:  config.EventsConf{QueueURL: "https://sqs.ap-south-1.amazonaws.com/123/students"},
	}
}

func stubAWS(t *testing.T) {
	original := loadAWS
	loadAWS = func(ctx context.Context, region string) (aws.Config, error) {
		return aws.Config{Region: region}, nil
	}
	t.Cleanup(func() { loadAWS = original })
}

func TestFromConfig(t *testing.T) {
	stubAWS(t)

	app, err := FromConfig(context.Background(), testConfig())
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, "ap-south-1", app.AWS.Region)
	assert.NotNil(t, app.Repository)
	assert.NotNil(t, app.Handlers)
	assert.IsType(t, &observability.NoopProvider{}, app.Metrics)
}

func TestFromConfig_AWSError(t *testing.T) {
	original := loadAWS
	loadAWS = func(ctx context.Context, region string) (aws.Config, error) {
		return aws.Config{}, errors.New("no credentials")
	}
	defer func() { loadAWS = original }()

	_, err := FromConfig(context.Background(), testConfig())
	assert.ErrorContains(t, err, "no credentials")
}

func TestFromConfig_MetricsError(t *testing.T) {
	stubAWS(t)
	original := setupMetrics
	setupMetrics = func(cfg config.MetricsConf) (observability.Provider, error) {
		return nil, errors.New("statsd down")
	}
	defer func() { setupMetrics = original }()

	_, err := FromConfig(context.Background(), testConfig())
	assert.ErrorContains(t, err, "statsd down")
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Setenv("SERVICE_RUNTIME", "mainframe")

	_, err := New(context.Background(), "")
	assert.Error(t, err)
}

func TestApp_LambdaFlushesMetrics(t *testing.T) {
	provider := &countingProvider{}
	app := &App{Metrics: provider}

	fn := app.Lambda(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return events.APIGatewayProxyResponse{StatusCode: 200}, nil
	})

	resp, err := fn(context.Background(), events.APIGatewayProxyRequest{})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, provider.flushes)
}
