package main

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/raywall/student-records/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_StartsLambda(t *testing.T) {
	t.Setenv("LOG_DISABLED", "true")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	var started any
	originalStarter := lambdaStarter
	lambdaStarter = func(handler interface{}) { started = handler }
	defer func() { lambdaStarter = originalStarter }()

	require.NoError(t, run(context.Background(), ""))

	fn, ok := started.(transport.LambdaFunc)
	require.True(t, ok, "handler inesperado: %T", started)

	resp, err := fn(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: "OPTIONS"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "POST,OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	assert.Error(t, run(context.Background(), ""))
}
