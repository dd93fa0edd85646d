package grpcapi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestHealthReporter_Check(t *testing.T) {
	var pingErr error
	h := NewHealthReporter(func(ctx context.Context) error { return pingErr })

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, h.Check(context.Background()))

	resp, err := h.server.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	pingErr = errors.New("db down")
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, h.Check(context.Background()))

	resp, err = h.server.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}
