package grpc

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestHealthReflectsDependencies(t *testing.T) {
	srv := NewServer()
	gs, err := Run("127.0.0.1:0", srv)
	require.NoError(t, err)
	defer gs.Stop()

	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("redis down") })

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, srv.Refresh(context.Background(), ok, ok))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, srv.Refresh(context.Background(), ok, down))
}

func TestHealthOverTheWire(t *testing.T) {
	srv := NewServer()
	srv.Refresh(context.Background())

	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, srv.health)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = gs.Serve(lis) }()
	defer gs.Stop()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}
