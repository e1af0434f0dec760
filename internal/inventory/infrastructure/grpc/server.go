package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name probes ask about.
const ServiceName = "pos.StockAlert"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Server struct {
	health *health.Server
}

func NewServer() *Server { return &Server{health: health.NewServer()} }

// Refresh sets the serving status from the dependencies' health.
func (s *Server) Refresh(ctx context.Context, deps ...Pinger) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	for _, d := range deps {
		if err := d.Ping(ctx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			break
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

func (s *Server) Shutdown() { s.health.Shutdown() }

func Run(addr string, srv *Server) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, srv.health)
	go func() {
		_ = gs.Serve(lis)
	}()
	return gs, nil
}
