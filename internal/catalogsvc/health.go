package catalogsvc

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/fjod/go_cart/storefront/internal/logger"
)

const ServiceName = "catalog"

type Pinger interface {
	Ping(ctx context.Context) error
}

// NewGRPCServer returns a server exposing grpc.health.v1.Health and reflection
func NewGRPCServer(hs *health.Server) *grpc.Server {
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthpb.RegisterHealthServer(grpcServer, hs)

	// Enable reflection for grpcurl/grpcui
	reflection.Register(grpcServer)
	return grpcServer
}

// WatchHealth marks the catalog SERVING while db pings and NOT_SERVING
// otherwise, until ctx is done.
func WatchHealth(ctx context.Context, hs *health.Server, db Pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := healthpb.HealthCheckResponse_UNKNOWN
	for {
		status := healthpb.HealthCheckResponse_SERVING
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		err := db.Ping(pingCtx)
		cancel()
		if err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}

		if status != last {
			entry := logger.L().WithField("status", status.String())
			if err != nil {
				entry = entry.WithError(err)
			}
			entry.Info("catalog health changed")
			hs.SetServingStatus("", status)
			hs.SetServingStatus(ServiceName, status)
			last = status
		}

		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-ticker.C:
		}
	}
}
