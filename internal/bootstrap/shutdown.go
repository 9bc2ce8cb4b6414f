package bootstrap

import (
	"context"
	"log/slog"

	"github.com/waypointlabs/prizehunt/internal/server"
	"github.com/waypointlabs/prizehunt/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server      *server.Server
	SweepWorker *worker.SweepWorker
	WorkerPool  *worker.Pool
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Sweep worker (no new background writes)
// 3. Side-effect worker pool (in-flight jobs finish; still-queued jobs may be
//    dropped, consistent with the no-delivery-guarantee policy for side effects)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.SweepWorker != nil {
		slog.Info(LogMsgStoppingSweepWorker)
		components.SweepWorker.Stop()
	}

	if components.WorkerPool != nil {
		slog.Info(LogMsgStoppingWorkerPool)
		components.WorkerPool.Stop()
	}

	slog.Info(LogMsgServerStopped)
}
