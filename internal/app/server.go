package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
	"github.com/shandysiswandi/prescripto/internal/pkg/router"
)

const defaultShutdownTimeout = 10 * time.Second

// Run serves HTTP until ctx is canceled or the server fails, then shuts
// down gracefully and releases every resource.
func (a *App) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		a.close(ctx)
		return err
	}
	return a.Serve(ctx, l)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, l net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "address", l.Addr().String())
		serveErr <- a.httpServer.Serve(l)
	}()

	var err error
	select {
	case <-ctx.Done():
		slog.Info("shutting down", "because", context.Cause(ctx))
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}

	timeout := a.config.GetSecond("app.server.shutdown_timeout_seconds")
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if shutErr := a.httpServer.Shutdown(stopCtx); shutErr != nil {
		slog.ErrorContext(stopCtx, "failed to shut down http server", "error", shutErr)
	}
	a.close(stopCtx)

	return err
}

type healthResponse struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

const (
	statusUp       = "up"
	statusDisabled = "disabled"
)

// health pings the database and cache that this instance actually uses.
func (a *App) health(r *router.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Database: statusDisabled, Cache: statusDisabled}

	if a.dbConn != nil {
		if err := a.dbConn.Ping(ctx); err != nil {
			slog.ErrorContext(ctx, "health check database failed", "error", err)
			return nil, goerror.NewServer(err)
		}
		resp.Database = statusUp
	}

	if a.cacheConn != nil {
		if err := a.cacheConn.Ping(ctx).Err(); err != nil {
			slog.ErrorContext(ctx, "health check cache failed", "error", err)
			return nil, goerror.NewServer(err)
		}
		resp.Cache = statusUp
	}

	return resp, nil
}
