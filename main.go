package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shandysiswandi/prescripto/internal/app"
)

// @title           Prescripto API
// @version         1.0
// @description     Prescripto provides the doctor directory, account registration and OTP verification APIs.
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	application, err := app.New(ctx)
	if err != nil {
		slog.Error("failed to start prescripto", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		slog.Error("http server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("application gracefully shutdown")
}
