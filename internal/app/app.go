// Package app builds the service from configuration and runs its HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/prescripto/internal/pkg/clock"
	"github.com/shandysiswandi/prescripto/internal/pkg/config"
	"github.com/shandysiswandi/prescripto/internal/pkg/hash"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"github.com/shandysiswandi/prescripto/internal/pkg/jwt"
	"github.com/shandysiswandi/prescripto/internal/pkg/mail"
	"github.com/shandysiswandi/prescripto/internal/pkg/router"
	"github.com/shandysiswandi/prescripto/internal/pkg/sms"
	"github.com/shandysiswandi/prescripto/internal/pkg/uid"
	"github.com/shandysiswandi/prescripto/internal/pkg/validator"
)

// App holds every shared dependency. Modules receive what they need from it
// in initModules.
type App struct {
	config config.Config
	ins    instrument.Instrumentation

	validator validator.Validator
	clock     clock.Clocker
	bcrypt    hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	jwt       jwt.JWT

	// dbConn and cacheConn stay nil when no enabled module needs them.
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	mail      mail.Mail
	sms       sms.SMS

	router     *router.Router
	httpServer *http.Server

	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

// onClose registers fn to run at shutdown. Closers run in reverse order of
// registration, so a resource closes before the ones it was built on.
func (a *App) onClose(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// New runs every init step in order. On failure the resources opened so far
// are released before the error is returned.
func New(ctx context.Context) (*App, error) {
	a := &App{}

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"config", a.initConfig},
		{"instrument", a.initInstrument},
		{"libraries", a.initLibraries},
		{"jwt", a.initJWT},
		{"database", a.initDatabase},
		{"cache", a.initCache},
		{"mail", a.initMail},
		{"sms", a.initSMS},
		{"http server", a.initHTTPServer},
		{"modules", a.initModules},
	}

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			a.close(ctx)
			return nil, fmt.Errorf("app: init %s: %w", step.name, err)
		}
	}

	return a, nil
}

func (a *App) close(ctx context.Context) {
	for _, c := range slices.Backward(a.closers) {
		if err := c.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resource", "name", c.name, "error", err)
		}
	}
	a.closers = nil
}
