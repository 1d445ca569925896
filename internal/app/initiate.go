package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/shandysiswandi/prescripto/internal/pkg/clock"
	"github.com/shandysiswandi/prescripto/internal/pkg/config"
	"github.com/shandysiswandi/prescripto/internal/pkg/hash"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"github.com/shandysiswandi/prescripto/internal/pkg/jwt"
	"github.com/shandysiswandi/prescripto/internal/pkg/mail"
	"github.com/shandysiswandi/prescripto/internal/pkg/migration"
	"github.com/shandysiswandi/prescripto/internal/pkg/router"
	"github.com/shandysiswandi/prescripto/internal/pkg/sms"
	"github.com/shandysiswandi/prescripto/internal/pkg/uid"
	"github.com/shandysiswandi/prescripto/internal/pkg/validator"
)

const pingTimeout = 5 * time.Second

// configPath prefers CONFIG_PATH, then the repo copy when LOCAL=true, then
// the path mounted in the container image.
func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}

func (a *App) initConfig(context.Context) error {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.NewViper(configPath())
	if err != nil {
		return err
	}
	a.config = cfg
	a.onClose("config", func(context.Context) error { return cfg.Close() })

	if tz := cfg.GetString("app.tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return err
		}
		time.Local = loc
	}

	return nil
}

func (a *App) initInstrument(ctx context.Context) error {
	ins, err := instrument.New(ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		return err
	}
	a.ins = ins
	a.onClose("instrument", ins.Shutdown)

	return nil
}

func (a *App) initLibraries(context.Context) error {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.bcrypt = hash.NewBcrypt(a.config.GetInt("hash.bcrypt.cost"), a.config.GetString("hash.bcrypt.pepper"))

	v, err := validator.NewV10Validator()
	if err != nil {
		return err
	}
	a.validator = v

	snow, err := uid.NewSnowflake()
	if err != nil {
		return err
	}
	a.uid = snow

	return nil
}

func (a *App) initJWT(context.Context) error {
	j, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(a.config.GetString("jwt.secret")),
		Issuer:    a.config.GetString("jwt.issuer"),
		Audiences: a.config.GetArray("jwt.audiences"),
		TTL:       a.config.GetMinute("jwt.ttl_minutes"),
		Clock:     a.clock,
		UUID:      a.uuid,
	})
	if err != nil {
		return err
	}
	a.jwt = j

	return nil
}

// initDatabase connects only when a module that stores rows is enabled.
func (a *App) initDatabase(ctx context.Context) error {
	if !a.config.GetBool("modules.directory.enabled") && !a.config.GetBool("modules.account.enabled") {
		return nil
	}

	dsn := a.config.GetString("database.url")
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return err
	}
	pc.MaxConns = a.config.GetInt32("database.pool.max_conns")
	pc.MinConns = a.config.GetInt32("database.pool.min_conns")
	pc.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	pc.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	pc.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return err
	}
	a.onClose("database", func(context.Context) error { pool.Close(); return nil })

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		return err
	}

	if a.config.GetBool("database.migrate") {
		if err := migration.Up(dsn); err != nil {
			return err
		}
	}

	a.dbConn = pool
	return nil
}

// initCache connects only when OTP entries are kept in redis.
func (a *App) initCache(ctx context.Context) error {
	if !a.config.GetBool("modules.otp.enabled") || !strings.EqualFold(a.config.GetString("modules.otp.store"), "redis") {
		return nil
	}

	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		return err
	}

	rdb := redis.NewClient(opt)
	a.onClose("redis", func(context.Context) error { return rdb.Close() })

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return err
	}

	a.cacheConn = rdb
	return nil
}

func (a *App) initMail(context.Context) error {
	m, err := mail.NewSMTP(mail.SMTPConfig{
		Host:     a.config.GetString("mail.host"),
		Port:     a.config.GetInt("mail.port"),
		Username: a.config.GetString("mail.username"),
		Password: a.config.GetString("mail.password"),
		From:     a.config.GetString("mail.from"),
	})
	if err != nil {
		return err
	}
	a.mail = m

	return nil
}

func (a *App) initSMS(context.Context) error {
	client, err := sms.NewLabsMobile(sms.LabsMobileConfig{
		BaseURL:    a.config.GetString("sms.base_url"),
		Username:   a.config.GetString("sms.username"),
		Token:      a.config.GetString("sms.token"),
		Sender:     a.config.GetString("sms.sender"),
		Timeout:    a.config.GetSecond("sms.timeout_seconds"),
		MaxRetries: a.config.GetUint64("sms.max_retries"),
	})
	if err != nil {
		return err
	}
	a.sms = client

	return nil
}

func (a *App) initHTTPServer(context.Context) error {
	a.router = router.NewRouter(router.Config{
		Config:          a.config,
		UUID:            a.uuid,
		JWT:             a.jwt,
		Instrument:      a.ins,
		PublicEndpoints: a.publicEndpoints(),
		TrustedProxies:  a.config.GetArray("app.server.trusted_proxies"),
	})
	a.router.GET("/health", a.health)

	withCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{router.HeaderCorrelationID, "Retry-After"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           withCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}

	return nil
}
