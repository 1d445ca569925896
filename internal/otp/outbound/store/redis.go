package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/prescripto/internal/otp/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	keyPrefix = "otp:"
	// Redis TTL only reclaims memory; expiry itself is judged by the caller's clock.
	gcGrace = time.Minute
)

var compareAndDelete = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
	return 0
end
local entry = cjson.decode(raw)
if entry.code ~= ARGV[1] then
	return 0
end
redis.call('DEL', KEYS[1])
return 1
`)

// Redis keeps entries in a shared Redis so every instance sees the same codes.
type Redis struct {
	client redis.UniversalClient
	ins    instrument.Instrumentation
	now    func() time.Time
}

func NewRedis(client redis.UniversalClient, ins instrument.Instrumentation) *Redis {
	return &Redis{client: client, ins: ins, now: time.Now}
}

func (r *Redis) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return r.ins.Tracer("otp.outbound.store").Start(ctx, name)
}

func (r *Redis) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *Redis) Put(ctx context.Context, identifier string, e entity.Entry) (err error) {
	ctx, span := r.startSpan(ctx, "Put")
	defer func() { r.endSpan(span, err) }()

	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	ttl := e.ExpiresAt.Sub(r.now()) + gcGrace
	if ttl < gcGrace {
		ttl = gcGrace
	}

	return r.client.Set(ctx, keyPrefix+identifier, payload, ttl).Err()
}

func (r *Redis) Get(ctx context.Context, identifier string) (_ *entity.Entry, err error) {
	ctx, span := r.startSpan(ctx, "Get")
	defer func() { r.endSpan(span, err) }()

	raw, err := r.client.Get(ctx, keyPrefix+identifier).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var e entity.Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Redis) Delete(ctx context.Context, identifier string) (err error) {
	ctx, span := r.startSpan(ctx, "Delete")
	defer func() { r.endSpan(span, err) }()

	return r.client.Del(ctx, keyPrefix+identifier).Err()
}

// CompareAndDelete removes the entry only if it still holds code.
func (r *Redis) CompareAndDelete(ctx context.Context, identifier, code string) (_ bool, err error) {
	ctx, span := r.startSpan(ctx, "CompareAndDelete")
	defer func() { r.endSpan(span, err) }()

	n, err := compareAndDelete.Run(ctx, r.client, []string{keyPrefix + identifier}, code).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Close is a no-op; the client is owned by the app.
func (r *Redis) Close() error {
	return nil
}
