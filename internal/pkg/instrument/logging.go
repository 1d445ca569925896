package instrument

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/lo"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const redacted = "***"

func initLogging(serviceName string, lp *sdklog.LoggerProvider, maskFields []string) {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		AddSource:   true,
		ReplaceAttr: renameAttr,
	})

	if lp != nil {
		handler = fanout{handler, otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(lp))}
	}

	slog.SetDefault(slog.New(&requestHandler{
		Handler: &redactHandler{next: handler, r: newRedactor(maskFields)},
		service: serviceName,
	}))
}

// renameAttr shortens the builtin keys and trims source paths to the module root.
func renameAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		_, rel, found := strings.Cut(src.File, "/internal/")
		if !found {
			return slog.Attr{}
		}
		return slog.String("file", fmt.Sprintf("internal/%s:%d", rel, src.Line))
	}
	return a
}

// requestHandler stamps every record with the service name and the correlation id.
type requestHandler struct {
	slog.Handler
	service string
}

func (h *requestHandler) Handle(ctx context.Context, r slog.Record) error {
	if cID := GetCorrelationID(ctx); cID != "" {
		r.AddAttrs(slog.String("_cID", cID))
	}
	r.AddAttrs(slog.String("service", h.service))

	return h.Handler.Handle(ctx, r)
}

// fanout writes each record to stdout and to the OTLP log bridge.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	return lo.SomeBy(f, func(h slog.Handler) bool { return h.Enabled(ctx, level) })
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return fanout(lo.Map(f, func(h slog.Handler, _ int) slog.Handler { return h.WithAttrs(attrs) }))
}

func (f fanout) WithGroup(name string) slog.Handler {
	return fanout(lo.Map(f, func(h slog.Handler, _ int) slog.Handler { return h.WithGroup(name) }))
}

// redactor hides the values of configured keys (OTP codes, passwords, tokens)
// wherever they appear: top-level attrs, groups, maps or JSON text.
type redactor map[string]struct{}

func newRedactor(fields []string) redactor {
	r := redactor{}
	for _, f := range fields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			r[f] = struct{}{}
		}
	}
	return r
}

func (r redactor) hides(key string) bool {
	_, ok := r[strings.ToLower(key)]
	return ok
}

func (r redactor) attr(a slog.Attr) slog.Attr {
	if r.hides(a.Key) {
		return slog.String(a.Key, redacted)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		a.Value = slog.GroupValue(lo.Map(a.Value.Group(), func(ga slog.Attr, _ int) slog.Attr {
			return r.attr(ga)
		})...)
	case slog.KindString:
		if s, ok := r.jsonText([]byte(a.Value.String())); ok {
			a.Value = slog.StringValue(s)
		}
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case map[string]any, []any:
			a.Value = slog.AnyValue(r.value(v))
		case map[string]string:
			a.Value = slog.AnyValue(r.value(lo.MapValues(v, func(s string, _ string) any { return s })))
		case map[string][]string:
			a.Value = slog.AnyValue(r.value(lo.MapValues(v, func(s []string, _ string) any { return strings.Join(s, ",") })))
		case []byte:
			if s, ok := r.jsonText(v); ok {
				a.Value = slog.StringValue(s)
			}
		}
	}

	return a
}

func (r redactor) value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if r.hides(k) {
				out[k] = redacted
				continue
			}
			out[k] = r.value(inner)
		}
		return out
	case []any:
		return lo.Map(val, func(inner any, _ int) any { return r.value(inner) })
	default:
		return v
	}
}

// jsonText redacts a JSON object or array held as text; ok is false for anything else.
func (r redactor) jsonText(b []byte) (string, bool) {
	if len(b) == 0 || (b[0] != '{' && b[0] != '[') {
		return "", false
	}

	var decoded any
	if err := json.Unmarshal(b, &decoded); err != nil {
		return "", false
	}

	out, err := json.Marshal(r.value(decoded))
	if err != nil {
		return "", false
	}
	return string(out), true
}

type redactHandler struct {
	next slog.Handler
	r    redactor
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, rec slog.Record) error {
	if len(h.r) == 0 {
		return h.next.Handle(ctx, rec)
	}

	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.r.attr(a))
		return true
	})

	return h.next.Handle(ctx, out)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &redactHandler{
		next: h.next.WithAttrs(lo.Map(attrs, func(a slog.Attr, _ int) slog.Attr { return h.r.attr(a) })),
		r:    h.r,
	}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	return &redactHandler{next: h.next.WithGroup(name), r: h.r}
}
