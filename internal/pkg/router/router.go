package router

import (
	"log/slog"
	"net/http"
	"net/netip"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/prescripto/internal/pkg/config"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"github.com/shandysiswandi/prescripto/internal/pkg/jwt"
	"github.com/shandysiswandi/prescripto/internal/pkg/uid"
)

// Handler returns the value to encode as the response body, or an error that
// writeError turns into a status and message.
type Handler func(r *Request) (any, error)

// Config holds dependencies required to build a Router.
type Config struct {
	// Config is read for app.maintenance.endpoints. Optional.
	Config config.Config
	// UUID generates correlation ids for requests that carry none.
	UUID       uid.StringID
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
	// PublicEndpoints maps a method to the route patterns that skip
	// authentication. "/" and "/health" are always public.
	PublicEndpoints map[string][]string
	// TrustedProxies lists the IPs or CIDRs whose forwarding headers are
	// believed. Requests from any other peer are keyed on the peer address.
	TrustedProxies []string
}

// routeSet answers whether a method and route pattern pair is listed.
type routeSet map[string]map[string]struct{}

func (s routeSet) add(method string, routes ...string) {
	if s[method] == nil {
		s[method] = make(map[string]struct{}, len(routes))
	}
	for _, route := range routes {
		s[method][route] = struct{}{}
	}
}

func (s routeSet) has(method, route string) bool {
	_, ok := s[method][route]
	return ok
}

// parseProxies accepts bare addresses and CIDRs. Unparsable entries are
// logged and skipped.
func parseProxies(entries []string) []netip.Prefix {
	out := make([]netip.Prefix, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.Contains(e, "/") {
			addr, err := netip.ParseAddr(e)
			if err != nil {
				slog.Warn("ignoring invalid trusted proxy", "entry", e, "error", err)
				continue
			}
			out = append(out, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
			continue
		}
		prefix, err := netip.ParsePrefix(e)
		if err != nil {
			slog.Warn("ignoring invalid trusted proxy", "entry", e, "error", err)
			continue
		}
		out = append(out, prefix.Masked())
	}
	return out
}

// Router is an http.Handler that wraps httprouter with the service's
// middleware chain and response envelope.
type Router struct {
	hr  *httprouter.Router
	mws []Middleware
}

// NewRouter builds the router with the standard middleware chain:
// recover, real ip, correlation id, observability, maintenance, auth.
func NewRouter(cfg Config) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeMessage(w, "endpoint not found", http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeMessage(w, "method not allowed", http.StatusMethodNotAllowed)
		}),
	}
	hr.GET("/", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeMessage(w, "Welcome to Prescripto API", http.StatusOK)
	})

	public := routeSet{}
	public.add(http.MethodGet, "/", "/health")
	for method, routes := range cfg.PublicEndpoints {
		public.add(method, routes...)
	}

	maintenance := func() []string { return nil }
	if cfg.Config != nil {
		maintenance = func() []string { return cfg.Config.GetArray("app.maintenance.endpoints") }
	}

	ins := cfg.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Router{
		hr: hr,
		mws: []Middleware{
			middlewareRecover,
			middlewareRealIP(parseProxies(cfg.TrustedProxies)),
			middlewareCorrelationID(cfg.UUID),
			middlewareObservability(ins),
			middlewareMaintenance(maintenance),
			middlewareAuth(cfg.JWT, public),
		},
	}
}

func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.handle(http.MethodGet, path, h, mws)
}

func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.handle(http.MethodPost, path, h, mws)
}

func (r *Router) PUT(path string, h Handler, mws ...Middleware) {
	r.handle(http.MethodPut, path, h, mws)
}

func (r *Router) DELETE(path string, h Handler, mws ...Middleware) {
	r.handle(http.MethodDelete, path, h, mws)
}

// handle registers h behind the router chain followed by the route's own mws.
func (r *Router) handle(method, path string, h Handler, mws []Middleware) {
	endpoint := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(&Request{Request: req})
		if err != nil {
			if rec, ok := w.(interface{ SetError(error) }); ok {
				rec.SetError(err)
			}
			writeError(w, err)
			return
		}
		writeSuccess(w, resp)
	})

	all := make([]Middleware, 0, len(r.mws)+len(mws))
	all = append(append(all, r.mws...), mws...)
	r.hr.Handler(method, path, chain(endpoint, all...))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}
