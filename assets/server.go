package assets

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wippyai/fmt-playground/errors"
	"github.com/wippyai/fmt-playground/registry"
	"github.com/wippyai/fmt-playground/share"
)

// Server is the asset HTTP server.
type Server struct {
	router   chi.Router
	source   registry.Source
	logger   *zap.Logger
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	codec    share.Codec
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithRegistry exposes reg on /metrics and registers the server's own
// metrics with it. By default the server uses a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// NewServer creates a server answering from source.
func NewServer(source registry.Source, opts ...Option) *Server {
	s := &Server{
		source: source,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	s.requests = promauto.With(s.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "fmtplay",
		Name:      "http_requests_total",
		Help:      "Asset server requests by route and status code",
	}, []string{"route", "code"})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(s.count)
	r.Use(middleware.Recoverer)

	r.Get("/"+registry.ManifestName, s.manifest)
	r.Get("/pkg/{version}/engine.wasm", s.module)
	r.Get("/examples/{name}", s.example)
	r.Get("/share", s.share)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

func (s *Server) manifest(w http.ResponseWriter, r *http.Request) {
	data, err := s.source.Fetch(r.Context(), registry.ManifestName)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := registry.ParseManifest(registry.ManifestName, data); err != nil {
		s.fail(w, r, err)
		return
	}
	s.write(w, "application/json", data)
}

func (s *Server) module(w http.ResponseWriter, r *http.Request) {
	data, err := s.source.Fetch(r.Context(), registry.ModulePath(chi.URLParam(r, "version")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.write(w, "application/wasm", data)
}

func (s *Server) example(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path := registry.SamplePath(name)
	data, err := s.source.Fetch(r.Context(), path)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	contentType := "text/plain; charset=utf-8"
	if path == registry.SampleIndexName {
		contentType = "application/json"
	}
	s.write(w, contentType, data)
}

type shareResponse struct {
	State   share.State `json:"state"`
	Present []string    `json:"present"`
	Error   string      `json:"error,omitempty"`
}

func (s *Server) share(w http.ResponseWriter, r *http.Request) {
	state, present, err := s.codec.Decode(r.URL)

	resp := shareResponse{State: state, Present: []string{}}
	for _, p := range []struct {
		name string
		ok   bool
	}{
		{share.ParamVersion, present.Version},
		{share.ParamSource, present.Source},
		{share.ParamSettings, present.Settings},
	} {
		if p.ok {
			resp.Present = append(resp.Present, p.name)
		}
	}

	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("write share response", zap.Error(err))
	}
}

func (s *Server) write(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("write response", zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	switch {
	case stderrors.Is(err, registry.ErrAssetNotFound):
		status = http.StatusNotFound
	case isKind(err, errors.KindInvalidInput):
		status = http.StatusBadRequest
	}

	if status != http.StatusNotFound {
		s.logger.Warn("asset request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	http.Error(w, http.StatusText(status), status)
}

func isKind(err error, kind errors.Kind) bool {
	var e *errors.Error
	return stderrors.As(err, &e) && e.Kind == kind
}
