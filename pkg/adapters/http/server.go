package http

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/openpermit/openpermit/internal/presentation/graph"
	"github.com/openpermit/openpermit/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go ../../../api/openapi.yaml

//go:embed static
var staticFiles embed.FS

// Client is the subset of openpermit.Client served over HTTP.
type Client interface {
	CreateNode(ctx context.Context, opts domain.NodeOptions) (*domain.Node, error)
	ValidateNode(ctx context.Context, in domain.NodeInput) (domain.ValidationResult, error)
	CreateCrosswalk(ctx context.Context, source, target domain.NodeRef) (domain.Crosswalk, error)
}

// Server implements the generated ServerInterface.
type Server struct {
	Client Client
	Logger *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

// Option configures the handler.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics mounts /metrics for the given gatherer.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(c *config) {
		c.gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the client.
//
//	GET  /                    demo page
//	GET  /health              liveness
//	GET  /openapi.yaml        the API description
//	POST /api/nodes           create a node
//	POST /api/nodes/validate  validate a node document
//	POST /api/crosswalks      create a crosswalk
//	POST /api/graph           render nodes as Mermaid
//	GET  /metrics             Prometheus metrics, when enabled
//
// Requests to the API routes are checked against the OpenAPI document before
// they reach the client.
func NewHandler(client Client, opts ...Option) (http.Handler, error) {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	server := &Server{Client: client, Logger: cfg.logger}

	validate, err := RequestValidator(cfg.logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		spec, err := rawSpec()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load spec", cfg.logger)
			cfg.logger.Error("Failed to load OpenAPI spec", "error", err)
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(spec)
	})
	if cfg.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}

	HandlerWithOptions(server, ChiServerOptions{
		BaseRouter:  r,
		Middlewares: []MiddlewareFunc{validate},
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			writeError(w, http.StatusBadRequest, err.Error(), cfg.logger)
		},
	})

	static, _ := fs.Sub(staticFiles, "static")
	r.Handle("/*", http.FileServer(http.FS(static)))

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Health{Status: "ok"}, s.Logger)
}

// CreateNode handles POST /api/nodes.
func (s *Server) CreateNode(w http.ResponseWriter, r *http.Request) {
	var body CreateNodeJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", s.Logger)
		s.Logger.Warn("CreateNode: Invalid request body", "error", err)
		return
	}

	node, err := s.Client.CreateNode(r.Context(), mapNodeOptions(body))
	if err != nil {
		s.fail(w, "CreateNode", err)
		return
	}
	writeJSON(w, http.StatusCreated, node.Serialize(), s.Logger)
}

// ValidateNode handles POST /api/nodes/validate. The body is a node document,
// optionally wrapped as {"node": {...}}.
func (s *Server) ValidateNode(w http.ResponseWriter, r *http.Request) {
	var body ValidateNodeJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body == nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", s.Logger)
		s.Logger.Warn("ValidateNode: Invalid request body", "error", err)
		return
	}
	doc := map[string]any(body)
	if wrapped, ok := doc["node"].(map[string]any); ok && len(doc) == 1 {
		doc = wrapped
	}

	res, err := s.Client.ValidateNode(r.Context(), domain.NodeJSON(doc))
	if err != nil {
		s.fail(w, "ValidateNode", err)
		return
	}
	writeJSON(w, http.StatusOK, res, s.Logger)
}

// CreateCrosswalk handles POST /api/crosswalks.
func (s *Server) CreateCrosswalk(w http.ResponseWriter, r *http.Request) {
	var body CreateCrosswalkJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", s.Logger)
		s.Logger.Warn("CreateCrosswalk: Invalid request body", "error", err)
		return
	}

	cw, err := s.Client.CreateCrosswalk(r.Context(), mapNodeRef(body.Source), mapNodeRef(body.Target))
	if err != nil {
		s.fail(w, "CreateCrosswalk", err)
		return
	}
	writeJSON(w, http.StatusCreated, cw, s.Logger)
}

// RenderGraph handles POST /api/graph. Unless check=false, nodes that fail
// validation are highlighted.
func (s *Server) RenderGraph(w http.ResponseWriter, r *http.Request, params RenderGraphParams) {
	var body RenderGraphJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", s.Logger)
		s.Logger.Warn("RenderGraph: Invalid request body", "error", err)
		return
	}

	nodes := make([]*domain.Node, 0, len(body.Nodes))
	for _, doc := range body.Nodes {
		n, err := domain.Deserialize(doc)
		if err != nil {
			s.fail(w, "RenderGraph", err)
			return
		}
		nodes = append(nodes, n)
	}
	crosswalks, err := mapCrosswalks(body.Crosswalks)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), s.Logger)
		return
	}

	highlight := &graph.Highlight{}
	if params.Select != nil {
		highlight.Selected = *params.Select
	}
	if params.Check == nil || *params.Check {
		for i, doc := range body.Nodes {
			res, err := s.Client.ValidateNode(r.Context(), domain.NodeJSON(doc))
			if err != nil {
				s.fail(w, "RenderGraph", err)
				return
			}
			if !res.Valid {
				highlight.Invalid = append(highlight.Invalid, nodes[i].ID())
			}
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, graph.GenerateMermaid(nodes, crosswalks, highlight))
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrClientClosed):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = http.StatusGatewayTimeout
	}
	if status >= http.StatusInternalServerError {
		s.Logger.Error(op+" failed", "error", err)
	} else {
		s.Logger.Debug(op+" rejected", "error", err)
	}
	writeError(w, status, err.Error(), s.Logger)
}

func writeError(w http.ResponseWriter, status int, msg string, logger *slog.Logger) {
	writeJSON(w, status, map[string]string{"error": msg}, logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}
