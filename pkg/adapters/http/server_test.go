package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openpermit/openpermit"
	api "github.com/openpermit/openpermit/pkg/adapters/http"
	"github.com/openpermit/openpermit/pkg/domain"
	"github.com/openpermit/openpermit/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T, opts ...api.Option) http.Handler {
	t.Helper()
	client := openpermit.New(openpermit.WithWorkerOptions(worker.WithValidationDelay(0)))
	t.Cleanup(func() { _ = client.Close() })
	h, err := api.NewHandler(client, opts...)
	require.NoError(t, err)
	return h
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(newHandler(t), "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreateNode(t *testing.T) {
	h := newHandler(t)

	w := do(h, "POST", "/api/nodes", `{"id":"urn:irc:r507","type":"RequirementNode","attributes":{"maxSpan":"12ft"}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "urn:irc:r507", doc["@id"])
	assert.Equal(t, domain.SchemaContext, doc["@context"])

	w = do(h, "POST", "/api/nodes", `{"type":"RequirementNode"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid argument")

	w = do(h, "POST", "/api/nodes", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateNode(t *testing.T) {
	h := newHandler(t)

	w := do(h, "POST", "/api/nodes/validate", `{"@id":"n1","@type":"StandardNode"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res domain.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Valid)

	w = do(h, "POST", "/api/nodes/validate", `{"node":{"@type":"StandardNode"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, domain.CodeMissingID, res.Errors[0].Code)

	w = do(h, "POST", "/api/nodes/validate", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCrosswalk(t *testing.T) {
	h := newHandler(t)

	w := do(h, "POST", "/api/crosswalks", `{"source":{"id":"s","type":"StandardNode"},"target":{"id":"t","type":"StandardNode"}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cw domain.Crosswalk
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cw))
	assert.Equal(t, domain.CrosswalkTypeStandardToStandard, cw.Type)
	assert.Equal(t, "s", cw.Source.Identifier)

	w = do(h, "POST", "/api/crosswalks", `{"source":{"id":"s","type":"StandardNode"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `property \"target\" is missing`)

	w = do(h, "POST", "/api/crosswalks", `{"source":{"id":"s"},"target":{"id":"t","type":"StandardNode"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestValidation(t *testing.T) {
	h := newHandler(t)

	w := do(h, "POST", "/api/nodes", `{"id":42,"type":"StandardNode"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "request body has an error")

	req := httptest.NewRequest("POST", "/api/nodes", strings.NewReader(`{"id":"n1","type":"T"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "only JSON bodies are described")

	w = do(h, "POST", "/api/graph?check=maybe", `{"nodes":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "check")
}

func TestRenderGraph(t *testing.T) {
	h := newHandler(t)
	body := `{"nodes":[
		{"@id":"a","@type":"StandardNode","relationships":[{"type":"references","target":"b"}]},
		{"@id":"b","@type":""}
	]}`

	w := do(h, "POST", "/api/graph?select=a", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	out := w.Body.String()
	assert.Contains(t, out, "graph LR")
	assert.Contains(t, out, "references")

	unchecked := do(h, "POST", "/api/graph?check=false", body)
	require.Equal(t, http.StatusOK, unchecked.Code)
	assert.NotEqual(t, out, unchecked.Body.String(), "invalid node b is only highlighted when checked")

	w = do(h, "POST", "/api/graph", `{"nodes":[{"@type":"StandardNode"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(h, "POST", "/api/graph", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOpenAPIDocument(t *testing.T) {
	w := do(newHandler(t), "GET", "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, w.Code)

	var spec map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &spec))
	paths := spec["paths"].(map[string]any)
	for _, p := range []string{"/health", "/api/nodes", "/api/nodes/validate", "/api/crosswalks", "/api/graph"} {
		assert.Contains(t, paths, p)
	}

	swagger, err := api.GetSwagger()
	require.NoError(t, err)
	assert.NotNil(t, swagger.Paths.Value("/api/nodes"))
}

type failingClient struct{ err error }

func (f failingClient) CreateNode(context.Context, domain.NodeOptions) (*domain.Node, error) {
	return nil, f.err
}

func (f failingClient) ValidateNode(context.Context, domain.NodeInput) (domain.ValidationResult, error) {
	return domain.ValidationResult{}, f.err
}

func (f failingClient) CreateCrosswalk(context.Context, domain.NodeRef, domain.NodeRef) (domain.Crosswalk, error) {
	return domain.Crosswalk{}, f.err
}

func TestErrorMapping(t *testing.T) {
	cases := map[error]int{
		domain.ErrWorkerFault:    http.StatusInternalServerError,
		domain.ErrClientClosed:   http.StatusServiceUnavailable,
		context.DeadlineExceeded: http.StatusGatewayTimeout,
		errors.New("boom"):       http.StatusInternalServerError,
	}
	for err, status := range cases {
		h, herr := api.NewHandler(failingClient{err: err})
		require.NoError(t, herr)
		w := do(h, "POST", "/api/nodes", `{"id":"n","type":"T"}`)
		assert.Equal(t, status, w.Code, err.Error())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = openpermit.NewMetrics(reg)
	h := newHandler(t, api.WithMetrics(reg))

	w := do(h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openpermit_client_pending_calls")

	w = do(newHandler(t), "GET", "/metrics", "")
	assert.NotContains(t, w.Body.String(), "openpermit_client_pending_calls")
}

func TestDemoPage(t *testing.T) {
	w := do(newHandler(t), "GET", "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>OpenPermit Demo</title>")
}

func TestCORSPreflight(t *testing.T) {
	w := do(newHandler(t), "OPTIONS", "/api/nodes", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
