package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
)

// RequestValidator returns a middleware that rejects requests which do not match
// the embedded OpenAPI document with 400 and a JSON error body.
func RequestValidator(logger *slog.Logger) (MiddlewareFunc, error) {
	swagger, err := GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	// Match on path only; the API is served from whatever host the operator picks.
	swagger.Servers = nil

	router, err := legacyrouter.NewRouter(swagger)
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				status := http.StatusBadRequest
				if errors.Is(err, routers.ErrPathNotFound) {
					status = http.StatusNotFound
				} else if errors.Is(err, routers.ErrMethodNotAllowed) {
					status = http.StatusMethodNotAllowed
				}
				writeError(w, status, err.Error(), logger)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.Debug("Request rejected by schema", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusBadRequest, validationMessage(err), logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

// validationMessage keeps the reason of a schema violation and drops the echoed schema.
func validationMessage(err error) string {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return "request body has an error: " + schemaErr.Reason
	}
	return err.Error()
}
