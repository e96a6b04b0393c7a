package graphql

import (
	"log/slog"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/phrazzld/taskdeck-api/internal/api/shared"
)

// Request is the standard GraphQL-over-HTTP request body.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves GraphQL requests over HTTP POST.
type Handler struct {
	schema graphql.Schema
	logger *slog.Logger
}

// NewHandler creates a new GraphQL handler for the given schema.
func NewHandler(schema graphql.Schema, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		schema: schema,
		logger: logger.With(slog.String("component", "graphql_handler")),
	}
}

// ServeHTTP implements http.Handler. Execution errors travel in the
// response body's errors array per the GraphQL convention; the HTTP status
// stays 200 unless the request itself is malformed.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Query == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Query is required")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})

	if len(result.Errors) > 0 {
		h.logger.Debug("graphql execution returned errors",
			"errors", len(result.Errors),
			"operation", req.OperationName)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
