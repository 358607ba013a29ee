package graph

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Handler serves GraphQL over HTTP. POST carries a JSON body; GET carries
// query, variables and operationName as URL parameters and may only run
// queries.
type Handler struct {
	Schema graphql.Schema
	Log    *zap.Logger
}

func NewHandler(schema graphql.Schema, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Schema: schema, Log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	switch r.Method {
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, kit.MaxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
			return
		}
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if raw := q.Get("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				kit.WriteError(w, r, http.StatusBadRequest, "bad variables", nil)
				return
			}
		}
		if isMutation(req.Query, req.OperationName) {
			w.Header().Set("Allow", http.MethodPost)
			kit.WriteError(w, r, http.StatusMethodNotAllowed, "mutations require POST", nil)
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		kit.WriteError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	if req.Query == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "query is required", nil)
		return
	}

	res := graphql.Do(graphql.Params{
		Schema:         h.Schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})
	if res.HasErrors() {
		for _, e := range res.Errors {
			h.Log.Debug("graphql error",
				zap.String("operation", req.OperationName),
				zap.String("message", e.Message),
			)
		}
	}
	kit.WriteJSON(w, http.StatusOK, res)
}

// isMutation reports whether the operation that would run is a mutation.
// Unparsable documents are left for graphql.Do to report.
func isMutation(query, operationName string) bool {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return false
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName != "" && (op.Name == nil || op.Name.Value != operationName) {
			continue
		}
		if op.Operation == ast.OperationTypeMutation {
			return true
		}
	}
	return false
}
