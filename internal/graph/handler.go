package graph

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/secassets/inventory-backend/internal/graph/apierror"
	"github.com/sirupsen/logrus"
)

type requestParams struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves GraphQL requests sent as a POST body or as GET query parameters
type Handler struct {
	schema    graphql.Schema
	presenter apierror.PresenterFunc
	log       logrus.FieldLogger
}

func NewHandler(schema graphql.Schema, log logrus.FieldLogger) *Handler {
	return &Handler{
		schema:    schema,
		presenter: apierror.GetErrorPresenter(log),
		log:       log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params := requestParams{}

	switch r.Method {
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeErrors(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	case http.MethodGet:
		q := r.URL.Query()
		params.Query = q.Get("query")
		params.OperationName = q.Get("operationName")
		if v := q.Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &params.Variables); err != nil {
				writeErrors(w, http.StatusBadRequest, "Invalid variables")
				return
			}
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		writeErrors(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if params.Query == "" {
		writeErrors(w, http.StatusBadRequest, "Missing query")
		return
	}

	ctx := r.Context()
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  params.Query,
		VariableValues: params.Variables,
		OperationName:  params.OperationName,
		Context:        ctx,
	})

	for i := range result.Errors {
		result.Errors[i] = h.presenter(ctx, result.Errors[i])
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.log.WithError(err).Error("writing GraphQL response")
	}
}

func writeErrors(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"errors": []map[string]interface{}{{"message": msg}},
	})
}
