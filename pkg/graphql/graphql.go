// Package graphql wraps graphql-go with schema construction and an HTTP
// handler so a schema can be mounted on the router in one line.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
)

// NewSchema creates a GraphQL schema from a root query object.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

type postBody struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves GraphQL over HTTP: POST with a JSON body, or GET with a
// ?query= parameter. Execution errors come back in the standard "errors"
// array with status 200, per the GraphQL over-HTTP convention.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body postBody

		switch r.Method {
		case http.MethodGet:
			body.Query = r.URL.Query().Get("query")
		case http.MethodPost:
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "malformed GraphQL request", http.StatusBadRequest)
				return
			}
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			OperationName:  body.OperationName,
			VariableValues: body.Variables,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}
}
