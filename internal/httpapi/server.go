// Package httpapi exposes the optional HTTP daemon surface: POST /find and
// POST /query over the retriever, per the external-interface contract.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mvp-joe/maharajah/internal/retriever"
	"github.com/mvp-joe/maharajah/internal/store"
)

// searchRequest is the JSON body accepted by both endpoints.
type searchRequest struct {
	Query    string   `json:"query"`
	Limit    *int     `json:"limit,omitempty"`
	MinScore *float32 `json:"min_score,omitempty"`
}

const defaultLimit = 10

// searchFunc runs one of the retriever's two search modes.
type searchFunc func(req *http.Request, body searchRequest) ([]store.SearchResult, error)

// NewHandler wires /find and /query against r.
func NewHandler(r *retriever.Retriever) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /find", handler(func(req *http.Request, body searchRequest) ([]store.SearchResult, error) {
		return r.Find(req.Context(), body.Query, limitOf(body))
	}))
	mux.HandleFunc("POST /query", handler(func(req *http.Request, body searchRequest) ([]store.SearchResult, error) {
		return r.Query(req.Context(), body.Query, limitOf(body))
	}))
	return mux
}

func handler(search searchFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body searchRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		results, err := search(req, body)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if body.MinScore != nil {
			results = filterMinScore(results, *body.MinScore)
		}

		writeJSON(w, http.StatusOK, results)
	}
}

func limitOf(body searchRequest) int {
	if body.Limit != nil && *body.Limit > 0 {
		return *body.Limit
	}
	return defaultLimit
}

// filterMinScore keeps rows whose score is at or above threshold.
func filterMinScore(results []store.SearchResult, threshold float32) []store.SearchResult {
	kept := make([]store.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Score >= threshold {
			kept = append(kept, r)
		}
	}
	return kept
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}
