package rag

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the RAG API under /api/rag.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/rag", func(r chi.Router) {
		r.Post("/documents", handleIngest(svc))
		r.Delete("/documents", handleDeleteBySource(svc))
		r.Get("/documents/{id}", handleGetDocument(svc))
		r.Delete("/documents/{id}", handleDeleteDocument(svc))
		r.Post("/search", handleSearch(svc))
		r.Post("/similar", handleFindSimilar(svc))
		r.Post("/prompt", handleBuildPrompt(svc))
		r.Get("/stats", handleStats(svc))
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps the service error taxonomy onto HTTP statuses:
// validation 400, not-ready 503, everything else 500.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		status = http.StatusBadRequest
	case errors.Is(err, ErrNotReady):
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, map[string]string{"error": err.Error()})
}

type ingestRequest struct {
	Documents []DocumentInput `json:"documents"`
}

func handleIngest(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ingestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		ids, err := svc.Ingest(r.Context(), req.Documents)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, map[string]any{
			"ids":   ids,
			"count": len(ids),
		})
	}
}

type searchRequest struct {
	Query string `json:"query"`
	SearchOptions
}

func handleSearch(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		resp, err := svc.Search(r.Context(), req.Query, req.SearchOptions)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, resp)
	}
}

type similarRequest struct {
	Content   string `json:"content"`
	Limit     int    `json:"limit,omitempty"`
	ExcludeID string `json:"excludeId,omitempty"`
}

func handleFindSimilar(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req similarRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		results, err := svc.FindSimilar(r.Context(), req.Content, req.Limit, req.ExcludeID)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"documents":    results,
			"totalResults": len(results),
		})
	}
}

type promptRequest struct {
	Query        string `json:"query"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
	SearchOptions
}

func handleBuildPrompt(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req promptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		prompt, err := svc.BuildPrompt(r.Context(), req.Query, req.SystemPrompt, req.SearchOptions)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, prompt)
	}
}

func handleGetDocument(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err)
			return
		}
		if doc == nil {
			respondJSON(w, http.StatusNotFound, map[string]string{"error": "document not found"})
			return
		}

		respondJSON(w, http.StatusOK, doc)
	}
}

func handleDeleteDocument(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := svc.Delete(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

func handleDeleteBySource(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source := r.URL.Query().Get("source")
		if err := svc.DeleteBySource(r.Context(), source); err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"deletedSource": source})
	}
}

func handleStats(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, stats)
	}
}
