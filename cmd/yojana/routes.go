package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/janmitra/yojana/ask"
	"github.com/janmitra/yojana/linkcheck"
	"github.com/janmitra/yojana/scheme"
	"github.com/janmitra/yojana/shield"
	"github.com/janmitra/yojana/volunteer"
)

// newRouter wires every HTTP endpoint. Kept apart from main so tests can
// exercise the routes against fake upstreams.
func newRouter(svc *ask.Service, verifier *linkcheck.Verifier, schemes *scheme.Store, volunteers *volunteer.Store) http.Handler {
	r := chi.NewRouter()
	for _, mw := range shield.DefaultAPIStack() {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Post("/ask", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Question string `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
			writeJSON(w, 400, map[string]any{
				"success": false,
				"error":   "Missing question in request body",
			})
			return
		}
		resp, err := svc.Answer(r.Context(), req.Question)
		if errors.Is(err, ask.ErrEmptyQuestion) {
			writeJSON(w, 400, map[string]any{
				"success": false,
				"error":   "Missing question in request body",
			})
			return
		}
		if err != nil {
			shield.GetLogger(r.Context()).Error("answer failed", "error", err)
			writeJSON(w, 500, map[string]any{
				"success": false,
				"error":   "Failed to generate response",
				"details": err.Error(),
			})
			return
		}
		writeJSON(w, 200, resp)
	})

	r.Post("/clear-cache", func(w http.ResponseWriter, _ *http.Request) {
		svc.ClearCache()
		writeJSON(w, 200, map[string]any{
			"success": true,
			"message": "Cache cleared successfully",
		})
	})

	r.Post("/verify-link", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Link string `json:"link"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Link == "" {
			writeJSON(w, 400, map[string]any{
				"success": false,
				"message": "Missing link parameter",
			})
			return
		}
		writeJSON(w, 200, struct {
			Success bool `json:"success"`
			linkcheck.Result
		}{true, verifier.Verify(r.Context(), req.Link)})
	})

	r.Route("/api/schemes", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			list, err := schemes.List(r.Context())
			if err != nil {
				writeError(w, 500, err)
				return
			}
			writeJSON(w, 200, list)
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var rec scheme.Record
			if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
				writeError(w, 400, err)
				return
			}
			if rec.Name == "" {
				writeError(w, 400, errors.New("name is required"))
				return
			}
			if err := schemes.Insert(r.Context(), &rec); err != nil {
				writeError(w, 500, err)
				return
			}
			writeJSON(w, 201, rec)
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			rec, err := schemes.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeError(w, 500, err)
				return
			}
			if rec == nil {
				writeError(w, 404, errors.New("scheme not found"))
				return
			}
			writeJSON(w, 200, rec)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := schemes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
				writeError(w, 500, err)
				return
			}
			writeJSON(w, 200, map[string]string{"status": "deleted"})
		})
	})

	r.Route("/api/volunteers", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var v volunteer.Volunteer
			if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
				writeJSON(w, 400, map[string]any{"success": false, "error": err.Error()})
				return
			}
			if err := volunteers.Insert(r.Context(), &v); err != nil {
				writeJSON(w, 400, map[string]any{"success": false, "error": err.Error()})
				return
			}
			writeJSON(w, 201, map[string]any{"success": true, "data": v})
		})
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			list, err := volunteers.List(r.Context())
			if err != nil {
				writeJSON(w, 500, map[string]any{"success": false, "error": err.Error()})
				return
			}
			writeJSON(w, 200, map[string]any{"success": true, "data": list})
		})
		r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
			q := volunteer.Query{
				Location: r.URL.Query().Get("location"),
				Language: r.URL.Query().Get("language"),
			}
			found, err := volunteers.Search(r.Context(), q)
			if err != nil {
				writeJSON(w, 500, map[string]any{"error": "Failed to search volunteers", "details": err.Error()})
				return
			}
			writeJSON(w, 200, map[string]any{
				"count": len(found),
				"searchCriteria": map[string]string{
					"location": orDefault(q.Location, "All locations"),
					"language": orDefault(q.Language, "All languages"),
				},
				"volunteers": found,
			})
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			v, err := volunteers.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeJSON(w, 500, map[string]any{"error": "Failed to fetch volunteer details"})
				return
			}
			if v == nil {
				writeJSON(w, 404, map[string]any{"error": "Volunteer not found"})
				return
			}
			writeJSON(w, 200, v)
		})
	})

	return r
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
