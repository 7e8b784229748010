package demo

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// maxDelay caps the artificial latency a request may ask for.
const maxDelay = 5 * time.Second

// APIRouter serves the demo JSON endpoints the fetch demos load from.
//
// Every endpoint honors two query parameters for exercising the resource
// lifecycle: delay (a Go duration, e.g. 300ms) slows the response down, and
// status (an HTTP code) forces a failure response.
func APIRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(shapeResponse)

	r.Get("/posts", listPosts)
	r.Get("/posts/{id}", getPost)
	r.Get("/users/{id}", getUser)

	return r
}

// shapeResponse applies the delay and status query parameters.
func shapeResponse(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.URL.Query().Get("delay"); raw != "" {
			if d, err := time.ParseDuration(raw); err == nil && d > 0 {
				if d > maxDelay {
					d = maxDelay
				}
				select {
				case <-time.After(d):
				case <-r.Context().Done():
					return
				}
			}
		}

		if raw := r.URL.Query().Get("status"); raw != "" {
			if code, err := strconv.Atoi(raw); err == nil && code >= 400 && code < 600 {
				writeJSON(w, code, map[string]string{"error": http.StatusText(code)})
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func listPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, seedPosts)
}

func getPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	post, ok := findPost(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "post not found"})
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func getUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	user, ok := findUser(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
