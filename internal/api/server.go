package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/hotness"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/ratings"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/recommend"
)

// Server is the HTTP edge. It owns no domain logic: handlers translate
// between query strings and the engine/ratings service.
type Server struct {
	engine          *recommend.Engine
	ratings         *ratings.Service
	catalogMinVotes int

	loadMu sync.Mutex // serializes lazy catalog loads
}

func NewServer(engine *recommend.Engine, ratingsSvc *ratings.Service, catalogMinVotes int) *Server {
	return &Server{engine: engine, ratings: ratingsSvc, catalogMinVotes: catalogMinVotes}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/", s.handleRoot)
	r.Get("/users/{username}/ratings", s.handleRatings)
	r.Get("/users/{username}/recommendations", s.handleRecommendations)
	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Reel Hot Takes API"})
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	force, _ := strconv.ParseBool(r.URL.Query().Get("force_sync"))

	movies, err := s.ratings.GetRatingsOrSync(r.Context(), username, force)
	if err != nil {
		respondJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	if len(movies) == 0 {
		respondJSON(w, http.StatusOK, map[string]string{
			"error": fmt.Sprintf("Username %q not found or has no rated movies.", username),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"username": username,
		"movies":   hotness.Rank(movies),
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	k := queryInt(r, "k", 20)
	minVotes := queryInt(r, "min_votes", 0)

	if err := s.ensureCatalog(r); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}

	// The freshness guard decides whether the stored ratings are still
	// trustworthy; an unchanged page-1 fingerprint keeps this cheap. The
	// raw cache is only a fallback for when the refresh path is down.
	movies, err := s.ratings.GetRatingsOrSync(r.Context(), username, false)
	if err != nil {
		cached, cErr := s.ratings.Cached(r.Context(), username)
		if cErr != nil || len(cached) == 0 {
			respondJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("[Recommend] refresh failed for user=%s, serving stored ratings: %v", username, err)
		movies = cached
	}
	if len(movies) == 0 {
		respondJSON(w, http.StatusOK, map[string]string{
			"error": fmt.Sprintf("Username %q not found or has no rated movies.", username),
		})
		return
	}

	recs, resolved, err := s.engine.Recommend(movies, k, minVotes)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, recommend.ErrNotLoaded) {
			status = http.StatusServiceUnavailable
		}
		respondJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	log.Printf("[Recommend] user=%s resolved=%d returned=%d", username, resolved, len(recs))

	respondJSON(w, http.StatusOK, map[string]any{
		"username":        username,
		"k":               k,
		"min_votes":       minVotes,
		"count":           len(recs),
		"recommendations": recs,
	})
}

// ensureCatalog lazily builds the feature index on the first request that
// needs it; later loads are explicit redeploys.
func (s *Server) ensureCatalog(r *http.Request) error {
	if s.engine.Loaded() {
		return nil
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.engine.Loaded() {
		return nil
	}
	return s.engine.LoadCatalog(r.Context(), s.catalogMinVotes)
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] failed to encode response: %v", err)
	}
}

var allowedOrigins = map[string]bool{
	"http://localhost:5173":    true,
	"http://127.0.0.1:5173":    true,
	"http://127.0.0.1:8000":    true,
	"https://reelhottakes.xyz": true,
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "*")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
