package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/umami/internal/config"
	"github.com/hyperjump/umami/internal/models"
)

type searchRequest struct {
	Query      string               `json:"query"`
	Ingredient string               `json:"ingredient,omitempty"`
	Filters    models.SearchFilters `json:"filters,omitempty"`
	Limit      int                  `json:"limit,omitempty"`
}

type searchResponse struct {
	Recipes []*models.Recipe `json:"recipes"`
	Total   int              `json:"total"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" && req.Ingredient == "" && req.Filters.IsZero() {
		s.respondError(w, http.StatusBadRequest, "query, ingredient or filters required")
		return
	}
	limit := s.clampLimit(req.Limit)
	s.logger.Debug("search request", zap.String("query", req.Query), zap.Int("limit", limit))

	query := req.Query
	if req.Ingredient != "" {
		if cached, ok := s.svc.CacheGet(r.Context(), req.Query, req.Ingredient, req.Filters); ok {
			if len(cached) > limit {
				cached = cached[:limit]
			}
			s.respondJSON(w, http.StatusOK, searchResponse{Recipes: cached, Total: len(cached)})
			return
		}
		if query != "" {
			query += " "
		}
		query += req.Ingredient
	}
	recipes := s.svc.Search(r.Context(), query, req.Filters, limit)
	s.respondJSON(w, http.StatusOK, searchResponse{Recipes: recipes, Total: len(recipes)})
}

type recommendRequest struct {
	Profile models.PreferenceProfile `json:"profile"`
	Limit   int                      `json:"limit,omitempty"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	limit := s.clampLimit(req.Limit)
	s.logger.Debug("recommendation request",
		zap.Strings("cuisines", req.Profile.FavoriteCuisines),
		zap.Int("limit", limit))
	recipes := s.svc.Recommend(r.Context(), req.Profile, limit)
	s.respondJSON(w, http.StatusOK, searchResponse{Recipes: recipes, Total: len(recipes)})
}

type addRecipesRequest struct {
	Recipes []json.RawMessage `json:"recipes"`
}

func (s *Server) handleAddRecipes(w http.ResponseWriter, r *http.Request) {
	var req addRecipesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	recipes := make([]*models.Recipe, 0, len(req.Recipes))
	for _, raw := range req.Recipes {
		recipe, err := models.DecodeRecipe(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid recipe")
			return
		}
		recipes = append(recipes, recipe)
	}
	if len(recipes) == 0 {
		s.respondError(w, http.StatusBadRequest, "recipes are required")
		return
	}
	if err := s.svc.AddRecipes(r.Context(), recipes); err != nil {
		s.logger.Error("add recipes failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]any{"added": len(recipes)})
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	recipe := s.svc.GetRecipe(r.Context(), id)
	if recipe == nil {
		s.respondError(w, http.StatusNotFound, "recipe not found")
		return
	}
	s.respondJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit := s.clampLimit(queryInt(r, "limit"))
	recipes := s.svc.FindSimilar(r.Context(), id, limit)
	s.respondJSON(w, http.StatusOK, searchResponse{Recipes: recipes, Total: len(recipes)})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.svc.Stats(r.Context()))
}

func (s *Server) handleClearExpired(w http.ResponseWriter, r *http.Request) {
	removed, err := s.svc.ClearExpired(r.Context())
	if err != nil {
		s.logger.Error("clear expired failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWatchDirectoriesList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"directories": s.watch.Directories()})
}

type watchAddRequest struct {
	Path string `json:"path"`
	Sync *bool  `json:"sync,omitempty"`
}

func (s *Server) handleWatchDirectoriesAdd(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	var req watchAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return
	}
	syncExisting := true
	if req.Sync != nil {
		syncExisting = *req.Sync
	}
	if err := s.watch.AddDirectory(abs, syncExisting); err != nil {
		s.logger.Error("watch add directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleWatchDirectoriesRemove(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		var body struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Path != "" {
			path = body.Path
		}
	}
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required (query or body)")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	if err := s.watch.RemoveDirectory(abs); err != nil {
		s.logger.Error("watch remove directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

func (s *Server) persistWatchDirectories() {
	if s.configPath == "" {
		return
	}
	s.configMu.Lock()
	s.config.Watch.Directories = s.watch.Directories()
	err := config.Save(s.configPath, s.config)
	s.configMu.Unlock()
	if err != nil {
		s.logger.Warn("failed to persist watch config", zap.Error(err))
	}
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
