package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/umami/internal/cache"
	"github.com/hyperjump/umami/internal/config"
	"github.com/hyperjump/umami/internal/embedding"
	"github.com/hyperjump/umami/internal/models"
	"github.com/hyperjump/umami/internal/search"
	"github.com/hyperjump/umami/internal/service"
	"github.com/hyperjump/umami/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := store.NewMemoryStore(embedding.NewHashEmbedder(64))
	engine := search.NewEngine(st)
	c := cache.NewCache(st)
	svc := service.New(st, engine, c)

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	srv := NewServer(svc, cfg, zap.NewNop())

	seed := []*models.Recipe{
		{
			ID:           "r1",
			Title:        "Margherita Pizza",
			Cuisine:      "italian",
			Ingredients:  []models.Ingredient{{Name: "dough"}, {Name: "tomato"}, {Name: "mozzarella"}},
			Instructions: []string{"stretch", "top", "bake"},
			Rating:       4.7,
		},
		{
			ID:           "r2",
			Title:        "Beef Tacos",
			Cuisine:      "mexican",
			Ingredients:  []models.Ingredient{{Name: "tortilla"}, {Name: "beef"}},
			Instructions: []string{"fill", "fold"},
		},
	}
	if err := svc.AddRecipes(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return srv
}

func TestHandleSearch(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	body, _ := json.Marshal(searchRequest{Query: "margherita pizza", Limit: 5})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	var out searchResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Total == 0 {
		t.Fatal("expected search results")
	}
	if out.Recipes[0].ID != "r1" {
		t.Errorf("top result = %s, want r1", out.Recipes[0].ID)
	}
}

func TestHandleSearch_emptyRequest(t *testing.T) {
	srv := newTestServer(t)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleSearch_invalidBody(t *testing.T) {
	srv := newTestServer(t)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader([]byte(`not json`)))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleRecommendations(t *testing.T) {
	srv := newTestServer(t)
	body, _ := json.Marshal(recommendRequest{
		Profile: models.PreferenceProfile{FavoriteCuisines: []string{"italian", "mexican"}},
		Limit:   4,
	})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out searchResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	for _, recipe := range out.Recipes {
		if recipe.Cuisine != "italian" && recipe.Cuisine != "mexican" {
			t.Errorf("unexpected cuisine %q", recipe.Cuisine)
		}
	}
}

func TestHandleGetRecipe(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	r := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/r1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var recipe models.Recipe
	if err := json.NewDecoder(w.Body).Decode(&recipe); err != nil {
		t.Fatal(err)
	}
	if recipe.Title != "Margherita Pizza" {
		t.Errorf("title = %q", recipe.Title)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/v1/recipes/missing", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("status for missing: got %d, want 404", w.Code)
	}
}

func TestHandleSimilar(t *testing.T) {
	srv := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/r1/similar?limit=1", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out searchResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	for _, recipe := range out.Recipes {
		if recipe.ID == "r1" {
			t.Error("similar results must not include the source recipe")
		}
	}
}

func TestHandleAddRecipes(t *testing.T) {
	srv := newTestServer(t)
	body := []byte(`{"recipes": [{"id": "r9", "title": "Pho", "cuisine": "vietnamese",
		"ingredients": [{"name": "noodles"}], "instructions": ["simmer"]}]}`)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/recipes", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	r = httptest.NewRequest(http.MethodGet, "/api/v1/recipes/r9", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("added recipe not retrievable: %d", w.Code)
	}
}

func TestHandleAddRecipes_empty(t *testing.T) {
	srv := newTestServer(t)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/recipes", bytes.NewReader([]byte(`{"recipes": []}`)))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleCacheEndpoints(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	r := httptest.NewRequest(http.MethodGet, "/api/v1/cache/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status: got %d", w.Code)
	}
	var stats models.CacheStats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.Total != 2 || stats.Valid != 2 {
		t.Errorf("stats = %+v, want 2 total, 2 valid", stats)
	}

	r = httptest.NewRequest(http.MethodPost, "/api/v1/cache/expired", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("clear status: got %d", w.Code)
	}
	var cleared struct {
		Removed int `json:"removed"`
	}
	if err := json.NewDecoder(w.Body).Decode(&cleared); err != nil {
		t.Fatal(err)
	}
	if cleared.Removed != 0 {
		t.Errorf("removed = %d, want 0 for fresh entries", cleared.Removed)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d", w.Code)
	}
}

type mockWatchService struct {
	dirs []string
}

func (m *mockWatchService) Directories() []string {
	return append([]string(nil), m.dirs...)
}

func (m *mockWatchService) AddDirectory(path string, _ bool) error {
	for _, d := range m.dirs {
		if d == path {
			return nil
		}
	}
	m.dirs = append(m.dirs, path)
	return nil
}

func (m *mockWatchService) RemoveDirectory(path string) error {
	for i, d := range m.dirs {
		if d == path {
			m.dirs = append(m.dirs[:i], m.dirs[i+1:]...)
			return nil
		}
	}
	return nil
}

func TestHandleWatchDirectories(t *testing.T) {
	srv := newTestServer(t)
	mock := &mockWatchService{dirs: []string{"/tmp/recipes"}}
	srv.watch = mock
	router := srv.Router()

	r := httptest.NewRequest(http.MethodGet, "/api/v1/watch/directories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("list status: got %d", w.Code)
	}
	var out struct {
		Directories []string `json:"directories"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Directories) != 1 || out.Directories[0] != "/tmp/recipes" {
		t.Errorf("directories = %v", out.Directories)
	}

	dir := t.TempDir()
	body, _ := json.Marshal(watchAddRequest{Path: dir})
	r = httptest.NewRequest(http.MethodPost, "/api/v1/watch/directories", bytes.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status: got %d, body %s", w.Code, w.Body.String())
	}
	if len(mock.dirs) != 2 {
		t.Errorf("dirs after add = %v", mock.dirs)
	}

	r = httptest.NewRequest(http.MethodDelete, "/api/v1/watch/directories?path="+dir, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("remove status: got %d", w.Code)
	}
	if len(mock.dirs) != 1 {
		t.Errorf("dirs after remove = %v", mock.dirs)
	}
}

func TestHandleWatchDirectories_disabled(t *testing.T) {
	srv := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/api/v1/watch/directories", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusNotImplemented {
		t.Errorf("status: got %d, want 501", w.Code)
	}
}
