// Package main is the Umami CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/umami/internal/cache"
	"github.com/hyperjump/umami/internal/cli"
	"github.com/hyperjump/umami/internal/config"
	"github.com/hyperjump/umami/internal/embedding"
	"github.com/hyperjump/umami/internal/ingest"
	"github.com/hyperjump/umami/internal/models"
	"github.com/hyperjump/umami/internal/search"
	"github.com/hyperjump/umami/internal/searchindex"
	"github.com/hyperjump/umami/internal/server"
	"github.com/hyperjump/umami/internal/service"
	"github.com/hyperjump/umami/internal/store"
	"github.com/hyperjump/umami/internal/watcher"
	"github.com/hyperjump/umami/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/umami/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "recommend":
		runRecommend()
	case "ingest":
		runIngest()
	case "stats":
		runStats()
	case "clear-expired":
		runClearExpired()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("umami version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	svc := components.Service
	loader := ingest.NewLoader()
	watchOpts := []watcher.Option{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.New(
		cfg.Watch.Directories,
		cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			recipes, err := loader.LoadFile(path)
			if err != nil {
				logger.Warn("watch ingest failed", zap.String("path", path), zap.Error(err))
				return
			}
			if err := svc.AddRecipes(context.Background(), recipes); err != nil {
				logger.Warn("watch add recipes failed", zap.String("path", path), zap.Error(err))
				return
			}
			logger.Info("ingested recipe file", zap.String("path", path), zap.Int("recipes", len(recipes)))
		},
		nil,
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	watchSvc.SyncExistingFiles()

	srv := server.NewServer(svc, cfg, logger, server.WithWatch(watchSvc, resolvedConfigPath))
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildQuery joins all positional args with spaces so multi-word queries work
// the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after positional
// arguments to the front so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	limit := fs.Int("limit", 10, "number of results")
	ingredient := fs.String("ingredient", "", "ingredient to search by")
	cuisineFilter := fs.String("cuisine", "", "restrict to one cuisine")
	maxMinutes := fs.Int("max-minutes", 0, "maximum cooking time in minutes")
	minRating := fs.Float64("min-rating", 0, "minimum rating")
	vegetarian := fs.Bool("vegetarian", false, "vegetarian recipes only")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(args)

	queryStr := buildQuery(fs.Args())
	if queryStr == "" && *ingredient == "" {
		fmt.Println("Usage: umami search [flags] <query>")
		os.Exit(1)
	}
	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	filters := models.SearchFilters{
		Cuisine:           *cuisineFilter,
		MaxCookingMinutes: *maxMinutes,
		MinRating:         *minRating,
		Vegetarian:        *vegetarian,
	}

	var recipes []*models.Recipe
	if *serverURL != "" {
		recipes, err = searchViaHTTP(*serverURL, queryStr, *ingredient, filters, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		components, cleanup := mustInitialize(*configPath)
		defer cleanup()
		query := queryStr
		if *ingredient != "" {
			if query != "" {
				query += " "
			}
			query += *ingredient
		}
		recipes = components.Service.Search(context.Background(), query, filters, *limit)
	}
	if err := cli.WriteRecipes(os.Stdout, recipes, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL, query, ingredient string, filters models.SearchFilters, limit int) ([]*models.Recipe, error) {
	payload := map[string]any{
		"query":   query,
		"filters": filters,
		"limit":   limit,
	}
	if ingredient != "" {
		payload["ingredient"] = ingredient
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response struct {
		Recipes []*models.Recipe `json:"recipes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return response.Recipes, nil
}

func runRecommend() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	limit := fs.Int("limit", 10, "number of recommendations")
	cuisines := fs.String("cuisines", "", "comma-separated favorite cuisines")
	foods := fs.String("foods", "", "comma-separated favorite foods")
	diets := fs.String("diets", "", "comma-separated dietary restrictions")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(args)

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	profile := models.PreferenceProfile{
		FavoriteCuisines:    splitList(*cuisines),
		FavoriteFoods:       splitList(*foods),
		DietaryRestrictions: splitList(*diets),
	}

	var recipes []*models.Recipe
	if *serverURL != "" {
		body, _ := json.Marshal(map[string]any{"profile": profile, "limit": *limit})
		resp, err := http.Post(*serverURL+"/api/v1/recommendations", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Recommend failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var response struct {
			Recipes []*models.Recipe `json:"recipes"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
			os.Exit(1)
		}
		recipes = response.Recipes
	} else {
		components, cleanup := mustInitialize(*configPath)
		defer cleanup()
		recipes = components.Service.Recommend(context.Background(), profile, *limit)
	}
	if err := cli.WriteRecipes(os.Stdout, recipes, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: umami ingest [flags] <file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	components, cleanup := mustInitialize(*configPath)
	defer cleanup()

	ctx := context.Background()
	loader := ingest.NewLoader()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}

	ingestFile := func(p string) int {
		recipes, err := loader.LoadFile(p)
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", p, err)
			return 0
		}
		if err := components.Service.AddRecipes(ctx, recipes); err != nil {
			fmt.Printf("Failed to store recipes from %s: %v\n", p, err)
			return 0
		}
		return len(recipes)
	}

	total := 0
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			fmt.Printf("Failed to read directory: %v\n", err)
			os.Exit(1)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if ext != ".json" && ext != ".ndjson" && ext != ".xlsx" {
				continue
			}
			total += ingestFile(filepath.Join(path, entry.Name()))
		}
	} else {
		total = ingestFile(path)
	}
	fmt.Printf("Ingested %d recipe(s) from %s\n", total, path)
}

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	var stats models.CacheStats
	if *serverURL != "" {
		resp, err := http.Get(*serverURL + "/api/v1/cache/stats")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Stats failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
			fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		components, cleanup := mustInitialize(*configPath)
		defer cleanup()
		stats = components.Service.Stats(context.Background())
	}
	if err := cli.WriteStats(os.Stdout, stats, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runClearExpired() {
	fs := flag.NewFlagSet("clear-expired", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	_ = fs.Parse(os.Args[2:])

	if *serverURL != "" {
		resp, err := http.Post(*serverURL+"/api/v1/cache/expired", "application/json", nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Clear failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Removed int `json:"removed"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed %d expired recipe(s)\n", out.Removed)
		return
	}

	components, cleanup := mustInitialize(*configPath)
	defer cleanup()
	removed, err := components.Service.ClearExpired(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Clear failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Removed %d expired recipe(s)\n", removed)
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: umami watch <add|remove|list> [path]")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[3:])
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: umami watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(map[string]any{"path": path, "sync": true})
		resp, err := http.Post(*serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Add failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: umami watch remove <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Remove failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		resp, err := http.Get(*serverURL + "/api/v1/watch/directories")
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("List failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			os.Exit(1)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fmt.Printf("Unknown watch subcommand: %s\n", sub)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Store    store.Store
	Embedder embedding.Embedder
	Index    searchindex.Index
	Service  *service.Service
}

func (c *Components) Close() {
	if c.Index != nil {
		_ = c.Index.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

// mustInitialize loads config and builds components, exiting on failure.
func mustInitialize(configPath string) (*Components, func()) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components, func() {
		components.Close()
		_ = logger.Sync()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	var embedder embedding.Embedder
	if cfg.Embedding.ModelPath != "" {
		onnxEmbedder, err := embedding.NewONNXEmbedder(
			cfg.Embedding.ModelPath,
			cfg.Embedding.Dimensions,
			cfg.Embedding.MaxTokens,
		)
		if err != nil {
			logger.Warn("onnx embedder unavailable, using hash embedder", zap.Error(err))
			embedder = embedding.NewHashEmbedder(cfg.Embedding.Dimensions)
		} else {
			embedder = onnxEmbedder
		}
	} else {
		embedder = embedding.NewHashEmbedder(cfg.Embedding.Dimensions)
	}
	if cfg.Embedding.CacheSize > 0 {
		embedder = embedding.NewCachedEmbedder(embedder, cfg.Embedding.CacheSize)
	}

	var st store.Store
	var err error
	switch cfg.Storage.Backend {
	case "memory":
		st = store.NewMemoryStore(embedder)
	case "qdrant":
		st, err = store.NewQdrantStore(store.QdrantConfig{
			URL:        cfg.Storage.QdrantURL,
			Collection: cfg.Storage.QdrantCollection,
			APIKey:     cfg.Storage.QdrantAPIKey,
		}, embedder)
	default:
		st, err = store.NewSQLiteStore(cfg.Storage.DatabasePath, embedder)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	logger.Info("store initialized", zap.String("backend", cfg.Storage.Backend))

	index, err := searchindex.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize search index: %w", err)
	}

	engine := search.NewEngine(st, search.WithLogger(logger))
	recipeCache := cache.NewCache(st,
		cache.WithTTL(time.Duration(cfg.Cache.TTLDays)*24*time.Hour),
		cache.WithIndex(index),
		cache.WithLogger(logger),
	)
	svc := service.New(st, engine, recipeCache, service.WithLogger(logger))

	return &Components{
		Store:    st,
		Embedder: embedder,
		Index:    index,
		Service:  svc,
	}, nil
}

func printUsage() {
	fmt.Println(`umami - Recipe search and recommendation engine

Usage:
  umami server [flags]              Start the HTTP server
  umami search [flags] <query>      Search recipes
  umami recommend [flags]           Build recommendations from preferences
  umami ingest [flags] <file|dir>   Load recipe files into the cache
  umami stats [flags]               Show cache freshness statistics
  umami clear-expired [flags]       Remove expired cached recipes
  umami watch <add|remove|list>     Manage drop folders on a running server
  umami version                     Show version
  umami help                        Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/umami/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --server string      Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --limit int          Number of results (default: 10)
  --ingredient string  Ingredient to search by
  --cuisine string     Restrict to one cuisine
  --max-minutes int    Maximum cooking time
  --min-rating float   Minimum rating
  --vegetarian         Vegetarian recipes only
  --output string      Output format: text, compact, or json

Recommend Flags:
  --cuisines string  Comma-separated favorite cuisines
  --foods string     Comma-separated favorite foods
  --diets string     Comma-separated dietary restrictions
  --limit int        Number of recommendations (default: 10)

Examples:
  umami server
  umami search chicken curry
  umami search --cuisine italian --max-minutes 30 pasta
  umami search --ingredient chicken --output json
  umami recommend --cuisines italian,mexican --limit 9
  umami ingest recipes.json
  umami stats
  umami clear-expired
  umami watch add /path/to/recipes`)
}
