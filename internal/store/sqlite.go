package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/umami/internal/embedding"
)

// SQLiteStore persists documents and their embeddings in SQLite. Similarity
// search is brute-force over all rows, which is fine at recipe-catalog scale.
type SQLiteStore struct {
	db       *sql.DB
	embedder embedding.Embedder
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string, embedder embedding.Embedder) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, embedder: embedder}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS recipes (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		metadata TEXT,
		embedding BLOB,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_recipes_updated_at ON recipes(updated_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Upsert embeds and writes each document; re-writing an id overwrites.
func (s *SQLiteStore) Upsert(ctx context.Context, docs []Document) error {
	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("upsert: document without id")
		}
		vec, err := s.embedder.Embed(ctx, doc.Text)
		if err != nil {
			return fmt.Errorf("embed %s: %w", doc.ID, err)
		}
		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}

		_, err = s.db.ExecContext(ctx,
			`INSERT INTO recipes (id, text, metadata, embedding, updated_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   text = excluded.text,
			   metadata = excluded.metadata,
			   embedding = excluded.embedding,
			   updated_at = excluded.updated_at`,
			doc.ID, doc.Text, string(metadataJSON), encodeVector(vec), time.Now(),
		)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", doc.ID, err)
		}
	}
	return nil
}

// Get returns the document with the given id, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Document, error) {
	var doc Document
	var metadataJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, text, metadata FROM recipes WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Text, &metadataJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return &doc, nil
}

// Query runs a filtered similarity search over all rows. An empty query text
// returns filtered documents in row order with zero distance.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Result, error) {
	var queryVec []float32
	if q.Text != "" {
		vec, err := s.embedder.Embed(ctx, q.Text)
		if err != nil {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		queryVec = vec
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, metadata, embedding FROM recipes ORDER BY updated_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var doc Document
		var metadataJSON string
		var blob []byte
		if err := rows.Scan(&doc.ID, &doc.Text, &metadataJSON, &blob); err != nil {
			return nil, err
		}
		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
				continue // malformed row, skip
			}
		}
		if q.Filter != nil && !q.Filter.Matches(doc.Metadata) {
			continue
		}

		res := Result{Document: doc}
		if queryVec != nil {
			res.Distance = 1 - dot(queryVec, decodeVector(blob))
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if queryVec != nil {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Distance < results[j].Distance
		})
	}
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}

// List returns all documents in row order.
func (s *SQLiteStore) List(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, metadata FROM recipes ORDER BY updated_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var metadataJSON string
		if err := rows.Scan(&doc.ID, &doc.Text, &metadataJSON); err != nil {
			return nil, err
		}
		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
				continue
			}
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Delete removes documents by id; missing ids are ignored.
func (s *SQLiteStore) Delete(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
	}
	return nil
}

// Count returns the number of stored documents.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// encodeVector packs a vector as little-endian float32 bytes.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}
