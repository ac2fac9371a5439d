package store

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	qd "github.com/qdrant/go-client/qdrant"

	"github.com/hyperjump/umami/internal/embedding"
)

// QdrantStore backs the document store with a Qdrant collection. Equality
// filters are pushed down to Qdrant; range conditions are applied client-side
// after over-fetching, since payloads carry mixed-type values.
type QdrantStore struct {
	client     *qd.Client
	collection string
	embedder   embedding.Embedder
	dimensions uint64
}

// QdrantConfig holds Qdrant connection settings.
type QdrantConfig struct {
	// URL of the Qdrant server, e.g. "http://localhost:6334".
	URL string
	// Collection holds recipe documents; created on first write if missing.
	Collection string
	// APIKey is optional.
	APIKey string
}

// NewQdrantStore connects to Qdrant and returns a store over the configured
// collection.
func NewQdrantStore(cfg QdrantConfig, embedder embedding.Embedder) (*QdrantStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant URL is required")
	}
	if cfg.Collection == "" {
		cfg.Collection = "recipes"
	}

	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid qdrant URL: %w", err)
	}
	port := 6334
	if parsed.Port() != "" {
		p, err := strconv.Atoi(parsed.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid qdrant port: %w", err)
		}
		port = p
	}

	client, err := qd.NewClient(&qd.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &QdrantStore{
		client:     client,
		collection: cfg.Collection,
		embedder:   embedder,
		dimensions: uint64(embedder.Dimensions()),
	}, nil
}

// pointID maps an arbitrary document id onto a stable Qdrant UUID. The
// original id is kept in the payload for the reverse mapping.
func pointID(docID string) *qd.PointId {
	u := uuid.NewSHA1(uuid.NameSpaceOID, []byte(docID))
	return qd.NewIDUUID(u.String())
}

// Upsert embeds and writes each document to the collection.
func (s *QdrantStore) Upsert(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	if err := s.ensureCollection(ctx); err != nil {
		return err
	}

	points := make([]*qd.PointStruct, 0, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("upsert: document without id")
		}
		vec, err := s.embedder.Embed(ctx, doc.Text)
		if err != nil {
			return fmt.Errorf("embed %s: %w", doc.ID, err)
		}
		points = append(points, &qd.PointStruct{
			Id:      pointID(doc.ID),
			Vectors: qd.NewVectors(vec...),
			Payload: buildPayload(doc),
		})
	}

	wait := true
	_, err := s.client.Upsert(ctx, &qd.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points to %s: %w", s.collection, err)
	}
	return nil
}

// Get returns the document with the given id, or ErrNotFound.
func (s *QdrantStore) Get(ctx context.Context, id string) (*Document, error) {
	points, err := s.client.Get(ctx, &qd.GetPoints{
		CollectionName: s.collection,
		Ids:            []*qd.PointId{pointID(id)},
		WithPayload:    qd.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant get: %w", err)
	}
	if len(points) == 0 {
		return nil, ErrNotFound
	}
	doc := payloadToDocument(points[0].Payload)
	return &doc, nil
}

// Query runs a similarity search. Equality conditions become Qdrant match
// filters; range conditions are evaluated on the returned payloads.
func (s *QdrantStore) Query(ctx context.Context, q Query) ([]Result, error) {
	if q.Text == "" {
		return s.scrollFiltered(ctx, q)
	}

	vec, err := s.embedder.Embed(ctx, q.Text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	req := &qd.QueryPoints{
		CollectionName: s.collection,
		Query:          qd.NewQuery(vec...),
		WithPayload:    qd.NewWithPayload(true),
	}
	if q.Limit > 0 {
		// Over-fetch to survive client-side range filtering.
		limit := uint64(q.Limit * 2)
		req.Limit = &limit
	}
	if match := equalityFilter(q.Filter); match != nil {
		req.Filter = match
	}

	points, err := s.client.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	results := make([]Result, 0, len(points))
	for _, point := range points {
		doc := payloadToDocument(point.Payload)
		if q.Filter != nil && !q.Filter.Matches(doc.Metadata) {
			continue
		}
		results = append(results, Result{
			Document: doc,
			Distance: 1 - float64(point.Score),
		})
		if q.Limit > 0 && len(results) >= q.Limit {
			break
		}
	}
	return results, nil
}

func (s *QdrantStore) scrollFiltered(ctx context.Context, q Query) ([]Result, error) {
	limit := uint32(1000)
	points, err := s.client.Scroll(ctx, &qd.ScrollPoints{
		CollectionName: s.collection,
		Limit:          &limit,
		WithPayload:    qd.NewWithPayload(true),
		Filter:         equalityFilter(q.Filter),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant scroll: %w", err)
	}

	results := make([]Result, 0, len(points))
	for _, point := range points {
		doc := payloadToDocument(point.Payload)
		if q.Filter != nil && !q.Filter.Matches(doc.Metadata) {
			continue
		}
		results = append(results, Result{Document: doc})
		if q.Limit > 0 && len(results) >= q.Limit {
			break
		}
	}
	return results, nil
}

// List returns every document in the collection.
func (s *QdrantStore) List(ctx context.Context) ([]Document, error) {
	results, err := s.scrollFiltered(ctx, Query{})
	if err != nil {
		return nil, err
	}
	docs := make([]Document, len(results))
	for i, r := range results {
		docs[i] = r.Document
	}
	return docs, nil
}

// Delete removes documents by id.
func (s *QdrantStore) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	pointIDs := make([]*qd.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = pointID(id)
	}
	wait := true
	_, err := s.client.Delete(ctx, &qd.DeletePoints{
		CollectionName: s.collection,
		Points:         qd.NewPointsSelector(pointIDs...),
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("qdrant delete: %w", err)
	}
	return nil
}

// Count returns the number of points in the collection.
func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.Count(ctx, &qd.CountPoints{
		CollectionName: s.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant count: %w", err)
	}
	return int(n), nil
}

// Close releases the underlying gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err == nil && exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qd.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qd.NewVectorsConfig(&qd.VectorParams{
			Size:     s.dimensions,
			Distance: qd.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", s.collection, err)
	}
	return nil
}

// equalityFilter builds a Qdrant filter from the Eq conditions only.
func equalityFilter(f Filter) *qd.Filter {
	if len(f) == 0 {
		return nil
	}
	var conditions []*qd.Condition
	for field, cond := range f {
		if cond.Eq == nil {
			continue
		}
		switch v := cond.Eq.(type) {
		case string:
			conditions = append(conditions, qd.NewMatch(field, v))
		case bool:
			conditions = append(conditions, qd.NewMatchBool(field, v))
		}
	}
	if len(conditions) == 0 {
		return nil
	}
	return &qd.Filter{Must: conditions}
}

// buildPayload converts a document to a Qdrant payload. The original id and
// text ride along so hits can be mapped back without a second lookup.
func buildPayload(doc Document) map[string]*qd.Value {
	payload := map[string]*qd.Value{
		"id":   qd.NewValueString(doc.ID),
		"text": qd.NewValueString(doc.Text),
	}
	for key, value := range doc.Metadata {
		switch v := value.(type) {
		case string:
			payload[key] = qd.NewValueString(v)
		case int:
			payload[key] = qd.NewValueInt(int64(v))
		case int64:
			payload[key] = qd.NewValueInt(v)
		case float64:
			payload[key] = qd.NewValueDouble(v)
		case bool:
			payload[key] = qd.NewValueBool(v)
		default:
			payload[key] = qd.NewValueString(fmt.Sprintf("%v", v))
		}
	}
	return payload
}

func payloadToDocument(payload map[string]*qd.Value) Document {
	doc := Document{Metadata: make(map[string]any)}
	for key, value := range payload {
		switch key {
		case "id":
			doc.ID = value.GetStringValue()
			continue
		case "text":
			doc.Text = value.GetStringValue()
			continue
		}
		switch kind := value.GetKind().(type) {
		case *qd.Value_StringValue:
			doc.Metadata[key] = kind.StringValue
		case *qd.Value_IntegerValue:
			doc.Metadata[key] = kind.IntegerValue
		case *qd.Value_DoubleValue:
			doc.Metadata[key] = kind.DoubleValue
		case *qd.Value_BoolValue:
			doc.Metadata[key] = kind.BoolValue
		}
	}
	return doc
}
