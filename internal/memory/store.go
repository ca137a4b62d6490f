// Package memory provides the session-scoped vector memory that gives the
// narrative engine long-term recall over past scenes.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// memoryTracer for OpenTelemetry instrumentation.
var memoryTracer = otel.Tracer("taleweaver.memory")

// Sentinel errors for memory operations.
var (
	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyText indicates an empty scene text.
	ErrEmptyText = errors.New("empty scene text")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("failed to generate embedding")
)

// seedText is the neutral placeholder the store is seeded with so that
// similarity search never runs against an empty index.
const seedText = "Mémoire initiale."

// Embedder generates vector embeddings from text.
type Embedder interface {
	// EmbedDocuments generates embeddings for multiple texts.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Metadata is the record attached to each memorized scene.
type Metadata struct {
	// MilestoneIndex is the story progression at the time of writing.
	MilestoneIndex int

	// Flags is a snapshot of the narrative flags at the time of writing.
	Flags map[string]any
}

// Record is a memorized scene returned by Search, most similar first.
type Record struct {
	Text     string
	Metadata Metadata
}

// Config holds configuration for the session memory store.
type Config struct {
	// Collection is the chromem collection name.
	// Default: "scene_memory"
	Collection string
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Collection == "" {
		c.Collection = "scene_memory"
	}
}

// Store is an append-only vector memory over chromem-go.
//
// The store is owned by a single narrative session. It is lazily
// initialized on first use and seeded with one neutral document; records
// are never mutated or deleted, so the index grows for the lifetime of the
// session. Concurrent sessions must each own their own Store.
type Store struct {
	db       *chromem.DB
	embedder Embedder
	config   Config
	logger   *zap.Logger

	initOnce   sync.Once
	initErr    error
	collection *chromem.Collection
}

// NewStore creates a session memory store backed by an in-memory chromem DB.
func NewStore(config Config, embedder Embedder, logger *zap.Logger) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config.ApplyDefaults()

	return &Store{
		db:       chromem.NewDB(),
		embedder: embedder,
		config:   config,
		logger:   logger,
	}, nil
}

// createEmbeddingFunc adapts the Embedder to chromem's query-time hook.
func (s *Store) createEmbeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.EmbedQuery(ctx, text)
	}
}

// ensureCollection creates and seeds the collection on first use.
func (s *Store) ensureCollection(ctx context.Context) (*chromem.Collection, error) {
	s.initOnce.Do(func() {
		collection, err := s.db.GetOrCreateCollection(s.config.Collection, nil, s.createEmbeddingFunc())
		if err != nil {
			s.initErr = fmt.Errorf("creating collection %s: %w", s.config.Collection, err)
			return
		}
		s.collection = collection

		if err := s.addText(ctx, seedText, Metadata{}); err != nil {
			s.initErr = fmt.Errorf("seeding collection: %w", err)
			return
		}

		s.logger.Info("session memory initialized",
			zap.String("collection", s.config.Collection),
		)
	})
	return s.collection, s.initErr
}

// Add embeds the scene text and appends it to the session memory.
func (s *Store) Add(ctx context.Context, text string, meta Metadata) error {
	ctx, span := memoryTracer.Start(ctx, "memory.Store.Add")
	defer span.End()

	if text == "" {
		return ErrEmptyText
	}

	if _, err := s.ensureCollection(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.addText(ctx, text, meta); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("milestone_index", meta.MilestoneIndex))
	span.SetStatus(codes.Ok, "success")

	s.logger.Debug("scene added to memory",
		zap.Int("milestone_index", meta.MilestoneIndex),
		zap.Int("documents", s.collection.Count()),
	)

	return nil
}

// addText embeds and stores a single document.
func (s *Store) addText(ctx context.Context, text string, meta Metadata) error {
	embeddings, err := s.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	doc := chromem.Document{
		ID:        uuid.NewString(),
		Content:   text,
		Metadata:  encodeMetadata(meta),
		Embedding: embeddings[0],
	}

	// Concurrency of 1: the embedding is already computed.
	if err := s.collection.AddDocuments(ctx, []chromem.Document{doc}, 1); err != nil {
		return fmt.Errorf("adding document: %w", err)
	}

	return nil
}

// Search returns up to k memorized scenes nearest to the query, most
// similar first. k is capped at the index size.
func (s *Store) Search(ctx context.Context, query string, k int) ([]Record, error) {
	ctx, span := memoryTracer.Start(ctx, "memory.Store.Search")
	defer span.End()

	span.SetAttributes(attribute.Int("k", k))

	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	collection, err := s.ensureCollection(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if count := collection.Count(); k > count {
		k = count
	}

	results, err := collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("querying collection %s: %w", s.config.Collection, err)
	}

	records := make([]Record, len(results))
	for i, r := range results {
		records[i] = Record{
			Text:     r.Content,
			Metadata: decodeMetadata(r.Metadata),
		}
	}

	span.SetAttributes(attribute.Int("results_count", len(records)))
	span.SetStatus(codes.Ok, "success")

	return records, nil
}

// Count returns the number of memorized documents, including the seed.
// It returns 0 before first use.
func (s *Store) Count() int {
	if s.collection == nil {
		return 0
	}
	return s.collection.Count()
}

// encodeMetadata flattens Metadata into chromem's string map.
func encodeMetadata(meta Metadata) map[string]string {
	out := map[string]string{
		"milestone_index": strconv.Itoa(meta.MilestoneIndex),
	}
	if len(meta.Flags) > 0 {
		if raw, err := json.Marshal(meta.Flags); err == nil {
			out["flags"] = string(raw)
		}
	}
	return out
}

// decodeMetadata restores Metadata from chromem's string map.
func decodeMetadata(raw map[string]string) Metadata {
	var meta Metadata
	if v, ok := raw["milestone_index"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			meta.MilestoneIndex = n
		}
	}
	if v, ok := raw["flags"]; ok {
		var flags map[string]any
		if err := json.Unmarshal([]byte(v), &flags); err == nil {
			meta.Flags = flags
		}
	}
	return meta
}
