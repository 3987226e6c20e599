// Package redis implements the vector index tier and shared breaker state on Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/observability"
)

const (
	redisDialectVersion = 2
	keyPrefix           = "emb:"
)

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, config Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// VectorIndex stores cache entries as hashes under a RediSearch vector index.
type VectorIndex struct {
	client             *redis.Client
	indexName          string
	embeddingDimension int
}

// NewVectorIndex creates the index adapter, creating the search index if it does not exist.
func NewVectorIndex(
	ctx context.Context,
	client *redis.Client,
	indexName string,
	embeddingDimension int,
) (*VectorIndex, error) {
	v := &VectorIndex{
		client:             client,
		indexName:          indexName,
		embeddingDimension: embeddingDimension,
	}

	if err := v.createIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return v, nil
}

// Lookup returns the entry stored under fingerprint or domain.ErrCacheMiss.
func (v *VectorIndex) Lookup(ctx context.Context, fingerprint string) (*domain.CacheEntry, error) {
	fields, err := v.client.HGetAll(ctx, keyPrefix+fingerprint).Result()
	if errors.Is(err, redis.Nil) || (err == nil && len(fields) == 0) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("lookup failed: %w", err)
	}

	return decodeEntry(fingerprint, fields)
}

// Upsert stores entry under its fingerprint. A positive ttl sets the key expiry.
func (v *VectorIndex) Upsert(ctx context.Context, entry *domain.CacheEntry, ttl time.Duration) error {
	logger := observability.FromContext(ctx)
	key := keyPrefix + entry.Fingerprint

	pipe := v.client.TxPipeline()
	pipe.HSet(ctx, key, encodeEntry(entry))
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("vector index write failed", observability.Error(err))
		return fmt.Errorf("failed to index: %w", err)
	}

	logger.Debug("vector indexed",
		observability.String("key", key),
		observability.Int("embedding_dim", len(entry.Vector)))
	return nil
}

// Search returns up to limit stored vectors whose cosine similarity to embed is at least threshold.
func (v *VectorIndex) Search(
	ctx context.Context,
	embed []float64,
	threshold float64,
	limit int,
) ([]*domain.SearchResult, error) {
	if limit <= 0 {
		return nil, nil
	}

	logger := observability.FromContext(ctx)
	query := fmt.Sprintf("*=>[KNN %d @%s $vec AS score]", limit, fieldEmbedding)

	results, err := v.client.FTSearchWithArgs(ctx, v.indexName, query,
		&redis.FTSearchOptions{
			Return: []redis.FTSearchReturn{
				{FieldName: fieldCreatedAt},
				{FieldName: "score"},
			},
			DialectVersion: redisDialectVersion,
			Params: map[string]any{
				"vec": floatsToBytes(embed),
			},
		},
	).Result()
	if err != nil {
		logger.Error("vector search failed", observability.Error(err))
		return nil, fmt.Errorf("search failed: %w", err)
	}

	logger.Debug("vector search completed",
		observability.Int("total_docs", results.Total),
		observability.Int("docs_returned", len(results.Docs)))

	return parseSearchResults(results, threshold), nil
}

func (v *VectorIndex) createIndex(ctx context.Context) error {
	logger := observability.FromContext(ctx)

	if _, err := v.client.FTInfo(ctx, v.indexName).Result(); err == nil {
		logger.Info("redis search index already exists, skipping creation",
			observability.String("index_name", v.indexName))
		return nil
	}

	logger.Info("creating redis search index",
		observability.String("index_name", v.indexName),
		observability.Int("embedding_dimension", v.embeddingDimension))

	_, err := v.client.FTCreate(ctx, v.indexName,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []any{keyPrefix},
		},
		&redis.FieldSchema{
			FieldName: fieldEmbedding,
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				FlatOptions: &redis.FTFlatOptions{
					Type:           "FLOAT32",
					Dim:            v.embeddingDimension,
					DistanceMetric: "COSINE",
				},
			},
		},
		&redis.FieldSchema{
			FieldName: fieldModel,
			FieldType: redis.SearchFieldTypeTag,
		},
		&redis.FieldSchema{
			FieldName: fieldCreatedAt,
			FieldType: redis.SearchFieldTypeNumeric,
			Sortable:  true,
		},
	).Result()
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

func parseSearchResults(result redis.FTSearchResult, threshold float64) []*domain.SearchResult {
	var results []*domain.SearchResult

	for _, doc := range result.Docs {
		scoreStr, ok := doc.Fields["score"]
		if !ok {
			continue
		}
		distance, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		// COSINE distance is 1 - similarity.
		similarity := 1.0 - distance
		if similarity < threshold {
			continue
		}

		var indexedAt time.Time
		if ms, parseErr := strconv.ParseInt(doc.Fields[fieldCreatedAt], 10, 64); parseErr == nil {
			indexedAt = time.UnixMilli(ms)
		}

		results = append(results, &domain.SearchResult{
			Fingerprint: strings.TrimPrefix(doc.ID, keyPrefix),
			Similarity:  similarity,
			IndexedAt:   indexedAt,
		})
	}

	return results
}
