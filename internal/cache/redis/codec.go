package redis

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/davidbz/quill/internal/domain"
)

const (
	fieldEmbedding = "embedding"
	fieldVector    = "vector"
	fieldDimension = "dimension"
	fieldModel     = "model"
	fieldCreatedAt = "created_at"
	fieldExpiresAt = "expires_at"
)

// floatsToBytes packs a vector as little-endian float32, the layout RediSearch KNN expects.
func floatsToBytes(fs []float64) []byte {
	const bytesPerFloat32 = 4
	buf := make([]byte, len(fs)*bytesPerFloat32)

	for i, f := range fs {
		u := math.Float32bits(float32(f))
		binary.LittleEndian.PutUint32(buf[i*bytesPerFloat32:], u)
	}

	return buf
}

// encodeEntry returns the hash fields for entry. The float32 field feeds the
// search index; the float64 field is what lookups return.
func encodeEntry(entry *domain.CacheEntry) map[string]any {
	fields := map[string]any{
		fieldEmbedding: floatsToBytes(entry.Vector),
		fieldVector:    domain.EncodeVector(entry.Vector),
		fieldDimension: entry.Dimension,
		fieldModel:     entry.Model,
		fieldCreatedAt: entry.CreatedAt.UnixMilli(),
	}
	if entry.ExpiresAt != nil {
		fields[fieldExpiresAt] = entry.ExpiresAt.UnixMilli()
	}
	return fields
}

// decodeEntry rebuilds an entry from the hash returned by HGETALL.
func decodeEntry(fingerprint string, fields map[string]string) (*domain.CacheEntry, error) {
	raw, ok := fields[fieldVector]
	if !ok {
		return nil, fmt.Errorf("entry %s has no vector field", fingerprint)
	}

	vector, err := domain.DecodeVector([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("decode vector: %w", err)
	}

	dimension, err := strconv.Atoi(fields[fieldDimension])
	if err != nil {
		return nil, fmt.Errorf("decode dimension: %w", err)
	}

	entry := &domain.CacheEntry{
		Fingerprint: fingerprint,
		Model:       fields[fieldModel],
		Vector:      vector,
		Dimension:   dimension,
		SourceTier:  domain.TierIndex,
		CreatedAt:   time.Time{},
		ExpiresAt:   nil,
	}

	if ms, parseErr := strconv.ParseInt(fields[fieldCreatedAt], 10, 64); parseErr == nil {
		entry.CreatedAt = time.UnixMilli(ms)
	}
	if rawExpires, present := fields[fieldExpiresAt]; present {
		ms, parseErr := strconv.ParseInt(rawExpires, 10, 64)
		if parseErr != nil {
			return nil, fmt.Errorf("decode expiry: %w", parseErr)
		}
		expires := time.UnixMilli(ms)
		entry.ExpiresAt = &expires
	}

	return entry, nil
}
