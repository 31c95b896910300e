package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/lysyi3m/foaf-comb/app/database"
)

// SQLStore persists entries through the cache repository. Payloads are
// zstd-compressed at rest.
type SQLStore struct {
	repo    database.CacheRepository
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	now     func() time.Time
}

func NewSQLStore(repo database.CacheRepository) (*SQLStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &SQLStore{
		repo:    repo,
		encoder: encoder,
		decoder: decoder,
		now:     time.Now,
	}, nil
}

func (s *SQLStore) Get(ctx context.Context, namespace, key string, maxAge time.Duration) ([]byte, bool, error) {
	entry, err := s.repo.GetEntry(ctx, namespace, key)
	if err != nil {
		return nil, false, err
	}
	if entry == nil || !fresh(entry.StoredAt, s.now(), maxAge) {
		return nil, false, nil
	}

	payload, err := s.decoder.DecodeAll(entry.Payload, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decompress cache entry: %w", err)
	}

	return payload, true, nil
}

func (s *SQLStore) Put(ctx context.Context, namespace, key string, payload []byte) error {
	return s.repo.UpsertEntry(ctx, database.CacheEntry{
		Namespace: namespace,
		Key:       key,
		Payload:   s.encoder.EncodeAll(payload, nil),
		StoredAt:  s.now(),
	})
}

func (s *SQLStore) Close() {
	s.encoder.Close()
	s.decoder.Close()
}
