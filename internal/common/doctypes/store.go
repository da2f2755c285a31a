// Package doctypes serves the registered document types reference list.
package doctypes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "onboarding-workers/internal/common/errors"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/models"
)

const (
	cacheKey  = "onboarding:document-types:registered"
	listQuery = `SELECT code, label FROM registered_document_types WHERE active = TRUE ORDER BY position, code`

	defaultQueryTimeout = 10 * time.Second
)

// Store reads the list from Postgres and keeps a copy in Redis. A nil cache disables caching.
type Store struct {
	db           *sql.DB
	cache        *redis.Client
	ttl          time.Duration
	queryTimeout time.Duration
	logger       logger.Logger
}

type Option func(*Store)

// WithQueryTimeout bounds each database query. Non-positive values keep the default.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.queryTimeout = d
		}
	}
}

func NewStore(db *sql.DB, cache *redis.Client, ttl time.Duration, log logger.Logger, opts ...Option) *Store {
	s := &Store{db: db, cache: cache, ttl: ttl, queryTimeout: defaultQueryTimeout, logger: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListRegisteredDocumentTypes returns the list in its configured order.
func (s *Store) ListRegisteredDocumentTypes(ctx context.Context) ([]models.DocumentType, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	types, err := s.query(ctx)
	if err != nil {
		return nil, apperrors.NewDocumentTypesUnavailableError(err)
	}

	s.store(ctx, types)
	return types, nil
}

// Invalidate drops the cached copy so the next read hits the database.
func (s *Store) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, cacheKey).Err()
}

func (s *Store) fromCache(ctx context.Context) ([]models.DocumentType, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, cacheKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("document types cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}

	var types []models.DocumentType
	if err := json.Unmarshal([]byte(raw), &types); err != nil {
		s.logger.Warn("discarding corrupt document types cache entry", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	return types, true
}

func (s *Store) store(ctx context.Context, types []models.DocumentType) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(types)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, string(data), s.ttl).Err(); err != nil {
		s.logger.Warn("document types cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Store) query(ctx context.Context) ([]models.DocumentType, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("query document types: %w", err)
	}
	defer rows.Close()

	var types []models.DocumentType
	for rows.Next() {
		var dt models.DocumentType
		if err := rows.Scan(&dt.Code, &dt.Label); err != nil {
			return nil, fmt.Errorf("scan document type: %w", err)
		}
		types = append(types, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document types: %w", err)
	}
	return types, nil
}
