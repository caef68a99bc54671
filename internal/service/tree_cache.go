package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"coursecraft/internal/cache"
	"coursecraft/internal/domain"
	"coursecraft/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TreeInvalidator drops the cached course tree snapshot after a mutation.
// Every engine (ordering, duplication, deletion, CRUD) calls it; the cache is
// never authoritative.
type TreeInvalidator interface {
	InvalidateCourseTree(ctx context.Context, courseID string)
}

// NoopTreeInvalidator satisfies TreeInvalidator without a cache backend.
type NoopTreeInvalidator struct{}

func (NoopTreeInvalidator) InvalidateCourseTree(ctx context.Context, courseID string) {}

// TreeCacheService caches serialized course trees. Concurrent builds of the
// same course are collapsed through singleflight so one request does the
// database work and the rest share the result.
type TreeCacheService struct {
	cache domain.Cache
	ttl   time.Duration
	group singleflight.Group
}

// NewTreeCacheService creates a new tree cache service.
func NewTreeCacheService(cacheAdapter domain.Cache, ttl time.Duration) *TreeCacheService {
	return &TreeCacheService{cache: cacheAdapter, ttl: ttl}
}

func treeKey(courseID string) string {
	return cache.GenerateCacheKey("tree", "course", courseID)
}

// GetOrBuild returns the cached tree for courseID, or builds and caches it.
// Cache errors degrade to a direct build; they never fail the read.
func (s *TreeCacheService) GetOrBuild(ctx context.Context, courseID string, build func(ctx context.Context) (*domain.CourseTree, error)) (*domain.CourseTree, error) {
	key := treeKey(courseID)

	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		var tree domain.CourseTree
		if unmarshalErr := json.Unmarshal([]byte(cached), &tree); unmarshalErr == nil {
			return &tree, nil
		}
		// A corrupt entry is dropped and rebuilt.
		_ = s.cache.Delete(ctx, key)
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("tree cache read failed", zap.String("course_id", courseID), zap.Error(err))
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		tree, err := build(ctx)
		if err != nil {
			return nil, err
		}
		if payload, marshalErr := json.Marshal(tree); marshalErr == nil {
			if setErr := s.cache.Set(ctx, key, string(payload), s.ttl); setErr != nil {
				logger.Get().Warn("tree cache write failed", zap.String("course_id", courseID), zap.Error(setErr))
			}
		}
		return tree, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.CourseTree), nil
}

// InvalidateCourseTree implements TreeInvalidator.
func (s *TreeCacheService) InvalidateCourseTree(ctx context.Context, courseID string) {
	if err := s.cache.Delete(ctx, treeKey(courseID)); err != nil {
		logger.Get().Warn("tree cache invalidation failed",
			zap.String("course_id", courseID),
			zap.Error(err),
		)
	}
}
