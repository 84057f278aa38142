package repository

import (
	"context"
	"time"

	"go-face-inspector/pkg/models"

	"github.com/patrickmn/go-cache"
)

// memoryReportRepository holds results in an expiring in-process cache.
// Nothing is ever written to disk.
type memoryReportRepository struct {
	cache *cache.Cache
}

// NewMemoryReportRepository creates a report store whose entries expire after ttl
func NewMemoryReportRepository(ttl time.Duration) ReportRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &memoryReportRepository{
		cache: cache.New(ttl, ttl*2),
	}
}

func (r *memoryReportRepository) Save(ctx context.Context, result *models.AnalysisResult) error {
	if result == nil || result.ID == "" {
		return ErrInvalidAnalysis
	}
	r.cache.SetDefault(result.ID, result)
	return nil
}

func (r *memoryReportRepository) Get(ctx context.Context, id string) (*models.AnalysisResult, error) {
	value, found := r.cache.Get(id)
	if !found {
		return nil, ErrAnalysisNotFound
	}
	return value.(*models.AnalysisResult), nil
}

func (r *memoryReportRepository) Count() int {
	return r.cache.ItemCount()
}
