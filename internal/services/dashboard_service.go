package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/repositories"
	"gearguard/pkg/types"
)

const dashboardCacheKey = "gearguard:dashboard:stats"

type DashboardServiceInterface interface {
	GetDashboardStats(ctx context.Context) (*dto.DashboardStatsDTO, error)
}

type DashboardService struct {
	requestRepo repositories.MaintenanceRequestRepositoryInterface
	cache       repositories.CacheRepositoryInterface
	logger      *zap.Logger
	cacheTTL    time.Duration
}

func NewDashboardService(
	requestRepo repositories.MaintenanceRequestRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *DashboardService {
	return &DashboardService{
		requestRepo: requestRepo,
		cache:       cache,
		logger:      logger,
		cacheTTL:    cacheTTL,
	}
}

// GetDashboardStats serves the cached snapshot when warm; otherwise it
// recomputes from the full request collection. Cache failures are logged and
// never fail the read.
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey); err == nil && cached != "" {
			var stats dto.DashboardStatsDTO
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
			s.logger.Warn("discarding unreadable dashboard cache entry")
		}
	}

	// Unbounded filter: the aggregation is over every request.
	requests, _, err := s.requestRepo.GetRequests(ctx, types.Filter{})
	if err != nil {
		return nil, err
	}

	stats := AggregateDashboard(requests)

	if s.cache != nil {
		if encoded, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, encoded, s.cacheTTL); err != nil {
				s.logger.Warn("failed to cache dashboard stats", zap.Error(err))
			}
		}
	}

	return &stats, nil
}
