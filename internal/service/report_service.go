package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/dto"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	reportCacheTTL = 60 * time.Second
	topProductsMax = 10
)

// ReportService is pure read-side aggregation over historical sales.
type ReportService interface {
	Summary(ctx context.Context, period string) (*dto.ReportSummary, error)
}

type reportService struct {
	repo repository.SaleRepository
	rdb  *redis.Client
}

func NewReportService(repo repository.SaleRepository, rdb *redis.Client) ReportService {
	return &reportService{repo: repo, rdb: rdb}
}

func (s *reportService) Summary(ctx context.Context, period string) (*dto.ReportSummary, error) {
	p := repository.ReportPeriod(period)
	switch p {
	case repository.PeriodToday, repository.PeriodWeek, repository.PeriodMonth, repository.PeriodAll:
	default:
		return nil, ErrInvalidPeriod
	}

	cacheKey := "report:summary:" + period
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var summary dto.ReportSummary
			if jsonErr := json.Unmarshal(cached, &summary); jsonErr == nil {
				return &summary, nil
			}
		}
	}

	income, err := s.repo.TotalIncome(ctx, p)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopProducts(ctx, p, topProductsMax)
	if err != nil {
		return nil, err
	}
	if top == nil {
		top = []dto.TopProduct{}
	}

	summary := &dto.ReportSummary{TotalIncome: income, TopProducts: top}

	// Populate cache — best effort, ignore errors
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(summary); jsonErr == nil {
			if err := s.rdb.Set(ctx, cacheKey, b, reportCacheTTL).Err(); err != nil {
				log.Debug().Err(err).Str("key", cacheKey).Msg("report cache set failed")
			}
		}
	}
	return summary, nil
}
