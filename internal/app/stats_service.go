package app

import (
	"context"

	"markmycampus/internal/model"
	"markmycampus/internal/repository"
)

type StatsService struct {
	markerRepo *repository.MarkerRepository
	eventRepo  *repository.MarkerEventRepository
}

func NewStatsService(markerRepo *repository.MarkerRepository, eventRepo *repository.MarkerEventRepository) *StatsService {
	return &StatsService{
		markerRepo: markerRepo,
		eventRepo:  eventRepo,
	}
}

// CountByCategory omits categories that currently have no markers.
func (s *StatsService) CountByCategory(ctx context.Context) (map[model.Category]int64, error) {
	rows, err := s.markerRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[model.Category]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

// Stats is CountByCategory as a list ordered by count, then category.
func (s *StatsService) Stats(ctx context.Context) ([]model.CategoryCount, error) {
	rows, err := s.markerRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.CategoryCount{}
	}
	return rows, nil
}

func (s *StatsService) RecentActivity(ctx context.Context, limit int) ([]model.MarkerEvent, error) {
	events, err := s.eventRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.MarkerEvent{}
	}
	return events, nil
}
