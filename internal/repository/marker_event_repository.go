package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"markmycampus/internal/model"
)

type MarkerEventRepository struct {
	db *gorm.DB
}

func NewMarkerEventRepository(db *gorm.DB) *MarkerEventRepository {
	return &MarkerEventRepository{db: db}
}

func (r *MarkerEventRepository) Create(ctx context.Context, event *model.MarkerEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create marker event failed: %w", err)
	}
	return nil
}

func (r *MarkerEventRepository) ListRecent(ctx context.Context, limit int) ([]model.MarkerEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var events []model.MarkerEvent
	if err := r.db.WithContext(ctx).Order("occurred_at DESC, id DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list marker events failed: %w", err)
	}
	return events, nil
}
