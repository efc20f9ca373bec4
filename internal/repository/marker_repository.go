package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"markmycampus/internal/model"
)

type MarkerRepository struct {
	db *gorm.DB
}

func NewMarkerRepository(db *gorm.DB) *MarkerRepository {
	return &MarkerRepository{db: db}
}

func (r *MarkerRepository) Create(ctx context.Context, marker *model.Marker) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(marker).Error; err != nil {
		return fmt.Errorf("create marker failed: %w", err)
	}
	return nil
}

func (r *MarkerRepository) ListAll(ctx context.Context) ([]model.Marker, error) {
	var markers []model.Marker
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&markers).Error; err != nil {
		return nil, fmt.Errorf("list markers failed: %w", err)
	}
	return markers, nil
}

// ListWithOwners returns every marker with its owner's username, newest first.
func (r *MarkerRepository) ListWithOwners(ctx context.Context) ([]model.AdminMarker, error) {
	var rows []model.AdminMarker
	err := r.db.WithContext(ctx).
		Table("markers").
		Select("markers.id, markers.user_id, users.username, markers.latitude, markers.longitude, " +
			"markers.category, markers.description, markers.created_at").
		Joins("LEFT JOIN users ON users.id = markers.user_id").
		Order("markers.created_at DESC, markers.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list markers with owners failed: %w", err)
	}
	return rows, nil
}

func (r *MarkerRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Marker{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count markers failed: %w", err)
	}
	return total, nil
}

// DeleteByID reports whether a row was actually removed.
func (r *MarkerRepository) DeleteByID(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Marker{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete marker failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *MarkerRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Marker{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete all markers failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *MarkerRepository) CountByCategory(ctx context.Context) ([]model.CategoryCount, error) {
	var rows []model.CategoryCount
	err := r.db.WithContext(ctx).
		Model(&model.Marker{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC, category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count markers by category failed: %w", err)
	}
	return rows, nil
}
