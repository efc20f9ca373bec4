package app

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"markmycampus/internal/model"
	"markmycampus/internal/repository"
)

type MarkerEventPublisher interface {
	Publish(ctx context.Context, event model.MarkerEvent) error
}

type MarkerService struct {
	markerRepo *repository.MarkerRepository
	publisher  MarkerEventPublisher
	log        logrus.FieldLogger
	now        func() time.Time
}

type CreateMarkerInput struct {
	OwnerID     uint
	Latitude    *float64
	Longitude   *float64
	Category    string
	Description string
}

// NewMarkerService accepts a nil publisher; events are then not recorded.
func NewMarkerService(markerRepo *repository.MarkerRepository, publisher MarkerEventPublisher, log logrus.FieldLogger) *MarkerService {
	return &MarkerService{
		markerRepo: markerRepo,
		publisher:  publisher,
		log:        log,
		now:        time.Now,
	}
}

func (s *MarkerService) Create(ctx context.Context, input CreateMarkerInput) (*model.Marker, error) {
	if input.OwnerID == 0 {
		return nil, ErrInvalidInput
	}
	if input.Latitude == nil || input.Longitude == nil {
		return nil, ErrMissingCoordinates
	}
	lat, lng := *input.Latitude, *input.Longitude
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return nil, ErrMissingCoordinates
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, ErrCoordinatesOutOfRange
	}

	marker := &model.Marker{
		UserID:      input.OwnerID,
		Latitude:    lat,
		Longitude:   lng,
		Category:    model.ParseCategory(input.Category),
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.markerRepo.Create(ctx, marker); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"marker_id": marker.ID,
		"user_id":   marker.UserID,
		"category":  marker.Category,
	}).Info("marker created")
	s.publish(ctx, model.MarkerEvent{
		Type:     model.MarkerEventCreated,
		MarkerID: &marker.ID,
		UserID:   &marker.UserID,
		Category: marker.Category,
		Count:    1,
	})
	return marker, nil
}

func (s *MarkerService) ListAll(ctx context.Context) ([]model.Marker, error) {
	markers, err := s.markerRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if markers == nil {
		markers = []model.Marker{}
	}
	return markers, nil
}

func (s *MarkerService) ListWithOwners(ctx context.Context) ([]model.AdminMarker, error) {
	markers, err := s.markerRepo.ListWithOwners(ctx)
	if err != nil {
		return nil, err
	}
	if markers == nil {
		markers = []model.AdminMarker{}
	}
	return markers, nil
}

func (s *MarkerService) DeleteByID(ctx context.Context, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	removed, err := s.markerRepo.DeleteByID(ctx, id)
	if err != nil || !removed {
		return false, err
	}

	s.log.WithField("marker_id", id).Info("marker deleted")
	s.publish(ctx, model.MarkerEvent{
		Type:     model.MarkerEventDeleted,
		MarkerID: &id,
		Count:    1,
	})
	return true, nil
}

func (s *MarkerService) DeleteAll(ctx context.Context) (int64, error) {
	deleted, err := s.markerRepo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	s.log.WithField("deleted_count", deleted).Warn("all markers cleared")
	s.publish(ctx, model.MarkerEvent{
		Type:  model.MarkerEventCleared,
		Count: deleted,
	})
	return deleted, nil
}

// publish never fails the calling operation.
func (s *MarkerService) publish(ctx context.Context, event model.MarkerEvent) {
	if s.publisher == nil {
		return
	}
	event.OccurredAt = s.now()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.WithFields(logrus.Fields{
			"event": event.Type,
			"error": err.Error(),
		}).Error("publish marker event failed")
	}
}
