package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"markmycampus/internal/model"
	"markmycampus/internal/repository"
	"markmycampus/internal/testutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.MarkerEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.MarkerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []model.MarkerEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.MarkerEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func ptr(f float64) *float64 { return &f }

type markerFixture struct {
	svc   *MarkerService
	stats *StatsService
	pub   *recordingPublisher
	owner *model.User
}

func newMarkerFixture(t *testing.T) markerFixture {
	t.Helper()
	db := testutil.OpenInMemoryDB(t)
	markers := repository.NewMarkerRepository(db)
	events := repository.NewMarkerEventRepository(db)
	pub := &recordingPublisher{}
	log, _ := test.NewNullLogger()
	return markerFixture{
		svc:   NewMarkerService(markers, pub, log),
		stats: NewStatsService(markers, events),
		pub:   pub,
		owner: testutil.SeedUser(t, db, "owner"),
	}
}

func TestCreateMarker_AppearsInListWithDefaults(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()

	m, err := f.svc.Create(ctx, CreateMarkerInput{OwnerID: f.owner.ID, Latitude: ptr(-33.9), Longitude: ptr(151.2)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Category != model.CategoryGeneral || m.Description != "" {
		t.Fatalf("expected defaults, got %+v", m)
	}

	list, err := f.svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}
	got := list[0]
	if got.ID != m.ID || got.UserID != f.owner.ID || got.Latitude != -33.9 || got.Longitude != 151.2 || got.Category != model.CategoryGeneral {
		t.Fatalf("listed marker %+v does not match created %+v", got, m)
	}
}

func TestCreateMarker_BoundaryAndInvalidCoordinates(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()

	valid := [][2]float64{{90, 180}, {-90, -180}, {0, 0}}
	for _, c := range valid {
		if _, err := f.svc.Create(ctx, CreateMarkerInput{OwnerID: f.owner.ID, Latitude: ptr(c[0]), Longitude: ptr(c[1]), Category: "Food"}); err != nil {
			t.Fatalf("Create(%v): %v", c, err)
		}
	}

	tests := []struct {
		name  string
		input CreateMarkerInput
		want  error
	}{
		{"missing latitude", CreateMarkerInput{OwnerID: f.owner.ID, Longitude: ptr(1)}, ErrMissingCoordinates},
		{"missing longitude", CreateMarkerInput{OwnerID: f.owner.ID, Latitude: ptr(1)}, ErrMissingCoordinates},
		{"latitude too large", CreateMarkerInput{OwnerID: f.owner.ID, Latitude: ptr(90.01), Longitude: ptr(0)}, ErrCoordinatesOutOfRange},
		{"longitude too small", CreateMarkerInput{OwnerID: f.owner.ID, Latitude: ptr(0), Longitude: ptr(-180.5)}, ErrCoordinatesOutOfRange},
		{"no owner", CreateMarkerInput{Latitude: ptr(0), Longitude: ptr(0)}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Create(ctx, tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}

	list, _ := f.svc.ListAll(ctx)
	if len(list) != len(valid) {
		t.Fatalf("invalid input must not persist markers: have %d", len(list))
	}
	for _, m := range list {
		if m.Category != model.CategoryFood {
			t.Fatalf("category not normalized: %+v", m)
		}
	}
}

func TestCountByCategory(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()

	for _, c := range []string{"study", "study", "study", "food", "food"} {
		if _, err := f.svc.Create(ctx, CreateMarkerInput{OwnerID: f.owner.ID, Latitude: ptr(1), Longitude: ptr(2), Category: c}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	counts, err := f.stats.CountByCategory(ctx)
	if err != nil {
		t.Fatalf("CountByCategory: %v", err)
	}
	want := map[model.Category]int64{model.CategoryStudy: 3, model.CategoryFood: 2}
	if len(counts) != len(want) {
		t.Fatalf("counts = %v, want %v", counts, want)
	}
	for k, v := range want {
		if counts[k] != v {
			t.Fatalf("counts[%s] = %d, want %d", k, counts[k], v)
		}
	}
}

func TestStats_EmptyStoreReturnsEmptyList(t *testing.T) {
	f := newMarkerFixture(t)
	stats, err := f.stats.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats == nil || len(stats) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", stats)
	}
}

func TestListings_EmptyStoreReturnEmptySlices(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()

	all, err := f.svc.ListAll(ctx)
	if err != nil || all == nil || len(all) != 0 {
		t.Fatalf("ListAll: %#v err=%v", all, err)
	}
	owned, err := f.svc.ListWithOwners(ctx)
	if err != nil || owned == nil || len(owned) != 0 {
		t.Fatalf("ListWithOwners: %#v err=%v", owned, err)
	}
}

func TestDeleteByID_MissingLeavesStoreUntouched(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()

	m, err := f.svc.Create(ctx, CreateMarkerInput{OwnerID: f.owner.ID, Latitude: ptr(5), Longitude: ptr(5)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	removed, err := f.svc.DeleteByID(ctx, m.ID+1)
	if err != nil || removed {
		t.Fatalf("delete missing: removed=%v err=%v", removed, err)
	}
	if list, _ := f.svc.ListAll(ctx); len(list) != 1 {
		t.Fatalf("store changed after missing delete: %d markers", len(list))
	}

	removed, err = f.svc.DeleteByID(ctx, m.ID)
	if err != nil || !removed {
		t.Fatalf("delete: removed=%v err=%v", removed, err)
	}
}

func TestDeleteAll_ReturnsPriorCount(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := f.svc.Create(ctx, CreateMarkerInput{OwnerID: f.owner.ID, Latitude: ptr(float64(i)), Longitude: ptr(0)}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	before, _ := f.svc.ListAll(ctx)

	deleted, err := f.svc.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if deleted != int64(len(before)) {
		t.Fatalf("deleted = %d, want %d", deleted, len(before))
	}
	if after, _ := f.svc.ListAll(ctx); len(after) != 0 {
		t.Fatalf("expected empty store, have %d", len(after))
	}
}

func TestMarkerEventsPublished(t *testing.T) {
	f := newMarkerFixture(t)
	ctx := context.Background()

	m, _ := f.svc.Create(ctx, CreateMarkerInput{OwnerID: f.owner.ID, Latitude: ptr(1), Longitude: ptr(1)})
	_, _ = f.svc.Create(ctx, CreateMarkerInput{OwnerID: f.owner.ID, Latitude: ptr(2), Longitude: ptr(2)})
	_, _ = f.svc.DeleteByID(ctx, m.ID)
	_, _ = f.svc.DeleteByID(ctx, 9999)
	_, _ = f.svc.DeleteAll(ctx)

	got := f.pub.types()
	want := []model.MarkerEventType{model.MarkerEventCreated, model.MarkerEventCreated, model.MarkerEventDeleted, model.MarkerEventCleared}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
	if f.pub.events[3].Count != 1 {
		t.Fatalf("clear event count = %d, want 1", f.pub.events[3].Count)
	}
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	f := newMarkerFixture(t)
	f.pub.err = errors.New("broker down")

	if _, err := f.svc.Create(context.Background(), CreateMarkerInput{OwnerID: f.owner.ID, Latitude: ptr(1), Longitude: ptr(1)}); err != nil {
		t.Fatalf("Create should succeed despite publish failure: %v", err)
	}
}
