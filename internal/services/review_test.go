package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"eventmarket/internal/domain"
)

type fakeReviewRepo struct {
	reviews []*domain.Review
}

func (f *fakeReviewRepo) Create(ctx context.Context, rev *domain.Review) error {
	for _, existing := range f.reviews {
		if existing.ReviewerID == rev.ReviewerID && existing.HostID == rev.HostID {
			return domain.ErrConflict
		}
	}
	if rev.ID == "" {
		rev.ID = "rev-1"
	}
	f.reviews = append(f.reviews, rev)
	return nil
}

func (f *fakeReviewRepo) ListAll(ctx context.Context) ([]*domain.ReviewWithNames, error) {
	out := make([]*domain.ReviewWithNames, 0, len(f.reviews))
	for _, rev := range f.reviews {
		out = append(out, &domain.ReviewWithNames{Review: rev})
	}
	return out, nil
}

func (f *fakeReviewRepo) ListByHostID(ctx context.Context, hostID string) ([]*domain.ReviewWithNames, error) {
	out := make([]*domain.ReviewWithNames, 0)
	for _, rev := range f.reviews {
		if rev.HostID == hostID {
			out = append(out, &domain.ReviewWithNames{Review: rev})
		}
	}
	return out, nil
}

func newReviewFixture() (*memStore, *fakeReviewRepo, domain.ReviewService) {
	store := newMemStore()
	store.addEvent(&domain.Event{ID: "ev-1", HostID: "host-1", Title: "City Hike", Status: domain.EventOpen})
	persons := &fakePersonRepo{
		persons: map[string]*domain.Person{
			"host-1": {ID: "host-1", Email: "host@example.com", Role: domain.RoleHost},
			"att-1":  {ID: "att-1", Email: "att@example.com", Role: domain.RoleUser},
		},
		profiles: map[string]*domain.Profile{},
	}
	reviews := &fakeReviewRepo{}
	svc := NewReviewService(reviews, &fakeParticipantRepo{store: store}, &fakeEventRepo{store: store},
		persons, 2*time.Second)
	return store, reviews, svc
}

func acceptedParticipant(store *memStore, eventID, attendeeID string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	id := store.id("pt")
	store.participants[id] = &domain.Participant{
		ID:         id,
		EventID:    eventID,
		AttendeeID: attendeeID,
		Status:     domain.JoinAccepted,
		Paid:       true,
	}
}

func TestReviewService_CreateReview(t *testing.T) {
	ctx := context.Background()
	attendee := domain.Identity{PersonID: "att-1", Role: domain.RoleUser}

	t.Run("accepted participant can review the host", func(t *testing.T) {
		store, reviews, svc := newReviewFixture()
		acceptedParticipant(store, "ev-1", "att-1")

		rev, err := svc.CreateReview(ctx, attendee, &domain.Review{EventID: "ev-1", Rating: 5, Comment: "great"})
		require.NoError(t, err)
		require.Equal(t, "host-1", rev.HostID)
		require.Equal(t, "att-1", rev.ReviewerID)
		require.Len(t, reviews.reviews, 1)
	})

	t.Run("second review of the same host conflicts", func(t *testing.T) {
		store, _, svc := newReviewFixture()
		acceptedParticipant(store, "ev-1", "att-1")

		_, err := svc.CreateReview(ctx, attendee, &domain.Review{EventID: "ev-1", Rating: 4})
		require.NoError(t, err)
		_, err = svc.CreateReview(ctx, attendee, &domain.Review{EventID: "ev-1", Rating: 2})
		require.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("rating out of range", func(t *testing.T) {
		_, _, svc := newReviewFixture()

		_, err := svc.CreateReview(ctx, attendee, &domain.Review{EventID: "ev-1", Rating: 0})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = svc.CreateReview(ctx, attendee, &domain.Review{EventID: "ev-1", Rating: 6})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("host cannot review themselves", func(t *testing.T) {
		_, _, svc := newReviewFixture()

		_, err := svc.CreateReview(ctx, domain.Identity{PersonID: "host-1", Role: domain.RoleHost},
			&domain.Review{EventID: "ev-1", Rating: 5})
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("requires an accepted participation", func(t *testing.T) {
		_, _, svc := newReviewFixture()

		_, err := svc.CreateReview(ctx, attendee, &domain.Review{EventID: "ev-1", Rating: 5})
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, _, svc := newReviewFixture()

		_, err := svc.CreateReview(ctx, attendee, &domain.Review{EventID: "ghost", Rating: 5})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReviewService_ListHostReviews(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by host", func(t *testing.T) {
		store, _, svc := newReviewFixture()
		acceptedParticipant(store, "ev-1", "att-1")

		_, err := svc.CreateReview(ctx, domain.Identity{PersonID: "att-1", Role: domain.RoleUser},
			&domain.Review{EventID: "ev-1", Rating: 4})
		require.NoError(t, err)

		listed, err := svc.ListHostReviews(ctx, "host-1")
		require.NoError(t, err)
		require.Len(t, listed, 1)
	})

	t.Run("unknown host", func(t *testing.T) {
		_, _, svc := newReviewFixture()

		_, err := svc.ListHostReviews(ctx, "ghost")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
