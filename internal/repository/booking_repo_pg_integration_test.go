package repository

import (
	"context"
	"errors"
	"os"
	"regexp"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rsharma91/aircargo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests need a migrated database; set TEST_DATABASE_DSN to run them.
func integrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func integrationUser(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()
	ctx := context.Background()
	var userID int64
	err := pool.QueryRow(ctx, `INSERT INTO users (email, password_hash, full_name)
		VALUES ($1, 'x', 'Integration User') RETURNING id`, uuid.NewString()+"@test.local").Scan(&userID)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM bookings WHERE user_id=$1`, userID)
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, userID)
	})
	return userID
}

func TestBookingRepository_ConcurrentCreates_DistinctReferences(t *testing.T) {
	pool := integrationPool(t)
	userID := integrationUser(t, pool)
	repo := NewBookingRepository(pool)

	const creators = 20
	refPattern := regexp.MustCompile(`^AC-\d{8}-\d{4}$`)

	var mu sync.Mutex
	refs := make(map[string]bool, creators)

	var wg sync.WaitGroup
	for i := 0; i < creators; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := &domain.Booking{
				UserID:      userID,
				Origin:      "DEL",
				Destination: "BLR",
				Pieces:      1,
				WeightKg:    10,
				FlightIDs:   []int64{1},
			}
			event := &domain.TimelineEvent{EventType: domain.EventTypeCreated, Location: "DEL"}
			if err := repo.Create(context.Background(), b, event); err != nil {
				t.Errorf("create: %v", err)
				return
			}
			mu.Lock()
			refs[b.RefID] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Every creation got its own counter value.
	assert.Len(t, refs, creators)
	for ref := range refs {
		assert.Regexp(t, refPattern, ref)
	}
}

func TestBookingRepository_ConcurrentDeparts_SingleWinner(t *testing.T) {
	pool := integrationPool(t)
	userID := integrationUser(t, pool)
	repo := NewBookingRepository(pool)

	ctx := context.Background()
	b := &domain.Booking{
		UserID:      userID,
		Origin:      "DEL",
		Destination: "BLR",
		Pieces:      1,
		WeightKg:    10,
		FlightIDs:   []int64{1},
	}
	require.NoError(t, repo.Create(ctx, b, &domain.TimelineEvent{EventType: domain.EventTypeCreated, Location: "DEL"}))

	const racers = 10
	var wins, losses int64
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			event := &domain.TimelineEvent{EventType: domain.EventTypeDeparted, Location: "DEL"}
			_, err := repo.Transition(context.Background(), b.RefID,
				[]domain.BookingStatus{domain.BookingStatusBooked},
				domain.BookingStatusDeparted, event)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, domain.ErrInvalidTransition):
				losses++
			default:
				t.Errorf("transition: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins)
	assert.Equal(t, int64(racers-1), losses)

	updated, err := repo.GetByRefID(ctx, b.RefID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusDeparted, updated.Status)

	// Exactly one DEPARTED event made it into the timeline.
	var departedEvents int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM timeline_events
		WHERE booking_id=$1 AND event_type=$2`, updated.ID, domain.EventTypeDeparted).Scan(&departedEvents))
	assert.Equal(t, 1, departedEvents)
}
