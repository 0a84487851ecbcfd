package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rsharma91/aircargo/internal/domain"
)

type TimelineRepository interface {
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.TimelineEvent, error)
}

type PGTimelineRepository struct {
	db *pgxpool.Pool
}

func NewTimelineRepository(db *pgxpool.Pool) TimelineRepository {
	return &PGTimelineRepository{db: db}
}

func (r *PGTimelineRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.TimelineEvent, error) {
	rows, err := r.db.Query(ctx, `SELECT id, booking_id, event_type, location, flight_info, notes, created_at
		FROM timeline_events WHERE booking_id=$1 ORDER BY created_at`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.TimelineEvent, 0)
	for rows.Next() {
		var e domain.TimelineEvent
		var flightInfo []byte
		if err := rows.Scan(&e.ID, &e.BookingID, &e.EventType, &e.Location, &flightInfo, &e.Notes, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(flightInfo) > 0 {
			_ = json.Unmarshal(flightInfo, &e.FlightInfo)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

var _ TimelineRepository = (*PGTimelineRepository)(nil)
