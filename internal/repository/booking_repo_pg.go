package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rsharma91/aircargo/internal/domain"
)

type BookingRepository interface {
	// Create generates the booking reference, inserts the booking row and the
	// CREATED timeline event in one transaction.
	Create(ctx context.Context, booking *domain.Booking, created *domain.TimelineEvent) error
	GetByRefID(ctx context.Context, refID string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	// Transition sets the booking status to `to` only if the current status is
	// one of `allowed`, appending the given timeline event on success. When the
	// condition does not hold (missing booking, wrong state, or a concurrent
	// racer won) it returns domain.ErrInvalidTransition and leaves the store
	// unchanged.
	Transition(ctx context.Context, refID string, allowed []domain.BookingStatus, to domain.BookingStatus, event *domain.TimelineEvent) (*domain.Booking, error)
	DeleteCountersBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, ref_id, user_id, origin, destination, pieces, weight_kg, status, flight_ids, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking, created *domain.TimelineEvent) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	day := now.Truncate(24 * time.Hour)

	// Atomic increment-and-fetch: the row update serializes concurrent
	// creators on the same day key, so no two bookings share a counter value.
	var counter int
	if err := tx.QueryRow(ctx, `INSERT INTO reference_counters (day, counter) VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET counter = reference_counters.counter + 1
		RETURNING counter`, day).Scan(&counter); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrReferenceGeneration, err)
	}

	booking.RefID = fmt.Sprintf("AC-%s-%04d", now.Format("20060102"), counter)
	booking.Status = domain.BookingStatusBooked

	itinerary, err := json.Marshal(booking.FlightIDs)
	if err != nil {
		return err
	}
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (ref_id, user_id, origin, destination, pieces, weight_kg, status, flight_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		booking.RefID, booking.UserID, booking.Origin, booking.Destination, booking.Pieces, booking.WeightKg, booking.Status, itinerary).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	created.BookingID = booking.ID
	if err := insertEvent(ctx, tx, created); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByRefID(ctx context.Context, refID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE ref_id=$1`, refID)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Transition(ctx context.Context, refID string, allowed []domain.BookingStatus, to domain.BookingStatus, event *domain.TimelineEvent) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	from := make([]string, 0, len(allowed))
	for _, s := range allowed {
		from = append(from, string(s))
	}

	row := tx.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE ref_id=$2 AND status = ANY($3)
		RETURNING `+bookingColumns, to, refID, from)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}

	event.BookingID = b.ID
	if err := insertEvent(ctx, tx, event); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) DeleteCountersBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(ctx, `DELETE FROM reference_counters WHERE day < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func insertEvent(ctx context.Context, tx pgx.Tx, event *domain.TimelineEvent) error {
	var flightInfo []byte
	if event.FlightInfo != nil {
		data, err := json.Marshal(event.FlightInfo)
		if err != nil {
			return err
		}
		flightInfo = data
	}
	return tx.QueryRow(ctx, `INSERT INTO timeline_events (booking_id, event_type, location, flight_info, notes)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		event.BookingID, event.EventType, event.Location, flightInfo, event.Notes).
		Scan(&event.ID, &event.CreatedAt)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var itinerary []byte
	if err := row.Scan(&b.ID, &b.RefID, &b.UserID, &b.Origin, &b.Destination, &b.Pieces, &b.WeightKg, &b.Status, &itinerary, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.FlightIDs = decodeFlightIDs(itinerary)
	return &b, nil
}

// decodeFlightIDs tolerates malformed itinerary data: the booking stays
// readable with an empty itinerary instead of failing the whole fetch.
func decodeFlightIDs(data []byte) []int64 {
	if len(data) == 0 {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil
	}
	return ids
}

var _ BookingRepository = (*PGBookingRepository)(nil)
