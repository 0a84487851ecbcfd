package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rsharma91/aircargo/internal/domain"
)

type FlightRepository interface {
	// FindDirect returns flights from origin to destination departing on the
	// given calendar day, earliest first.
	FindDirect(ctx context.Context, origin, destination string, day time.Time) ([]domain.FlightDetails, error)
	// FindDepartures returns flights leaving origin on the given calendar day
	// whose destination is neither origin nor excludeDestination.
	FindDepartures(ctx context.Context, origin, excludeDestination string, day time.Time) ([]domain.FlightDetails, error)
	// FindConnections returns up to limit flights from hub to destination
	// departing within [from, to], earliest first.
	FindConnections(ctx context.Context, hub, destination string, from, to time.Time, limit int) ([]domain.FlightDetails, error)
	GetByID(ctx context.Context, id int64) (*domain.FlightDetails, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.FlightDetails, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `f.id, f.flight_number, f.airline_id, f.origin, f.destination, f.departure_time, f.arrival_time, f.created_at, a.name, a.code`

func (r *PGFlightRepository) FindDirect(ctx context.Context, origin, destination string, day time.Time) ([]domain.FlightDetails, error) {
	start, end := dayBounds(day)
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights f JOIN airlines a ON a.id = f.airline_id
		WHERE f.origin=$1 AND f.destination=$2 AND f.departure_time >= $3 AND f.departure_time < $4
		ORDER BY f.departure_time`, origin, destination, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func (r *PGFlightRepository) FindDepartures(ctx context.Context, origin, excludeDestination string, day time.Time) ([]domain.FlightDetails, error) {
	start, end := dayBounds(day)
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights f JOIN airlines a ON a.id = f.airline_id
		WHERE f.origin=$1 AND f.destination <> $1 AND f.destination <> $2 AND f.departure_time >= $3 AND f.departure_time < $4
		ORDER BY f.departure_time`, origin, excludeDestination, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func (r *PGFlightRepository) FindConnections(ctx context.Context, hub, destination string, from, to time.Time, limit int) ([]domain.FlightDetails, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights f JOIN airlines a ON a.id = f.airline_id
		WHERE f.origin=$1 AND f.destination=$2 AND f.departure_time >= $3 AND f.departure_time <= $4
		ORDER BY f.departure_time LIMIT $5`, hub, destination, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.FlightDetails, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights f JOIN airlines a ON a.id = f.airline_id WHERE f.id=$1`, id)
	var f domain.FlightDetails
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.AirlineID, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime, &f.CreatedAt, &f.AirlineName, &f.AirlineCode); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.FlightDetails, error) {
	if len(ids) == 0 {
		return []domain.FlightDetails{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights f JOIN airlines a ON a.id = f.airline_id
		WHERE f.id = ANY($1) ORDER BY f.departure_time`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func scanFlights(rows pgx.Rows) ([]domain.FlightDetails, error) {
	flights := make([]domain.FlightDetails, 0)
	for rows.Next() {
		var f domain.FlightDetails
		if err := rows.Scan(&f.ID, &f.FlightNumber, &f.AirlineID, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime, &f.CreatedAt, &f.AirlineName, &f.AirlineCode); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

var _ FlightRepository = (*PGFlightRepository)(nil)
