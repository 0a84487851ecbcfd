package routes

import (
	"context"
	"sort"
	"time"

	"github.com/rsharma91/aircargo/internal/domain"
	"github.com/rsharma91/aircargo/internal/repository"
)

const (
	// MinConnectionTime is the smallest layover accepted between legs.
	MinConnectionTime = 2 * time.Hour
	// MaxConnectionTime is the largest layover accepted between legs.
	MaxConnectionTime = 24 * time.Hour

	perHubLimit      = 5
	maxTransitRoutes = 10
)

type TransitRoute struct {
	FirstLeg              domain.FlightDetails
	SecondLeg             domain.FlightDetails
	Hub                   string
	ConnectionTimeMinutes int
	TotalDurationMinutes  int
}

type SearchResult struct {
	DirectFlights []domain.FlightDetails
	TransitRoutes []TransitRoute
}

type RouteUseCase interface {
	FindRoutes(ctx context.Context, origin, destination string, day time.Time) (*SearchResult, error)
	GetFlight(ctx context.Context, id int64) (*domain.FlightDetails, error)
	GetFlightDetails(ctx context.Context, ids []int64) ([]domain.FlightDetails, error)
	ValidateFlightSequence(ctx context.Context, ids []int64) error
}

type Cache interface {
	GetRoutes(ctx context.Context, origin, destination string, day time.Time) (*SearchResult, error)
	SetRoutes(ctx context.Context, origin, destination string, day time.Time, result *SearchResult) error
}

type RouteService struct {
	repo  repository.FlightRepository
	cache Cache
}

func NewRouteService(repo repository.FlightRepository, cache Cache) *RouteService {
	return &RouteService{repo: repo, cache: cache}
}

// FindRoutes returns direct flights for the day plus one-hop transit
// candidates. Transit legs must connect within the 2h-24h window; the second
// leg therefore departs on the same calendar day as the first leg's arrival
// or the day after. Results are capped to the ten fastest combinations.
func (s *RouteService) FindRoutes(ctx context.Context, origin, destination string, day time.Time) (*SearchResult, error) {
	if origin == destination {
		return nil, domain.ErrInvalidRoute
	}

	if s.cache != nil {
		if cached, err := s.cache.GetRoutes(ctx, origin, destination, day); err == nil && cached != nil {
			return cached, nil
		}
	}

	direct, err := s.repo.FindDirect(ctx, origin, destination, day)
	if err != nil {
		return nil, err
	}

	firstLegs, err := s.repo.FindDepartures(ctx, origin, destination, day)
	if err != nil {
		return nil, err
	}

	transit := make([]TransitRoute, 0)
	for _, first := range firstLegs {
		earliest := first.ArrivalTime.Add(MinConnectionTime)
		latest := first.ArrivalTime.Add(MaxConnectionTime)
		connections, err := s.repo.FindConnections(ctx, first.Destination, destination, earliest, latest, perHubLimit)
		if err != nil {
			return nil, err
		}
		for _, second := range connections {
			layover := second.DepartureTime.Sub(first.ArrivalTime)
			if layover < MinConnectionTime || layover > MaxConnectionTime {
				continue
			}
			transit = append(transit, TransitRoute{
				FirstLeg:              first,
				SecondLeg:             second,
				Hub:                   first.Destination,
				ConnectionTimeMinutes: int(layover / time.Minute),
				TotalDurationMinutes:  int(second.ArrivalTime.Sub(first.DepartureTime) / time.Minute),
			})
		}
	}

	sort.Slice(transit, func(i, j int) bool {
		if transit[i].TotalDurationMinutes != transit[j].TotalDurationMinutes {
			return transit[i].TotalDurationMinutes < transit[j].TotalDurationMinutes
		}
		return transit[i].FirstLeg.DepartureTime.Before(transit[j].FirstLeg.DepartureTime)
	})
	if len(transit) > maxTransitRoutes {
		transit = transit[:maxTransitRoutes]
	}

	result := &SearchResult{DirectFlights: direct, TransitRoutes: transit}
	if s.cache != nil {
		_ = s.cache.SetRoutes(ctx, origin, destination, day, result)
	}
	return result, nil
}

func (s *RouteService) GetFlight(ctx context.Context, id int64) (*domain.FlightDetails, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RouteService) GetFlightDetails(ctx context.Context, ids []int64) ([]domain.FlightDetails, error) {
	if len(ids) == 0 {
		return []domain.FlightDetails{}, nil
	}
	return s.repo.GetByIDs(ctx, ids)
}

// ValidateFlightSequence checks that the given flights form a usable
// itinerary: every id resolves, consecutive legs share an airport, and each
// layover falls inside the connection window. Pure validation, no writes.
func (s *RouteService) ValidateFlightSequence(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return domain.ErrInvalidSequence
	}

	flights, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	// Fewer rows than ids means a duplicate or unknown id in the request.
	if len(flights) != len(ids) {
		return domain.ErrInvalidSequence
	}

	resolved := make(map[int64]bool, len(flights))
	for _, f := range flights {
		resolved[f.ID] = true
	}
	for _, id := range ids {
		if !resolved[id] {
			return domain.ErrInvalidSequence
		}
	}

	sort.Slice(flights, func(i, j int) bool {
		return flights[i].DepartureTime.Before(flights[j].DepartureTime)
	})

	for i := 0; i < len(flights)-1; i++ {
		leg, next := flights[i], flights[i+1]
		if leg.Destination != next.Origin {
			return domain.ErrRouteBreak
		}
		layover := next.DepartureTime.Sub(leg.ArrivalTime)
		if layover < MinConnectionTime {
			return domain.ErrInsufficientConnection
		}
		if layover > MaxConnectionTime {
			return domain.ErrConnectionTooLong
		}
	}
	return nil
}

var _ RouteUseCase = (*RouteService)(nil)
