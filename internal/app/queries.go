package app

import (
	"context"
	"fmt"
	"time"

	"hotelconnect/internal/domain"
)

type QueryService struct {
	props    domain.PropertyRepository
	pinger   domain.Pinger
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(props domain.PropertyRepository, pinger domain.Pinger, cache domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{props: props, pinger: pinger, cache: cache, cacheTTL: ttl}
}

func (s *QueryService) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	key := fmt.Sprintf("property:%s", id)
	var p domain.Property
	if ok, _ := s.cache.Get(ctx, key, &p); ok {
		return p, nil
	}
	p, err := s.props.GetProperty(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}
	_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
	return p, nil
}

type AvailabilityQuery struct {
	PropertyID string
	Start, End time.Time
	Adults     int
	Children   int
}

// CheckAvailability filters the property's rooms by occupancy capacity and
// reports each fit as available at its base price. Nightly Availability rows
// and reservation overlap are not consulted yet; the syncer keeps them fresh
// for when the real gate lands.
func (s *QueryService) CheckAvailability(ctx context.Context, q AvailabilityQuery) ([]domain.Room, error) {
	if _, err := s.props.GetProperty(ctx, q.PropertyID); err != nil {
		return nil, err
	}
	rooms, err := s.props.ListRooms(ctx, q.PropertyID)
	if err != nil {
		return nil, err
	}
	guests := q.Adults + q.Children
	out := make([]domain.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.MaxOccupancy < guests {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type HealthReport struct {
	Status             string
	Database           string
	ExternalBookingAPI string
}

// Health probes the store and aggregates dependency statuses:
// down if any dependency is down, degraded if any is degraded, else ok.
func (s *QueryService) Health(ctx context.Context) HealthReport {
	dbStatus := "ok"
	if err := s.pinger.Ping(ctx); err != nil {
		dbStatus = "down"
	}

	// Placeholder until the channel-manager health probe is wired.
	extStatus := "ok"

	overall := "ok"
	switch {
	case dbStatus == "down" || extStatus == "down":
		overall = "down"
	case dbStatus == "degraded" || extStatus == "degraded":
		overall = "degraded"
	}
	return HealthReport{Status: overall, Database: dbStatus, ExternalBookingAPI: extStatus}
}
