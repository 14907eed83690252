package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotelconnect/internal/domain"
)

// SyncService pulls nightly rates/inventory from the channel manager into
// the availabilities table. The /api surface does not read those rows yet;
// the syncer keeps them current for when the availability gate lands.
type SyncService struct {
	channel domain.ChannelClient
	props   domain.PropertyRepository
	horizon int // days of rates to pull per run
}

func NewSyncService(c domain.ChannelClient, p domain.PropertyRepository, horizonDays int) *SyncService {
	if horizonDays <= 0 {
		horizonDays = 90
	}
	return &SyncService{channel: c, props: p, horizon: horizonDays}
}

// SyncProperty refreshes availability for every room of one property.
// Rooms the channel manager doesn't know are skipped; other errors abort.
func (s *SyncService) SyncProperty(ctx context.Context, propertyID string) error {
	rooms, err := s.props.ListRooms(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("list rooms for %s: %w", propertyID, err)
	}

	from := time.Now().UTC().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, s.horizon)

	for _, room := range rooms {
		rates, err := s.channel.GetRoomRates(ctx, propertyID, room.ID, from, to)
		if err != nil {
			low := strings.ToLower(err.Error())
			if errors.Is(err, domain.ErrNotFound) || strings.Contains(low, "not found") {
				log.Warn().Str("property", propertyID).Str("room", room.ID).Msg("room unknown to channel manager, skipping")
				continue
			}
			return fmt.Errorf("rates for room %s: %w", room.ID, err)
		}
		if len(rates) == 0 {
			continue
		}

		rows := make([]domain.Availability, 0, len(rates))
		for _, rt := range rates {
			rows = append(rows, domain.Availability{
				RoomID:    room.ID,
				Date:      rt.Date,
				Available: rt.Available,
				Price:     rt.Price,
			})
		}
		if err := s.props.UpsertAvailability(ctx, rows); err != nil {
			return fmt.Errorf("upsert availability for room %s: %w", room.ID, err)
		}
	}
	return nil
}
