package domain

import (
	"context"
	"time"
)

type PropertyRepository interface {
	// Write paths (syncer + ops seeding)
	UpsertProperty(ctx context.Context, p Property) error
	UpsertRoom(ctx context.Context, r Room) error
	UpsertAvailability(ctx context.Context, rows []Availability) error
	DeleteProperty(ctx context.Context, id string) error

	// Read paths
	GetProperty(ctx context.Context, id string) (Property, error)
	ListRooms(ctx context.Context, propertyID string) ([]Room, error)
	ListPropertyIDs(ctx context.Context) ([]string, error)
}

type ReservationRepository interface {
	CreateReservation(ctx context.Context, res Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	UpdateReservation(ctx context.Context, id string, p ReservationPatch) (Reservation, error)
}

// AuditRepository persists APILog rows. InsertLog is the one-shot path used
// by the middleware. OpenLog starts a transaction holding the freshly
// inserted row so the webhook flow can back-fill the response before commit.
type AuditRepository interface {
	InsertLog(ctx context.Context, l APILog) (int64, error)
	OpenLog(ctx context.Context, l APILog) (OpenLogTx, error)
}

type OpenLogTx interface {
	// Complete back-fills response status/body on the open row and commits.
	Complete(ctx context.Context, status int, body any) error
	// Abort rolls back; safe to call after Complete.
	Abort() error
}

// Pinger is the store connectivity probe used by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ChannelClient is the outbound port to the channel manager (YieldPlanet).
type ChannelClient interface {
	// GetRoomRates returns one entry per night in [from, to).
	GetRoomRates(ctx context.Context, propertyID, roomID string, from, to time.Time) ([]RoomRate, error)
}

// RoomRate is one nightly rate/inventory entry from the channel manager.
type RoomRate struct {
	Date      time.Time
	Available bool
	Price     *float64
}
