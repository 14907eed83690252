package domain

import "time"

type Property struct {
	ID           string
	Name         string
	Description  *string
	Address      *string
	City         *string
	Country      *string
	ZipCode      *string
	ContactEmail *string
	ContactPhone *string
	Facilities   []string
	Images       []string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

type Room struct {
	ID           string
	PropertyID   string
	Name         string
	Description  *string
	MaxOccupancy int
	BasePrice    float64
	Currency     string
	Amenities    []string
	Images       []string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// Availability is one room-night: open/closed plus an optional override of
// the room's base price. Unique per (room, date).
type Availability struct {
	ID        int64
	RoomID    string
	Date      time.Time
	Available bool
	Price     *float64
	CreatedAt time.Time
	UpdatedAt *time.Time
}
