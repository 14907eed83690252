package domain

import "time"

// Documented status values. The column is a free string on purpose: the
// channel-manager contract may introduce more states, so nothing validates
// against this set yet.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Reservation struct {
	ID         string
	PropertyID string
	RoomID     string
	GuestName  string
	GuestEmail string
	CheckIn    time.Time
	CheckOut   time.Time
	Adults     int
	Children   int
	TotalPrice float64
	Currency   string
	Status     string
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// ReservationPatch carries a partial update. Nil fields leave the stored
// value untouched; unknown external keys never reach this type.
type ReservationPatch struct {
	PropertyID *string
	RoomID     *string
	GuestName  *string
	GuestEmail *string
	CheckIn    *time.Time
	CheckOut   *time.Time
	Adults     *int
	Children   *int
	TotalPrice *float64
	Currency   *string
	Status     *string
	Notes      *string
}
