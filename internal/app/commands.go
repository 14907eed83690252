package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hotelconnect/internal/domain"
)

type ReservationService struct {
	res domain.ReservationRepository
}

func NewReservationService(r domain.ReservationRepository) *ReservationService {
	return &ReservationService{res: r}
}

// CreateReservationInput uses the external camelCase field names; optional
// fields are pointers so absent and zero stay distinguishable.
type CreateReservationInput struct {
	PropertyID string   `json:"propertyId"`
	RoomID     string   `json:"roomId"`
	GuestName  string   `json:"guestName"`
	GuestEmail string   `json:"guestEmail"`
	CheckIn    string   `json:"checkIn"`
	CheckOut   string   `json:"checkOut"`
	Adults     *int     `json:"adults"`
	Children   *int     `json:"children"`
	TotalPrice *float64 `json:"totalPrice"`
	Currency   *string  `json:"currency"`
	Notes      *string  `json:"notes"`
}

func (in CreateReservationInput) missing() []string {
	var m []string
	req := []struct {
		name string
		ok   bool
	}{
		{"propertyId", in.PropertyID != ""},
		{"roomId", in.RoomID != ""},
		{"guestName", in.GuestName != ""},
		{"guestEmail", in.GuestEmail != ""},
		{"checkIn", in.CheckIn != ""},
		{"checkOut", in.CheckOut != ""},
		{"totalPrice", in.TotalPrice != nil},
	}
	for _, f := range req {
		if !f.ok {
			m = append(m, f.name)
		}
	}
	return m
}

// Create persists a new reservation with a fresh id and the documented
// defaults. No existence check against Property/Room and no overlap check.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (domain.Reservation, error) {
	if m := in.missing(); len(m) > 0 {
		return domain.Reservation{}, fmt.Errorf("%w: missing required fields: %s", domain.ErrInvalidInput, strings.Join(m, ", "))
	}
	checkIn, err := ParseDate(in.CheckIn)
	if err != nil {
		return domain.Reservation{}, err
	}
	checkOut, err := ParseDate(in.CheckOut)
	if err != nil {
		return domain.Reservation{}, err
	}

	res := domain.Reservation{
		ID:         uuid.NewString(),
		PropertyID: in.PropertyID,
		RoomID:     in.RoomID,
		GuestName:  in.GuestName,
		GuestEmail: in.GuestEmail,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Adults:     1,
		Children:   0,
		TotalPrice: *in.TotalPrice,
		Currency:   "USD",
		Status:     domain.StatusPending,
		Notes:      in.Notes,
	}
	if in.Adults != nil {
		res.Adults = *in.Adults
	}
	if in.Children != nil {
		res.Children = *in.Children
	}
	if in.Currency != nil && *in.Currency != "" {
		res.Currency = *in.Currency
	}

	if err := s.res.CreateReservation(ctx, res); err != nil {
		return domain.Reservation{}, err
	}
	// re-read so the caller sees store-assigned timestamps
	return s.res.GetReservation(ctx, res.ID)
}

// UpdateReservationInput is the partial-update schema. Unknown JSON keys are
// dropped by decoding; nil fields leave the stored value alone.
type UpdateReservationInput struct {
	PropertyID *string  `json:"propertyId"`
	RoomID     *string  `json:"roomId"`
	GuestName  *string  `json:"guestName"`
	GuestEmail *string  `json:"guestEmail"`
	CheckIn    *string  `json:"checkIn"`
	CheckOut   *string  `json:"checkOut"`
	Adults     *int     `json:"adults"`
	Children   *int     `json:"children"`
	TotalPrice *float64 `json:"totalPrice"`
	Currency   *string  `json:"currency"`
	Status     *string  `json:"status"`
	Notes      *string  `json:"notes"`
}

func (s *ReservationService) Update(ctx context.Context, id string, in UpdateReservationInput) (domain.Reservation, error) {
	patch := domain.ReservationPatch{
		PropertyID: in.PropertyID,
		RoomID:     in.RoomID,
		GuestName:  in.GuestName,
		GuestEmail: in.GuestEmail,
		Adults:     in.Adults,
		Children:   in.Children,
		TotalPrice: in.TotalPrice,
		Currency:   in.Currency,
		Status:     in.Status,
		Notes:      in.Notes,
	}
	if in.CheckIn != nil && *in.CheckIn != "" {
		t, err := ParseDate(*in.CheckIn)
		if err != nil {
			return domain.Reservation{}, fmt.Errorf("%w: invalid date format for checkIn, use YYYY-MM-DD", domain.ErrInvalidInput)
		}
		patch.CheckIn = &t
	}
	if in.CheckOut != nil && *in.CheckOut != "" {
		t, err := ParseDate(*in.CheckOut)
		if err != nil {
			return domain.Reservation{}, fmt.Errorf("%w: invalid date format for checkOut, use YYYY-MM-DD", domain.ErrInvalidInput)
		}
		patch.CheckOut = &t
	}
	return s.res.UpdateReservation(ctx, id, patch)
}
