package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotelconnect/internal/adapters/observability"
	"hotelconnect/internal/app"
	"hotelconnect/internal/domain"
	"hotelconnect/internal/shared"
)

type Handlers struct {
	Q     *app.QueryService
	R     *app.ReservationService
	Audit domain.AuditRepository
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/properties/{id}", h.getProperty)
		r.Get("/availability", h.checkAvailability)
		r.Post("/reservations", h.createReservation)
		r.Put("/reservations/{id}", h.updateReservation)
		r.Post("/webhooks/retell", h.retellWebhook)
	})
}

// ---- error envelope ----

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeError(w http.ResponseWriter, err error, notFoundDetail string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", notFoundDetail)
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// ---- health ----

type healthDeps struct {
	Database           string `json:"database"`
	ExternalBookingAPI string `json:"externalBookingApi"`
}

type healthResponse struct {
	Status       string     `json:"status"`
	Version      string     `json:"version"`
	Uptime       int        `json:"uptime"`
	Dependencies healthDeps `json:"dependencies"`
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	rep := h.Q.Health(r.Context())
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  rep.Status,
		Version: shared.Version,
		Uptime:  0,
		Dependencies: healthDeps{
			Database:           rep.Database,
			ExternalBookingAPI: rep.ExternalBookingAPI,
		},
	})
}

// ---- property lookup ----

type propertyResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	Address      *string  `json:"address"`
	City         *string  `json:"city"`
	Country      *string  `json:"country"`
	ZipCode      *string  `json:"zipCode"`
	ContactEmail *string  `json:"contactEmail"`
	ContactPhone *string  `json:"contactPhone"`
	Facilities   []string `json:"facilities"`
	Images       []string `json:"images"`
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.Q.GetProperty(r.Context(), id)
	if err != nil {
		writeError(w, err, "Property not found")
		return
	}
	writeJSON(w, http.StatusOK, propertyResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Address:      p.Address,
		City:         p.City,
		Country:      p.Country,
		ZipCode:      p.ZipCode,
		ContactEmail: p.ContactEmail,
		ContactPhone: p.ContactPhone,
		Facilities:   p.Facilities,
		Images:       p.Images,
	})
}

// ---- availability check ----

type availableRoom struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	MaxOccupancy int     `json:"maxOccupancy"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	Available    bool    `json:"available"`
}

type availabilityResponse struct {
	PropertyID string          `json:"propertyId"`
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate"`
	Rooms      []availableRoom `json:"rooms"`
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (h *Handlers) checkAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := app.ParseDate(q.Get("start_date"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", "Invalid date format. Use YYYY-MM-DD")
		return
	}
	end, err := app.ParseDate(q.Get("end_date"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", "Invalid date format. Use YYYY-MM-DD")
		return
	}
	adults, err := queryInt(r, "adults", 1)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Input", "adults must be an integer")
		return
	}
	children, err := queryInt(r, "children", 0)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Input", "children must be an integer")
		return
	}

	propertyID := q.Get("property_id")
	rooms, err := h.Q.CheckAvailability(r.Context(), app.AvailabilityQuery{
		PropertyID: propertyID,
		Start:      start,
		End:        end,
		Adults:     adults,
		Children:   children,
	})
	if err != nil {
		writeError(w, err, "Property not found")
		return
	}

	out := make([]availableRoom, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, availableRoom{
			ID:           rm.ID,
			Name:         rm.Name,
			Description:  rm.Description,
			MaxOccupancy: rm.MaxOccupancy,
			Price:        rm.BasePrice,
			Currency:     rm.Currency,
			Available:    true,
		})
	}
	writeJSON(w, http.StatusOK, availabilityResponse{
		PropertyID: propertyID,
		StartDate:  app.FormatDate(start),
		EndDate:    app.FormatDate(end),
		Rooms:      out,
	})
}

// ---- reservations ----

type reservationResponse struct {
	ID         string  `json:"id"`
	PropertyID string  `json:"propertyId"`
	RoomID     string  `json:"roomId"`
	GuestName  string  `json:"guestName"`
	GuestEmail string  `json:"guestEmail"`
	CheckIn    string  `json:"checkIn"`
	CheckOut   string  `json:"checkOut"`
	Adults     int     `json:"adults"`
	Children   int     `json:"children"`
	TotalPrice float64 `json:"totalPrice"`
	Currency   string  `json:"currency"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  *string `json:"updatedAt"`
}

func toReservationResponse(res domain.Reservation) reservationResponse {
	out := reservationResponse{
		ID:         res.ID,
		PropertyID: res.PropertyID,
		RoomID:     res.RoomID,
		GuestName:  res.GuestName,
		GuestEmail: res.GuestEmail,
		CheckIn:    app.FormatDate(res.CheckIn),
		CheckOut:   app.FormatDate(res.CheckOut),
		Adults:     res.Adults,
		Children:   res.Children,
		TotalPrice: res.TotalPrice,
		Currency:   res.Currency,
		Status:     res.Status,
		CreatedAt:  res.CreatedAt.Format(time.RFC3339),
	}
	if res.UpdatedAt != nil {
		s := res.UpdatedAt.Format(time.RFC3339)
		out.UpdatedAt = &s
	}
	return out
}

func (h *Handlers) createReservation(w http.ResponseWriter, r *http.Request) {
	var in app.CreateReservationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", "request body must be valid JSON")
		return
	}
	res, err := h.R.Create(r.Context(), in)
	if err != nil {
		writeError(w, err, "Reservation not found")
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(res))
}

func (h *Handlers) updateReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in app.UpdateReservationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", "request body must be valid JSON")
		return
	}
	res, err := h.R.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err, "Reservation not found")
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(res))
}

// ---- retell webhook ----

type webhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// retellWebhook echoes the payload back. The audit row is inserted before
// any processing and its response fields are back-filled in the same
// transaction; audit failures never change the 200 the caller gets.
func (h *Handlers) retellWebhook(w http.ResponseWriter, r *http.Request) {
	var payload any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", "request body must be valid JSON")
		return
	}

	resp := webhookResponse{Status: "success", Message: "Webhook received", Data: payload}

	tx, err := h.Audit.OpenLog(r.Context(), domain.APILog{
		RequestMethod:  r.Method,
		RequestPath:    fullURL(r),
		RequestHeaders: r.Header,
		RequestBody:    payload,
		Source:         domain.SourceRetell,
	})
	if err != nil {
		observability.ObserveAudit(domain.SourceRetell, err)
		log.Error().Err(err).Msg("webhook audit log open failed")
		writeJSON(w, http.StatusOK, resp)
		return
	}
	defer func() { _ = tx.Abort() }()

	err = tx.Complete(r.Context(), http.StatusOK, resp)
	observability.ObserveAudit(domain.SourceRetell, err)
	if err != nil {
		log.Error().Err(err).Msg("webhook audit log complete failed")
	}
	writeJSON(w, http.StatusOK, resp)
}
