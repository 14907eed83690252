package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"hotelconnect/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// jsonText marshals a string list for a JSON column; nil becomes "[]".
func jsonText(ss []string) string {
	if ss == nil {
		ss = []string{}
	}
	b, _ := json.Marshal(ss)
	return string(b)
}

// jsonVal marshals a decoded body for a JSON column; nil stays NULL.
func jsonVal(v any) any {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return string(b)
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

// ---- properties / rooms / availability ----

func (r *Repo) UpsertProperty(ctx context.Context, p domain.Property) error {
	_, err := r.db.ExecContext(ctx, upsertPropertySQL,
		p.ID,
		p.Name,
		valStr(p.Description),
		valStr(p.Address),
		valStr(p.City),
		valStr(p.Country),
		valStr(p.ZipCode),
		valStr(p.ContactEmail),
		valStr(p.ContactPhone),
		jsonText(p.Facilities),
		jsonText(p.Images),
	)
	return err
}

func (r *Repo) UpsertRoom(ctx context.Context, rm domain.Room) error {
	_, err := r.db.ExecContext(ctx, upsertRoomSQL,
		rm.ID,
		rm.PropertyID,
		rm.Name,
		valStr(rm.Description),
		rm.MaxOccupancy,
		rm.BasePrice,
		rm.Currency,
		jsonText(rm.Amenities),
		jsonText(rm.Images),
	)
	return err
}

func (r *Repo) UpsertAvailability(ctx context.Context, rows []domain.Availability) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*4)
	for _, a := range rows {
		values = append(values, "(?,?,?,?)")
		args = append(args,
			a.RoomID,
			a.Date.Format("2006-01-02"),
			a.Available,
			valF64(a.Price),
		)
	}
	sqlStr := insertAvailabilityPrefix + strings.Join(values, ",") + insertAvailabilityOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) DeleteProperty(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deletePropertySQL, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	row := r.db.QueryRowContext(ctx, getPropertySQL, id)

	var p domain.Property
	var desc, addr, city, country, zip, email, phone sql.NullString
	var facilitiesJSON, imagesJSON []byte
	var updatedAt sql.NullTime

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&desc, &addr, &city, &country, &zip, &email, &phone,
		&facilitiesJSON, &imagesJSON,
		&p.CreatedAt, &updatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Property{}, domain.ErrNotFound
		}
		return domain.Property{}, err
	}

	p.Description = strPtr(desc)
	p.Address = strPtr(addr)
	p.City = strPtr(city)
	p.Country = strPtr(country)
	p.ZipCode = strPtr(zip)
	p.ContactEmail = strPtr(email)
	p.ContactPhone = strPtr(phone)
	_ = json.Unmarshal(facilitiesJSON, &p.Facilities)
	_ = json.Unmarshal(imagesJSON, &p.Images)
	if updatedAt.Valid {
		t := updatedAt.Time
		p.UpdatedAt = &t
	}
	return p, nil
}

func (r *Repo) ListRooms(ctx context.Context, propertyID string) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		var rm domain.Room
		var desc sql.NullString
		var amenitiesJSON, imagesJSON []byte
		var updatedAt sql.NullTime
		if err := rows.Scan(
			&rm.ID, &rm.PropertyID, &rm.Name, &desc,
			&rm.MaxOccupancy, &rm.BasePrice, &rm.Currency,
			&amenitiesJSON, &imagesJSON,
			&rm.CreatedAt, &updatedAt,
		); err != nil {
			return nil, err
		}
		rm.Description = strPtr(desc)
		_ = json.Unmarshal(amenitiesJSON, &rm.Amenities)
		_ = json.Unmarshal(imagesJSON, &rm.Images)
		if updatedAt.Valid {
			t := updatedAt.Time
			rm.UpdatedAt = &t
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repo) ListPropertyIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, listPropertyIDsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ---- reservations ----

func (r *Repo) CreateReservation(ctx context.Context, res domain.Reservation) error {
	_, err := r.db.ExecContext(ctx, insertReservationSQL,
		res.ID,
		res.PropertyID,
		res.RoomID,
		res.GuestName,
		res.GuestEmail,
		res.CheckIn,
		res.CheckOut,
		res.Adults,
		res.Children,
		res.TotalPrice,
		res.Currency,
		res.Status,
		valStr(res.Notes),
	)
	return err
}

func (r *Repo) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	return scanReservation(r.db.QueryRowContext(ctx, getReservationSQL, id))
}

func scanReservation(row *sql.Row) (domain.Reservation, error) {
	var res domain.Reservation
	var notes sql.NullString
	var updatedAt sql.NullTime

	if err := row.Scan(
		&res.ID, &res.PropertyID, &res.RoomID,
		&res.GuestName, &res.GuestEmail,
		&res.CheckIn, &res.CheckOut,
		&res.Adults, &res.Children,
		&res.TotalPrice, &res.Currency, &res.Status,
		&notes, &res.CreatedAt, &updatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Reservation{}, domain.ErrNotFound
		}
		return domain.Reservation{}, err
	}
	res.Notes = strPtr(notes)
	if updatedAt.Valid {
		t := updatedAt.Time
		res.UpdatedAt = &t
	}
	return res, nil
}

// UpdateReservation applies the non-nil patch fields and returns the row as
// stored. updated_at moves only when at least one field is present.
func (r *Repo) UpdateReservation(ctx context.Context, id string, p domain.ReservationPatch) (domain.Reservation, error) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.PropertyID != nil {
		add("property_id", *p.PropertyID)
	}
	if p.RoomID != nil {
		add("room_id", *p.RoomID)
	}
	if p.GuestName != nil {
		add("guest_name", *p.GuestName)
	}
	if p.GuestEmail != nil {
		add("guest_email", *p.GuestEmail)
	}
	if p.CheckIn != nil {
		add("check_in", *p.CheckIn)
	}
	if p.CheckOut != nil {
		add("check_out", *p.CheckOut)
	}
	if p.Adults != nil {
		add("adults", *p.Adults)
	}
	if p.Children != nil {
		add("children", *p.Children)
	}
	if p.TotalPrice != nil {
		add("total_price", *p.TotalPrice)
	}
	if p.Currency != nil {
		add("currency", *p.Currency)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.Notes != nil {
		add("notes", *p.Notes)
	}

	if len(sets) == 0 {
		return r.GetReservation(ctx, id)
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	sqlStr := "UPDATE reservations SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return domain.Reservation{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL reports 0 for no-op updates too, so double-check existence.
		if _, gerr := r.GetReservation(ctx, id); gerr != nil {
			return domain.Reservation{}, gerr
		}
	}
	return r.GetReservation(ctx, id)
}

// ---- audit log ----

func (r *Repo) InsertLog(ctx context.Context, l domain.APILog) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertAPILogSQL,
		l.RequestMethod,
		l.RequestPath,
		jsonVal(l.RequestHeaders),
		jsonVal(l.RequestBody),
		valInt(l.ResponseStatus),
		jsonVal(l.ResponseBody),
		l.Source,
		valStr(l.Error),
		valF64(l.DurationMS),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type logTx struct {
	tx *sql.Tx
	id int64
}

// OpenLog inserts the row inside a transaction and hands back a handle so
// the caller can back-fill the response before the commit.
func (r *Repo) OpenLog(ctx context.Context, l domain.APILog) (domain.OpenLogTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	res, err := tx.ExecContext(ctx, insertAPILogSQL,
		l.RequestMethod,
		l.RequestPath,
		jsonVal(l.RequestHeaders),
		jsonVal(l.RequestBody),
		valInt(l.ResponseStatus),
		jsonVal(l.ResponseBody),
		l.Source,
		valStr(l.Error),
		valF64(l.DurationMS),
	)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	return &logTx{tx: tx, id: id}, nil
}

func (t *logTx) Complete(ctx context.Context, status int, body any) error {
	if _, err := t.tx.ExecContext(ctx, updateAPILogResponseSQL, status, jsonVal(body), t.id); err != nil {
		_ = t.tx.Rollback()
		return err
	}
	return t.tx.Commit()
}

func (t *logTx) Abort() error {
	err := t.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}
