//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotelconnect/internal/domain"
	mysqlrepo "hotelconnect/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pint(i int) *int           { return &i }
func pfloat(f float64) *float64 { return &f }

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=hotelconnect",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "hotelconnect")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func seedProperty(t *testing.T, repo *mysqlrepo.Repo, id string) {
	t.Helper()
	ctx := context.Background()
	if err := repo.UpsertProperty(ctx, domain.Property{
		ID:           id,
		Name:         "Seaside Inn",
		Description:  pstr("A small place by the water"),
		Address:      pstr("1 Shore Rd"),
		City:         pstr("Brighton"),
		Country:      pstr("UK"),
		ZipCode:      pstr("BN1"),
		ContactEmail: pstr("front@seaside.example"),
		ContactPhone: pstr("+44 1273 000000"),
		Facilities:   []string{"pool", "wifi"},
		Images:       []string{},
	}); err != nil {
		t.Fatalf("UpsertProperty: %v", err)
	}
	if err := repo.UpsertRoom(ctx, domain.Room{
		ID: "r1", PropertyID: id, Name: "Double", MaxOccupancy: 2,
		BasePrice: 100, Currency: "USD", Amenities: []string{"tv"}, Images: []string{},
	}); err != nil {
		t.Fatalf("UpsertRoom: %v", err)
	}
}

// ---------- the tests ----------

func TestRepo_MySQL_PropertyRoundTrip(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()
	seedProperty(t, repo, "p1")

	p, err := repo.GetProperty(ctx, "p1")
	if err != nil {
		t.Fatalf("GetProperty: %v", err)
	}
	if p.Name != "Seaside Inn" || p.City == nil || *p.City != "Brighton" {
		t.Fatalf("unexpected property: %+v", p)
	}
	if len(p.Facilities) != 2 || p.Facilities[0] != "pool" {
		t.Fatalf("facilities not round-tripped: %+v", p.Facilities)
	}

	rooms, err := repo.ListRooms(ctx, "p1")
	if err != nil {
		t.Fatalf("ListRooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].MaxOccupancy != 2 {
		t.Fatalf("unexpected rooms: %+v", rooms)
	}

	if _, err := repo.GetProperty(ctx, "ghost"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_MySQL_AvailabilityUpsertIsIdempotent(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()
	seedProperty(t, repo, "p1")

	rows := []domain.Availability{
		{RoomID: "r1", Date: day(t, "2025-06-01"), Available: true, Price: pfloat(110)},
		{RoomID: "r1", Date: day(t, "2025-06-02"), Available: false},
	}
	if err := repo.UpsertAvailability(ctx, rows); err != nil {
		t.Fatalf("UpsertAvailability: %v", err)
	}
	// second run with a changed price must update, not duplicate
	rows[0].Price = pfloat(95)
	if err := repo.UpsertAvailability(ctx, rows); err != nil {
		t.Fatalf("UpsertAvailability(2): %v", err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM availabilities WHERE room_id='r1'").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows after re-upsert, got %d", n)
	}
	var price float64
	if err := db.QueryRow("SELECT price FROM availabilities WHERE room_id='r1' AND `date`='2025-06-01'").Scan(&price); err != nil {
		t.Fatalf("price: %v", err)
	}
	if price != 95 {
		t.Fatalf("expected updated price 95, got %v", price)
	}
}

func TestRepo_MySQL_ReservationLifecycle(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()
	seedProperty(t, repo, "p1")

	res := domain.Reservation{
		ID: "res-1", PropertyID: "p1", RoomID: "r1",
		GuestName: "Jane Doe", GuestEmail: "jane@x.com",
		CheckIn: day(t, "2025-06-01"), CheckOut: day(t, "2025-06-03"),
		Adults: 1, Children: 0, TotalPrice: 200, Currency: "USD",
		Status: domain.StatusPending,
	}
	if err := repo.CreateReservation(ctx, res); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	got, err := repo.GetReservation(ctx, "res-1")
	if err != nil {
		t.Fatalf("GetReservation: %v", err)
	}
	if got.Status != "pending" || got.UpdatedAt != nil {
		t.Fatalf("unexpected created row: %+v", got)
	}

	upd, err := repo.UpdateReservation(ctx, "res-1", domain.ReservationPatch{
		Status: pstr(domain.StatusConfirmed),
		Adults: pint(2),
	})
	if err != nil {
		t.Fatalf("UpdateReservation: %v", err)
	}
	if upd.Status != "confirmed" || upd.Adults != 2 || upd.GuestName != "Jane Doe" {
		t.Fatalf("unexpected updated row: %+v", upd)
	}
	if upd.UpdatedAt == nil {
		t.Fatalf("expected updated_at to be set after mutation")
	}

	if _, err := repo.UpdateReservation(ctx, "ghost", domain.ReservationPatch{Status: pstr("cancelled")}); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_MySQL_DeletePropertyCascadesButKeepsReservations(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()
	seedProperty(t, repo, "p1")

	if err := repo.UpsertAvailability(ctx, []domain.Availability{
		{RoomID: "r1", Date: day(t, "2025-06-01"), Available: true},
	}); err != nil {
		t.Fatalf("UpsertAvailability: %v", err)
	}
	if err := repo.CreateReservation(ctx, domain.Reservation{
		ID: "res-keep", PropertyID: "p1", RoomID: "r1",
		GuestName: "Jane Doe", GuestEmail: "jane@x.com",
		CheckIn: day(t, "2025-06-01"), CheckOut: day(t, "2025-06-03"),
		Adults: 1, TotalPrice: 200, Currency: "USD", Status: domain.StatusConfirmed,
	}); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	if err := repo.DeleteProperty(ctx, "p1"); err != nil {
		t.Fatalf("DeleteProperty: %v", err)
	}

	var rooms, avail, reservations int
	if err := db.QueryRow("SELECT COUNT(*) FROM rooms").Scan(&rooms); err != nil {
		t.Fatalf("count rooms: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM availabilities").Scan(&avail); err != nil {
		t.Fatalf("count availabilities: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM reservations").Scan(&reservations); err != nil {
		t.Fatalf("count reservations: %v", err)
	}
	if rooms != 0 || avail != 0 {
		t.Fatalf("expected cascade delete, got rooms=%d avail=%d", rooms, avail)
	}
	if reservations != 1 {
		t.Fatalf("reservations must survive property delete, got %d", reservations)
	}
}

func TestRepo_MySQL_AuditLog(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	status := 200
	dur := 12.5
	id, err := repo.InsertLog(ctx, domain.APILog{
		RequestMethod:  "GET",
		RequestPath:    "http://localhost/api/health",
		RequestHeaders: map[string][]string{"Accept": {"application/json"}},
		ResponseStatus: &status,
		ResponseBody:   map[string]any{"status": "ok"},
		Source:         domain.SourceClient,
		DurationMS:     &dur,
	})
	if err != nil {
		t.Fatalf("InsertLog: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected auto-increment id")
	}

	// webhook flow: insert + back-fill inside one transaction
	tx, err := repo.OpenLog(ctx, domain.APILog{
		RequestMethod: "POST",
		RequestPath:   "http://localhost/api/webhooks/retell",
		RequestBody:   map[string]any{"call_id": "c-1"},
		Source:        domain.SourceRetell,
	})
	if err != nil {
		t.Fatalf("OpenLog: %v", err)
	}
	if err := tx.Complete(ctx, 200, map[string]any{"status": "success"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	var respStatus sql.NullInt64
	if err := db.QueryRow("SELECT response_status FROM api_logs WHERE source='retell'").Scan(&respStatus); err != nil {
		t.Fatalf("query retell row: %v", err)
	}
	if !respStatus.Valid || respStatus.Int64 != 200 {
		t.Fatalf("expected back-filled response_status, got %+v", respStatus)
	}
}
