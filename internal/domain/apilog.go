package domain

import "time"

// Audit log sources.
const (
	SourceClient      = "client"
	SourceRetell      = "retell"
	SourceYieldPlanet = "yieldplanet"
)

// APILog records one HTTP exchange. Bodies hold decoded JSON (re-marshalled
// for storage) or nil when the payload was empty or not JSON. Rows are
// append-only; only the webhook flow back-fills the response fields, and it
// does so inside the transaction that created the row.
type APILog struct {
	ID             int64
	RequestMethod  string
	RequestPath    string
	RequestHeaders map[string][]string
	RequestBody    any
	ResponseStatus *int
	ResponseBody   any
	Source         string
	Error          *string
	DurationMS     *float64
	CreatedAt      time.Time
}
