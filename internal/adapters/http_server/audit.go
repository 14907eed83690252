package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotelconnect/internal/adapters/observability"
	"hotelconnect/internal/domain"
)

// apiPrefix scopes the audit trail; anything else bypasses it entirely.
const apiPrefix = "/api"

// maxAuditBody caps how much of either body is captured per exchange.
const maxAuditBody = 1 << 20

// auditWriter tees response bytes into a buffer while writing them through
// to the client, so the caller is never starved of its response.
type auditWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
	buf    bytes.Buffer
}

func (w *auditWriter) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *auditWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	if w.buf.Len() < maxAuditBody {
		w.buf.Write(b[:min(len(b), maxAuditBody-w.buf.Len())])
	}
	return w.ResponseWriter.Write(b)
}

func (w *auditWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Audit records one APILog row per request under the API prefix: method,
// full URL, headers, best-effort-decoded request and response bodies, status
// and duration. The request body is restored for the downstream handler.
// Sink failures are logged and swallowed; the response is never affected.
func Audit(sink domain.AuditRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, apiPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()

			// Snapshot inbound headers before the handler runs; handlers
			// may mutate r.Header and the audit row records what arrived.
			reqHeaders := r.Header.Clone()

			// The handler gets every byte back; the cap applies only to
			// what the audit row captures.
			var reqBody []byte
			if r.Body != nil {
				reqBody, _ = io.ReadAll(r.Body)
				_ = r.Body.Close()
				r.Body = io.NopCloser(bytes.NewReader(reqBody))
			}
			capture := reqBody
			if len(capture) > maxAuditBody {
				capture = capture[:maxAuditBody]
			}

			aw := &auditWriter{ResponseWriter: w}
			next.ServeHTTP(aw, r)

			status := aw.Status()
			durMS := float64(time.Since(start).Microseconds()) / 1000.0
			entry := domain.APILog{
				RequestMethod:  r.Method,
				RequestPath:    fullURL(r),
				RequestHeaders: reqHeaders,
				RequestBody:    decodeBody(capture),
				ResponseStatus: &status,
				ResponseBody:   decodeBody(aw.buf.Bytes()),
				Source:         domain.SourceClient,
				DurationMS:     &durMS,
			}

			// The response is already on its way; a dead client must not
			// take the audit row with it.
			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
			defer cancel()
			_, err := sink.InsertLog(ctx, entry)
			observability.ObserveAudit(domain.SourceClient, err)
			if err != nil {
				log.Error().Err(err).Str("path", r.URL.Path).Msg("audit log write failed")
			}
		})
	}
}

// decodeBody best-effort decodes JSON; anything else degrades to nil.
func decodeBody(b []byte) any {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	return v
}

func fullURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
