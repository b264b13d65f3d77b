package shield

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/janmitra/yojana/kit"
)

// TraceID assigns each request a short random trace ID, exposes it via the
// X-Trace-ID response header, and stores a logger annotated with the ID
// under LoggerKey.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := newTraceID()
		ctx := kit.WithTraceID(r.Context(), id)
		logger := slog.Default().With("trace_id", id)
		ctx = contextWithLogger(ctx, logger)
		w.Header().Set("X-Trace-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newTraceID() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b[:])
}
