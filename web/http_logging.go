// ABOUTME: HTTP logging middleware with the same key=value log.Printf style as the rest of the module.
// ABOUTME: Each request line carries the current action run ID so polls can be traced to the run they watched.
package web

import (
	"log"
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

// requestLogger logs one line per request. runID is read after the handler
// returns, so a request that starts an action logs the run it started.
func requestLogger(runID func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			id := "-"
			if runID != nil {
				if v := runID(); v != "" {
					id = v
				}
			}
			log.Printf("component=web action=request method=%s path=%s status=%d bytes=%d duration=%s run_id=%s",
				r.Method,
				r.URL.Path,
				status,
				rec.bytes,
				time.Since(start).Round(time.Microsecond),
				id,
			)
		})
	}
}
