package http

import (
	"net/http"
	"time"

	"github.com/sharedrop/sharedrop/internal/auth/store"
	"github.com/sharedrop/sharedrop/pkg/authsdk"
	"github.com/sharedrop/sharedrop/pkg/httpx"
)

// ReadyzHandler is the readiness probe. It reports 503 when the database
// is unreachable so load balancers stop routing traffic here.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{
			Database: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
