package controllers

import (
	"net/http"
	"time"

	"github.com/pattarapol-dev/srisawat-pos-backend/api/responses"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/dashboard"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/logger"
)

// DashboardSummary reports owner-level figures for a date range. The
// range defaults to the last 30 days when from/to are omitted.
func DashboardSummary(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		from := now.AddDate(0, 0, -30)
		to := now

		if raw := r.URL.Query().Get("from"); raw != "" {
			parsed, err := parseDate(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "from must be an RFC 3339 timestamp or YYYY-MM-DD date"))
				return
			}
			from = parsed
		}
		if raw := r.URL.Query().Get("to"); raw != "" {
			parsed, err := parseDate(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "to must be an RFC 3339 timestamp or YYYY-MM-DD date"))
				return
			}
			// Bare dates read as "through the end of that day".
			if len(raw) == len("2006-01-02") {
				parsed = parsed.AddDate(0, 0, 1)
			}
			to = parsed
		}

		dto, err := svc.Summary(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
