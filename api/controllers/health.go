package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/pattarapol-dev/srisawat-pos-backend/api/responses"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/logger"
)

const readinessTimeout = 3 * time.Second

// Pinger covers the backing stores the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// Readiness pings every backing store and fails if any is unreachable.
func Readiness(logg *logger.Logger, stores map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var combined error
		statuses := make(map[string]string, len(stores))
		for name, store := range stores {
			if err := store.Ping(ctx); err != nil {
				statuses[name] = "unreachable"
				combined = multierr.Append(combined, err)
				continue
			}
			statuses[name] = "ok"
		}

		if combined != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "backing store unreachable").
					WithDetails(statuses))
			return
		}
		responses.WriteSuccess(w, statuses)
	}
}
