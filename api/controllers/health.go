package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/guiamercado/guiamercado-backend/api/responses"
	"github.com/guiamercado/guiamercado-backend/pkg/config"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
	"github.com/guiamercado/guiamercado-backend/pkg/logger"
)

const readyTimeout = 2 * time.Second

// Pinger is implemented by every dependency the readiness check pings.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GM-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each named dependency and answers 503 listing the ones
// that failed.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GM-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		failed := map[string]any{}
		var firstErr error
		for _, name := range names {
			dep := deps[name]
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				failed[name] = err.Error()
				if firstErr == nil {
					firstErr = err
				}
			}
		}

		if firstErr != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, firstErr, "dependency not ready").WithDetails(failed)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
