package controllers

import (
	"net/http"

	"github.com/shopkeeperhq/shopkeeper-backend/api/responses"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/config"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db"
	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
	pkgredis "github.com/shopkeeperhq/shopkeeper-backend/pkg/redis"
)

const envHeader = "X-Shopkeeper-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when both backing stores answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{}
		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
			checks["database"] = "ok"
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
			checks["redis"] = "ok"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
