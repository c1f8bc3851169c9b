package controllers

import (
	"net/http"

	"github.com/dermalink/dermalink-backend/api/responses"
	"github.com/dermalink/dermalink-backend/pkg/config"
)

// HealthLive reports process liveness. The identity store is in-memory, so
// a live process is a ready process.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}
