// cmd/matching-service/routes.go
package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	apperrors "buddy-matching/internal/common/errors"
	"buddy-matching/internal/matching"
	"buddy-matching/internal/models"
)

const defaultMatchLimit = 10

// registerInternalRoutes exposes the matching core on the operational HTTP
// server. These endpoints sit behind the cluster boundary; the public API
// lives in the gateway service.
func registerInternalRoutes(service *matching.Service, log *zap.Logger) {
	http.HandleFunc("/internal/matches", func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")
		limit := queryInt(r, "limit", defaultMatchLimit)
		threshold := queryFloat(r, "threshold", 0.0)

		matches, err := service.FindMatchesWithThreshold(r.Context(), userID, limit, threshold)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
	})

	http.HandleFunc("/internal/compatibility", func(w http.ResponseWriter, r *http.Request) {
		breakdown, err := service.GetCompatibility(r.Context(), r.URL.Query().Get("userA"), r.URL.Query().Get("userB"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, breakdown)
	})

	http.HandleFunc("/internal/pool", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			members := service.PoolMembers(r.Context())
			writeJSON(w, http.StatusOK, map[string]interface{}{"members": members, "size": len(members)})
		case http.MethodPost:
			added, err := service.AddToPool(r.Context(), r.URL.Query().Get("userId"))
			if err != nil {
				writeError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"added": added})
		case http.MethodDelete:
			removed, err := service.RemoveFromPool(r.Context(), r.URL.Query().Get("userId"))
			if err != nil {
				writeError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	http.HandleFunc("/internal/preferences", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			prefs, err := service.GetPreferences(r.Context(), r.URL.Query().Get("userId"))
			if err != nil {
				writeError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, prefs)
		case http.MethodPut:
			var upd models.PreferencesUpdate
			if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			prefs, err := service.UpsertPreferences(r.Context(), &upd)
			if err != nil {
				writeError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, prefs)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
	case apperrors.IsUserNotFound(err), apperrors.IsPreferencesNotFound(err):
		status = http.StatusNotFound
	case apperrors.IsDependencyUnavailable(err):
		status = http.StatusServiceUnavailable
	default:
		log.Error("internal endpoint failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
