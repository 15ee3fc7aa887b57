package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"placepulse/background-worker-service/internal/app/background-worker/service"
)

// HealthCheckHandler проверяет доступность сервисов, от которых зависит worker
type HealthCheckHandler struct {
	statsClient        service.StatsClientInterface
	achievementsClient service.AchievementsClientInterface
}

func NewHealthCheckHandler(
	statsClient service.StatsClientInterface,
	achievementsClient service.AchievementsClientInterface,
) *HealthCheckHandler {
	return &HealthCheckHandler{
		statsClient:        statsClient,
		achievementsClient: achievementsClient,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

func (h *HealthCheckHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	overallStatus := "healthy"

	if err := h.statsClient.Ping(ctx); err != nil {
		checks["reviews_service"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		checks["reviews_service"] = "healthy"
	}

	if err := h.achievementsClient.Ping(ctx); err != nil {
		checks["achievements_service"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		checks["achievements_service"] = "healthy"
	}

	response := HealthResponse{
		Status:    overallStatus,
		Checks:    checks,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")

	if overallStatus != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

func (h *HealthCheckHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.statsClient.Ping(ctx); err != nil {
		http.Error(w, "reviews service not ready", http.StatusServiceUnavailable)
		return
	}

	if err := h.achievementsClient.Ping(ctx); err != nil {
		http.Error(w, "achievements service not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

func (h *HealthCheckHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("alive"))
}

func (h *HealthCheckHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/health/readiness", h.Readiness)
	mux.HandleFunc("/health/liveness", h.Liveness)
}
