package health

import (
	"context"
	"net/http"
	"time"

	apierrors "github.com/dalemusser/devconnect/internal/app/features/errors"
	"github.com/dalemusser/devconnect/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	LatencyMS int64  `json:"latency_ms"`
	Message   string `json:"message,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "latency_ms":2 }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	start := time.Now()
	err := h.Client.Ping(ctx, readpref.Primary())
	latency := time.Since(start).Milliseconds()

	if err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		apierrors.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:    "error",
			Database:  "disconnected",
			LatencyMS: latency,
			Message:   "Database unavailable",
		})
		return
	}

	apierrors.WriteJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Database:  "connected",
		LatencyMS: latency,
	})
}
