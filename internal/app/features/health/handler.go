package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/converge/internal/app/registry"
	"github.com/dalemusser/converge/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Reg    *registry.Registry
	Log    *zap.Logger
}

// NewHandler constructs a health Handler. reg may be nil.
func NewHandler(client *mongo.Client, reg *registry.Registry, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Reg:    reg,
		Log:    logger,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Groups   *int   `json:"groups,omitempty"`
	Meetings *int   `json:"meetings,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "groups":3, "meetings":7 }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Reg != nil {
		groups := len(h.Reg.Groups().List())
		meetings := len(h.Reg.Meetings().List())
		resp.Groups = &groups
		resp.Meetings = &meetings
	}

	_ = json.NewEncoder(w).Encode(resp)
}
