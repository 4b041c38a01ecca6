package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/response"
)

const healthTimeout = 3 * time.Second

// SystemHandler reports whether the portal can reach its dependencies.
type SystemHandler struct {
	api       *apiclient.Client
	rdb       *redis.Client
	startTime time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a SystemHandler. rdb may be nil when Redis is off.
func NewSystemHandler(api *apiclient.Client, rdb *redis.Client, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		api:       api,
		rdb:       rdb,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type healthStatus struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	API    string `json:"api"`
	Redis  string `json:"redis"`
}

// Health godoc
// GET /health
// Returns 200 when the college API answers, 503 otherwise.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	st := healthStatus{
		Status: "ok",
		Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
		API:    "ok",
		Redis:  "disabled",
	}

	if err := h.api.Health(ctx); err != nil {
		h.log.Warn().Err(err).Msg("API health check failed")
		st.API = "unreachable"
		st.Status = "degraded"
	}
	if h.rdb != nil {
		st.Redis = "ok"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			h.log.Warn().Err(err).Msg("Redis ping failed")
			st.Redis = "unreachable"
			st.Status = "degraded"
		}
	}

	if st.API != "ok" {
		response.Success(c, http.StatusServiceUnavailable, st)
		return
	}
	response.Success(c, http.StatusOK, st)
}
