package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/counselbook/reserve/internal/metrics"
	"github.com/counselbook/reserve/internal/mw"
)

// RouterConfig carries the knobs the router needs beyond its handlers.
type RouterConfig struct {
	RateLimitPerSec float64
	RateLimitBurst  int
}

// NewRouter wires all routes: the authenticated admin surface, the public
// token-gated reservation surface, and the operational endpoints.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	metrics.Register()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin")
	admin.Use(RequireIdentity())
	{
		admin.GET("/slots", h.ListSlots)
		admin.POST("/slots", h.CreateSlot)
		admin.GET("/slots/:id", h.GetSlot)
		admin.PATCH("/slots/:id", h.UpdateSlot)
		admin.DELETE("/slots/:id", h.DeleteSlot)

		admin.POST("/links", h.CreateLink)
	}

	public := r.Group("/public")
	public.Use(mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst))
	{
		public.GET("/reserve", h.GetReservePage)
		public.POST("/bookings", h.CreateBooking)
	}

	return r
}
