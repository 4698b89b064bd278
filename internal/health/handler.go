package health

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
)

// Handler serves the liveness endpoint. The service's real surface is
// the message bus; this is what load balancers and probes talk to.
type Handler struct {
	db *sql.DB
	nc *nats.Conn
}

func NewHandler(db *sql.DB, nc *nats.Conn) *Handler {
	return &Handler{db: db, nc: nc}
}

func (h *Handler) Register(app *fiber.App) {
	app.Get("/healthz", h.healthz)
}

func (h *Handler) healthz(c *fiber.Ctx) error {
	if err := h.db.PingContext(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unavailable",
			"database": err.Error(),
		})
	}
	if !h.nc.IsConnected() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"bus":    h.nc.Status().String(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
