package handlers

import (
	"context"
	"time"

	"cardfields/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb}
}

// Check reports the status of the database and redis. Either dependency may
// be absent, in which case it is reported as disabled.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	services := fiber.Map{
		"database": h.databaseStatus(ctx),
		"redis":    h.redisStatus(ctx),
	}

	status, code := "ok", fiber.StatusOK
	for _, s := range services {
		if s == "unavailable" {
			status, code = "degraded", fiber.StatusServiceUnavailable
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"version":  "1.0.0",
		"services": services,
	})
}

func (h *HealthHandler) databaseStatus(ctx context.Context) string {
	if h.db == nil {
		return "disabled"
	}
	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return "unavailable"
	}
	return "connected"
}

func (h *HealthHandler) redisStatus(ctx context.Context) string {
	if h.redis == nil {
		return "disabled"
	}
	if err := cache.HealthCheck(ctx, h.redis); err != nil {
		return "unavailable"
	}
	return "connected"
}
