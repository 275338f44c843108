package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/infra"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports DB and Redis connectivity plus the state of the SMTP
// circuit breaker and the depth of the alerts dead letter queue. The
// breaker being open degrades alerting only, so it never fails the check.
// No credentials or internals are ever exposed.
func Health(db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		var dlqDepth int64
		if redisStatus == "connected" {
			dlqDepth, _ = worker.DLQLength(ctx, rdb, worker.QueueAlerts)
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":           status == http.StatusOK,
			"db":           dbStatus,
			"redis":        redisStatus,
			"smtp_breaker": smtpCB.State().String(),
			"alerts_dlq":   dlqDepth,
		})
	}
}
