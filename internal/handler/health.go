package handler

import (
	"context"
	"net/http"
	"time"

	"koalgroup/internal/infra"
	"koalgroup/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health checks DB and Redis connectivity and reports the mail breaker state
// and dead letter backlog. It never exposes credentials or internals.
// An open breaker does not make the service unhealthy.
func Health(db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker, dlq *worker.DeadLetters) gin.HandlerFunc {
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

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
			"smtp":  mailCB.State().String(),
		}
		if redisStatus == "connected" && dlq != nil {
			dead := gin.H{}
			for _, q := range []string{worker.QueueReports, worker.QueueEmail} {
				if n, err := dlq.Len(ctx, q); err == nil {
					dead[q] = n
				}
			}
			body["dead_letters"] = dead
		}
		c.JSON(status, body)
	}
}
