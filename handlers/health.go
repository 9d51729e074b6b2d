package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"movecall/database"
	"movecall/utils"
)

// Health reports liveness plus the state of the two shared backends.
func Health(c *gin.Context) {
	ctx := c.Request.Context()
	status := gin.H{"status": "ok", "time": time.Now().UTC()}
	code := http.StatusOK

	if err := database.MongoClient.Ping(ctx, nil); err != nil {
		status["mongo"] = err.Error()
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	} else {
		status["mongo"] = "ok"
	}

	if err := utils.GetCacheClient().Ping(ctx).Err(); err != nil {
		status["redis"] = err.Error()
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	} else {
		status["redis"] = "ok"
	}

	c.JSON(code, status)
}
