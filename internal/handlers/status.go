package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health is the liveness probe: alive when the database answers.
func (a *API) Health(c *gin.Context) {
	if err := a.monitor.Healthy(); err != nil {
		log.Printf("Health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "Guitar Harmony API",
		"version": "0.1.0",
		"status":  "operational",
	})
}

func (a *API) MonitoringStats(c *gin.Context) {
	c.JSON(http.StatusOK, a.monitor.Snapshot())
}
