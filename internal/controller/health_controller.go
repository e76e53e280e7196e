package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jakeswenson/bear-query/internal/middleware"
	"github.com/jakeswenson/bear-query/internal/model"
	"github.com/jakeswenson/bear-query/internal/store"
)

type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Service     string            `json:"service"`
	Version     string            `json:"version"`
	Store       StoreStatus       `json:"store"`
	Schema      *model.SchemaInfo `json:"schema,omitempty"`
	Connections map[string]string `json:"connections"`
}

type StoreStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type HealthController struct {
	store *store.Store
}

func NewHealthController(st *store.Store) *HealthController {
	return &HealthController{
		store: st,
	}
}

func (hc *HealthController) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now(),
		Service:     "bear-query",
		Version:     "1.0.0",
		Connections: make(map[string]string),
	}

	if err := hc.store.Ping(c.Request.Context()); err != nil {
		resp.Status = "unhealthy"
		resp.Store = StoreStatus{
			Status:  "disconnected",
			Message: "Store ping failed: " + err.Error(),
		}
	} else {
		md := hc.store.Metadata()
		resp.Store = StoreStatus{
			Status:  "connected",
			Message: "Store connection healthy",
		}
		resp.Schema = &model.SchemaInfo{
			JunctionTable: md.JunctionTable,
			EntityColumn:  md.EntityColumn,
			LabelColumn:   md.LabelColumn,
		}

		stats := hc.store.Stats()
		resp.Connections["store_open_connections"] = fmt.Sprintf("%d", stats.OpenConnections)
		resp.Connections["store_in_use"] = fmt.Sprintf("%d", stats.InUse)
		resp.Connections["store_idle"] = fmt.Sprintf("%d", stats.Idle)
		middleware.UpdateStoreConnectionMetrics(stats.OpenConnections, stats.InUse)
	}

	statusCode := http.StatusOK
	if resp.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, resp)
}
