package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	metricsports "github.com/orderdesk/sales-admin-api/internal/domains/metrics/ports"
)

// MetricsAPI wires HTTP transport with the metrics aggregator.
type MetricsAPI struct {
	service metricsports.Service
}

func NewMetricsAPI(service metricsports.Service) MetricsAPI {
	return MetricsAPI{service: service}
}

// Get /api/v1/metrics/dashboard?days=7|30|90
func (api *MetricsAPI) Dashboard(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		days = parsed
	}
	dashboard, err := api.service.Dashboard(c.Request.Context(), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDashboardResponse(dashboard))
}
