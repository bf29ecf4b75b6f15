package routers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ienikesergey/Outage-Dispatch-System/pkg/middleware/render"
	"github.com/ienikesergey/Outage-Dispatch-System/server/journal/internal/service"
)

// AnalyticsHandler handles the dashboard aggregation endpoint.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler instance.
func NewAnalyticsHandler(db *gorm.DB, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service.NewAnalyticsService(db, logger)}
}

// RegisterRoutes registers the analytics route.
func (h *AnalyticsHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET(RouteAnalytics, h.GetAnalytics)
}

// GetAnalytics returns the full dashboard payload.
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	resp, err := h.service.Compute()
	if err != nil {
		render.InternalServerError(c, MsgFailedToCompute+err.Error())
		return
	}
	render.OK(c, resp)
}
