package routers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ienikesergey/Outage-Dispatch-System/pkg/middleware/render"
	"github.com/ienikesergey/Outage-Dispatch-System/server/journal/internal/service"
)

// ReportHandler handles the report derivation endpoints.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new ReportHandler instance.
func NewReportHandler(db *gorm.DB, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{service: service.NewReportService(db, logger)}
}

// RegisterRoutes registers the report routes.
func (h *ReportHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET(RouteReports, h.GetReport)
	api.GET(RouteDeadlineWatch, h.GetDeadlineWatch)
}

// GetReport builds every report derivation for the requested preset,
// defaulting to the current month.
func (h *ReportHandler) GetReport(c *gin.Context) {
	preset := c.DefaultQuery(ParamPreset, service.PresetMonth)

	report, err := h.service.Build(preset)
	if err != nil {
		render.InternalServerError(c, MsgFailedToBuildRepo+err.Error())
		return
	}
	render.OK(c, report)
}

// GetDeadlineWatch returns the open events due within two hours.
func (h *ReportHandler) GetDeadlineWatch(c *gin.Context) {
	entries, err := h.service.DeadlineWatch(time.Now())
	if err != nil {
		render.InternalServerError(c, MsgFailedToBuildRepo+err.Error())
		return
	}
	render.OK(c, entries)
}
