package routers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
	"github.com/ienikesergey/Outage-Dispatch-System/pkg/middleware/render"
	"github.com/ienikesergey/Outage-Dispatch-System/server/journal/internal/service"
)

// EventHandler handles the outage journal endpoints.
type EventHandler struct {
	service *service.EventService
	export  *service.ExportService
}

// NewEventHandler creates a new EventHandler instance.
func NewEventHandler(db *gorm.DB, logger *zap.Logger) *EventHandler {
	events := service.NewEventService(db, logger)
	return &EventHandler{
		service: events,
		export:  service.NewExportService(events),
	}
}

// RegisterRoutes registers the journal routes. Reads need only a valid
// token; writes require the dispatcher roles.
func (h *EventHandler) RegisterRoutes(api *gin.RouterGroup) {
	eventsGroup := api.Group(RouteGroupEvents)
	{
		eventsGroup.GET("", h.ListEvents)
		eventsGroup.GET(SubRouteExport, h.ExportEvents)
		eventsGroup.GET(RouteParamID, h.GetEvent)

		writeRoles := RequireRole(journal.RoleEditor, journal.RoleSenior, journal.RoleAdmin)
		eventsGroup.POST("", writeRoles, h.CreateEvent)
		eventsGroup.PUT(RouteParamID, writeRoles, h.UpdateEvent)
		eventsGroup.PATCH(RouteParamID, writeRoles, h.PatchEvent)
		eventsGroup.DELETE(RouteParamID, writeRoles, h.DeleteEvent)
	}
}

// ListEvents returns the journal narrowed by the query-bound filter.
func (h *EventHandler) ListEvents(c *gin.Context) {
	var filter service.EventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		render.BadRequest(c, MsgInvalidQueryParams+err.Error())
		return
	}

	events, err := h.service.List(&filter)
	if err != nil {
		render.InternalServerError(c, MsgFailedToList+err.Error())
		return
	}
	render.OK(c, events)
}

// GetEvent returns one event with its associations.
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), Base10, BitSize64)
	if err != nil {
		render.BadRequest(c, MsgInvalidIDFormat)
		return
	}

	event, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.NotFound(c, MsgEventNotFound)
			return
		}
		render.InternalServerError(c, MsgFailedToGet+err.Error())
		return
	}
	render.OK(c, event)
}

// CreateEvent records a new journal entry with its associations.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var dto service.EventWriteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		render.BadRequest(c, MsgInvalidRequestBody+err.Error())
		return
	}

	event, err := h.service.Create(&dto)
	if err != nil {
		render.InternalServerError(c, MsgFailedToCreate+err.Error())
		return
	}
	render.OK(c, event)
}

// UpdateEvent fully replaces an event and its associations.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), Base10, BitSize64)
	if err != nil {
		render.BadRequest(c, MsgInvalidIDFormat)
		return
	}

	var dto service.EventWriteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		render.BadRequest(c, MsgInvalidRequestBody+err.Error())
		return
	}

	event, err := h.service.Update(id, &dto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.NotFound(c, MsgEventNotFound)
			return
		}
		render.InternalServerError(c, MsgFailedToUpdate+err.Error())
		return
	}
	render.OK(c, event)
}

// PatchEvent applies a partial completion update.
func (h *EventHandler) PatchEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), Base10, BitSize64)
	if err != nil {
		render.BadRequest(c, MsgInvalidIDFormat)
		return
	}

	var dto service.EventPatchDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		render.BadRequest(c, MsgInvalidRequestBody+err.Error())
		return
	}

	event, err := h.service.Patch(id, &dto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.NotFound(c, MsgEventNotFound)
			return
		}
		render.InternalServerError(c, MsgFailedToUpdate+err.Error())
		return
	}
	render.OK(c, event)
}

// DeleteEvent removes an event and its associations.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), Base10, BitSize64)
	if err != nil {
		render.BadRequest(c, MsgInvalidIDFormat)
		return
	}

	if err := h.service.Delete(id); err != nil {
		render.InternalServerError(c, MsgFailedToDelete+err.Error())
		return
	}
	render.Success(c)
}

// ExportEvents streams the filtered journal as an xlsx workbook.
func (h *EventHandler) ExportEvents(c *gin.Context) {
	var filter service.EventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		render.BadRequest(c, MsgInvalidQueryParams+err.Error())
		return
	}

	data, err := h.export.Export(&filter)
	if err != nil {
		render.InternalServerError(c, MsgFailedToExport+err.Error())
		return
	}

	filename := fmt.Sprintf("journal-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header(HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, ContentTypeXLSX, data)
}
