package routers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
	"github.com/ienikesergey/Outage-Dispatch-System/pkg/middleware/render"
	"github.com/ienikesergey/Outage-Dispatch-System/server/journal/internal/service"
)

// ReferenceHandler handles the topology reference data endpoints.
type ReferenceHandler struct {
	service *service.ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler instance.
func NewReferenceHandler(db *gorm.DB, logger *zap.Logger) *ReferenceHandler {
	return &ReferenceHandler{service: service.NewReferenceService(db, logger)}
}

// RegisterRoutes registers the reference routes. Writes require the senior
// dispatcher roles.
func (h *ReferenceHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET(RouteReferenceData, h.GetReferenceData)

	writeRoles := RequireRole(journal.RoleSenior, journal.RoleAdmin)

	substationsGroup := api.Group(RouteGroupSubstations, writeRoles)
	{
		substationsGroup.POST("", h.CreateSubstation)
		substationsGroup.PUT(RouteParamID, h.UpdateSubstation)
		substationsGroup.DELETE(RouteParamID, h.DeleteSubstation)
	}

	cellsGroup := api.Group(RouteGroupCells, writeRoles)
	{
		cellsGroup.POST("", h.CreateCell)
		cellsGroup.PUT(RouteParamID, h.UpdateCell)
		cellsGroup.DELETE(RouteParamID, h.DeleteCell)
	}

	linesGroup := api.Group(RouteGroupLines, writeRoles)
	{
		linesGroup.POST("", h.CreateLine)
		linesGroup.PUT(RouteParamID, h.UpdateLine)
		linesGroup.DELETE(RouteParamID, h.DeleteLine)
	}

	tpsGroup := api.Group(RouteGroupTps, writeRoles)
	{
		tpsGroup.POST("", h.CreateTp)
		tpsGroup.PUT(RouteParamID, h.UpdateTp)
		tpsGroup.DELETE(RouteParamID, h.DeleteTp)
	}

	api.POST(RouteTopologySwitch, writeRoles, h.SwitchTopology)
}

// GetReferenceData returns the denormalized session payload.
func (h *ReferenceHandler) GetReferenceData(c *gin.Context) {
	data, err := h.service.GetReferenceData()
	if err != nil {
		render.InternalServerError(c, MsgFailedToGet+err.Error())
		return
	}
	render.OK(c, data)
}

// CreateSubstation inserts a substation.
func (h *ReferenceHandler) CreateSubstation(c *gin.Context) {
	var dto service.SubstationWriteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		render.BadRequest(c, MsgInvalidRequestBody+err.Error())
		return
	}

	sub, err := h.service.CreateSubstation(&dto)
	if err != nil {
		render.InternalServerError(c, MsgFailedToCreate+err.Error())
		return
	}
	render.OK(c, sub)
}

// UpdateSubstation edits a substation.
func (h *ReferenceHandler) UpdateSubstation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var dto service.SubstationWriteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		render.BadRequest(c, MsgInvalidRequestBody+err.Error())
		return
	}
	if err := h.service.UpdateSubstation(id, &dto); err != nil {
		render.InternalServerError(c, MsgFailedToUpdate+err.Error())
		return
	}
	render.Success(c)
}

// DeleteSubstation removes a substation and everything recorded under it.
func (h *ReferenceHandler) DeleteSubstation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteSubstation(id); err != nil {
		render.InternalServerError(c, MsgFailedToDelete+err.Error())
		return
	}
	render.Success(c)
}

// CreateCell inserts a cell.
func (h *ReferenceHandler) CreateCell(c *gin.Context) {
	var dto service.CellWriteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		render.BadRequest(c, MsgInvalidRequestBody+err.Error())
		return
	}

	cell, err := h.service.CreateCell(&dto)
	if err != nil {
		render.InternalServerError(c, MsgFailedToCreate+err.Error())
		return
	}
	render.OK(c, cell)
}

// UpdateCell edits a cell's name and voltage class.
func (h *ReferenceHandler) UpdateCell(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var dto service.CellWriteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		render.BadRequest(c, MsgInvalidRequestBody+err.Error())
		return
	}
	if err := h.service.UpdateCell(id, &dto); err != nil {
		render.InternalServerError(c, MsgFailedToUpdate+err.Error())
		return
	}
	render.Success(c)
}

// DeleteCell removes a cell and its events.
func (h *ReferenceHandler) DeleteCell(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCell(id); err != nil {
		render.InternalServerError(c, MsgFailedToDelete+err.Error())
		return
	}
	render.Success(c)
}

// CreateLine inserts a line.
func (h *ReferenceHandler) CreateLine(c *gin.Context) {
	var dto service.LineWriteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		render.BadRequest(c, MsgInvalidRequestBody+err.Error())
		return
	}

	line, err := h.service.CreateLine(&dto)
	if err != nil {
		render.InternalServerError(c, MsgFailedToCreate+err.Error())
		return
	}
	render.OK(c, line)
}

// UpdateLine fully replaces a line's fields.
func (h *ReferenceHandler) UpdateLine(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var dto service.LineWriteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		render.BadRequest(c, MsgInvalidRequestBody+err.Error())
		return
	}
	if err := h.service.UpdateLine(id, &dto); err != nil {
		render.InternalServerError(c, MsgFailedToUpdate+err.Error())
		return
	}
	render.Success(c)
}

// DeleteLine removes a line after detaching it from events.
func (h *ReferenceHandler) DeleteLine(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteLine(id); err != nil {
		render.InternalServerError(c, MsgFailedToDelete+err.Error())
		return
	}
	render.Success(c)
}

// CreateTp inserts a transformer point.
func (h *ReferenceHandler) CreateTp(c *gin.Context) {
	var dto service.TpWriteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		render.BadRequest(c, MsgInvalidRequestBody+err.Error())
		return
	}

	tp, err := h.service.CreateTp(&dto)
	if err != nil {
		render.InternalServerError(c, MsgFailedToCreate+err.Error())
		return
	}
	render.OK(c, tp)
}

// UpdateTp fully replaces a transformer point's fields.
func (h *ReferenceHandler) UpdateTp(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var dto service.TpWriteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		render.BadRequest(c, MsgInvalidRequestBody+err.Error())
		return
	}
	if err := h.service.UpdateTp(id, &dto); err != nil {
		render.InternalServerError(c, MsgFailedToUpdate+err.Error())
		return
	}
	render.Success(c)
}

// DeleteTp removes a transformer point and its events.
func (h *ReferenceHandler) DeleteTp(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTp(id); err != nil {
		render.InternalServerError(c, MsgFailedToDelete+err.Error())
		return
	}
	render.Success(c)
}

// SwitchTopology re-sources a TP or line and logs the switching event.
func (h *ReferenceHandler) SwitchTopology(c *gin.Context) {
	var dto service.TopologySwitchDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		render.BadRequest(c, MsgInvalidRequestBody+err.Error())
		return
	}

	if err := h.service.SwitchTopology(&dto); err != nil {
		render.InternalServerError(c, MsgFailedToSwitch+err.Error())
		return
	}
	render.Success(c)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(ParamID), Base10, BitSize64)
	if err != nil {
		render.BadRequest(c, MsgInvalidIDFormat)
		return 0, false
	}
	return id, true
}
