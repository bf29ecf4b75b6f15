package routers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
	"github.com/ienikesergey/Outage-Dispatch-System/pkg/middleware/render"
	"github.com/ienikesergey/Outage-Dispatch-System/server/journal/internal/service"
)

// AuthHandler handles login and operator account management.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{service: auth}
}

// RegisterPublicRoutes registers the unauthenticated login route.
func (h *AuthHandler) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.POST(RouteGroupAuth+SubRouteLogin, h.Login)
}

// RegisterRoutes registers the admin-only account routes.
func (h *AuthHandler) RegisterRoutes(api *gin.RouterGroup) {
	usersGroup := api.Group(RouteGroupAuth, RequireRole(journal.RoleAdmin))
	{
		usersGroup.GET(SubRouteUsers, h.ListUsers)
		usersGroup.POST(SubRouteUsers, h.CreateUser)
		usersGroup.PUT(SubRouteUserID, h.UpdateUser)
		usersGroup.DELETE(SubRouteUserID, h.DeleteUser)
	}
}

// Login authenticates an operator and issues a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, MsgInvalidRequestBody+err.Error())
		return
	}

	resp, err := h.service.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			render.Unauthorized(c, MsgLoginFailed)
			return
		}
		render.InternalServerError(c, err.Error())
		return
	}
	render.OK(c, resp)
}

// ListUsers returns every operator account.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers()
	if err != nil {
		render.InternalServerError(c, MsgFailedToList+err.Error())
		return
	}
	render.OK(c, users)
}

// CreateUser registers a new operator account.
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var dto service.UserWriteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		render.BadRequest(c, MsgInvalidRequestBody+err.Error())
		return
	}

	user, err := h.service.CreateUser(&dto)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			render.BadRequest(c, MsgUsernameTaken)
			return
		}
		render.InternalServerError(c, MsgFailedToCreate+err.Error())
		return
	}
	render.OK(c, user)
}

// UpdateUser edits an operator account.
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), Base10, BitSize64)
	if err != nil {
		render.BadRequest(c, MsgInvalidIDFormat)
		return
	}

	var dto service.UserWriteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		render.BadRequest(c, MsgInvalidRequestBody+err.Error())
		return
	}

	user, err := h.service.UpdateUser(id, &dto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.NotFound(c, MsgUserNotFound)
			return
		}
		render.InternalServerError(c, MsgFailedToUpdate+err.Error())
		return
	}
	render.OK(c, user)
}

// DeleteUser removes an operator account.
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), Base10, BitSize64)
	if err != nil {
		render.BadRequest(c, MsgInvalidIDFormat)
		return
	}

	if err := h.service.DeleteUser(id); err != nil {
		render.InternalServerError(c, MsgFailedToDelete+err.Error())
		return
	}
	render.Success(c)
}
