package routers

// Route path constants.
const (
	RouteGroupAuth        = "/auth"
	RouteGroupEvents      = "/events"
	RouteGroupSubstations = "/substations"
	RouteGroupCells       = "/cells"
	RouteGroupLines       = "/lines"
	RouteGroupTps         = "/tps"

	RouteParamID = "/:id"

	SubRouteLogin  = "/login"
	SubRouteUsers  = "/users"
	SubRouteUserID = "/users/:id"

	RouteReferenceData  = "/reference-data"
	RouteAnalytics      = "/analytics"
	RouteReports        = "/reports"
	RouteDeadlineWatch  = "/reports/deadline-watch"
	RouteTopologySwitch = "/topology/switch"

	SubRouteExport = "/export"
)

// Parameter name constants.
const (
	ParamID     = "id"
	ParamPreset = "preset"

	Base10    = 10
	BitSize64 = 64
)

// Context keys.
const (
	ClaimsContextKey = "claims"
)

// Response message constants.
const (
	MsgInvalidIDFormat    = "invalid id format"
	MsgInvalidRequestBody = "invalid request body: "
	MsgInvalidQueryParams = "invalid query parameters: "

	MsgMissingToken      = "missing authorization token"
	MsgInvalidToken      = "invalid or expired token"
	MsgInsufficientRole  = "insufficient permissions"
	MsgEventNotFound     = "event not found"
	MsgUserNotFound      = "user not found"
	MsgUsernameTaken     = "username already exists"
	MsgLoginFailed       = "invalid username or password"
	MsgFailedToList      = "failed to list: "
	MsgFailedToGet       = "failed to get: "
	MsgFailedToCreate    = "failed to create: "
	MsgFailedToUpdate    = "failed to update: "
	MsgFailedToDelete    = "failed to delete: "
	MsgFailedToExport    = "failed to export: "
	MsgFailedToSwitch    = "failed to switch topology: "
	MsgFailedToCompute   = "failed to compute analytics: "
	MsgFailedToBuildRepo = "failed to build report: "
)

// Header and content type constants.
const (
	HeaderContentDisposition = "Content-Disposition"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
