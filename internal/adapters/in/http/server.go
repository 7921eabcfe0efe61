// Package http exposes the dispatch coordination API over REST.
package http

import (
	"errors"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/recipient"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the JSON error body returned by every failing endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server implements the HTTP handlers for the dispatch coordination API.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createDispatchHandler     commands.CreateDispatchCommandHandler
	assignDriversHandler      commands.AssignDriversCommandHandler
	updateDriverStatusHandler commands.UpdateDriverStatusCommandHandler
	sendBulkHandler           commands.SendBulkNotificationsCommandHandler
	updatePushTokenHandler    commands.UpdatePushTokenCommandHandler

	// Query handlers
	getActiveDispatchesHandler    queries.GetActiveDispatchesQueryHandler
	getUnreadNotificationsHandler queries.GetUnreadNotificationsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createDispatchHandler commands.CreateDispatchCommandHandler,
	assignDriversHandler commands.AssignDriversCommandHandler,
	updateDriverStatusHandler commands.UpdateDriverStatusCommandHandler,
	sendBulkHandler commands.SendBulkNotificationsCommandHandler,
	updatePushTokenHandler commands.UpdatePushTokenCommandHandler,
	getActiveDispatchesHandler queries.GetActiveDispatchesQueryHandler,
	getUnreadNotificationsHandler queries.GetUnreadNotificationsQueryHandler,
) *Server {
	return &Server{
		createDispatchHandler:         createDispatchHandler,
		assignDriversHandler:          assignDriversHandler,
		updateDriverStatusHandler:     updateDriverStatusHandler,
		sendBulkHandler:               sendBulkHandler,
		updatePushTokenHandler:        updatePushTokenHandler,
		getActiveDispatchesHandler:    getActiveDispatchesHandler,
		getUnreadNotificationsHandler: getUnreadNotificationsHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo, apiToken string) {
	v1 := e.Group("/api/v1", BearerAuth(apiToken))

	v1.POST("/dispatches", s.CreateDispatch)
	v1.GET("/dispatches/active", s.GetActiveDispatches)
	v1.POST("/dispatches/:dispatchId/drivers", s.AssignDrivers)
	v1.POST("/dispatches/:dispatchId/drivers/:driverId/status", s.UpdateDriverStatus)

	v1.POST("/notifications/bulk", s.SendBulkNotifications)
	v1.GET("/notifications/unread", s.GetUnreadNotifications)

	v1.PUT("/push-tokens", s.UpdatePushToken)
}

// BearerAuth rejects requests whose Authorization header does not carry the
// configured API token. An empty configured token locks the API down
// entirely rather than matching the bare "Bearer " header.
func BearerAuth(apiToken string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if apiToken == "" ||
				ctx.Request().Header.Get("Authorization") != "Bearer "+apiToken {
				return ctx.JSON(http.StatusUnauthorized, Error{
					Code:    http.StatusUnauthorized,
					Message: errs.ErrUnauthenticated.Error(),
				})
			}
			return next(ctx)
		}
	}
}

// errorResponse maps domain errors onto HTTP status codes.
func errorResponse(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	}

	return ctx.JSON(code, Error{Code: code, Message: err.Error()})
}

type createDispatchRequest struct {
	ExternalRef string `json:"externalRef"`
	CustomerID  string `json:"customerId"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type createDispatchResponse struct {
	ID string `json:"id"`
}

// CreateDispatch handles POST /api/v1/dispatches - registers a new dispatch.
func (s *Server) CreateDispatch(ctx echo.Context) error {
	var req createDispatchRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	source, err := kernel.NewAddress(req.Source)
	if err != nil {
		return errorResponse(ctx, err)
	}
	destination, err := kernel.NewAddress(req.Destination)
	if err != nil {
		return errorResponse(ctx, err)
	}

	dispatchID := kernel.NewUUID()
	cmd, err := commands.NewCreateDispatchCommand(
		dispatchID, req.ExternalRef, req.CustomerID, source, destination)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.createDispatchHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createDispatchResponse{ID: dispatchID.String()})
}

type assignDriversRequest struct {
	DriverIDs []string `json:"driverIds"`
}

// AssignDrivers handles POST /api/v1/dispatches/:dispatchId/drivers -
// assigns a set of drivers to the dispatch.
func (s *Server) AssignDrivers(ctx echo.Context) error {
	dispatchID, err := kernel.UUIDFromString(ctx.Param("dispatchId"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	var req assignDriversRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	driverIDs := make([]kernel.UUID, 0, len(req.DriverIDs))
	for _, raw := range req.DriverIDs {
		driverID, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return errorResponse(ctx, idErr)
		}
		driverIDs = append(driverIDs, driverID)
	}

	cmd, err := commands.NewAssignDriversCommand(dispatchID, driverIDs)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.assignDriversHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type updateDriverStatusRequest struct {
	Status string `json:"status"`
}

type assignmentResponse struct {
	DispatchID  string     `json:"dispatchId"`
	DriverID    string     `json:"driverId"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// UpdateDriverStatus handles POST /api/v1/dispatches/:dispatchId/drivers/:driverId/status -
// sets one driver's assignment status and returns the updated assignment.
func (s *Server) UpdateDriverStatus(ctx echo.Context) error {
	dispatchID, err := kernel.UUIDFromString(ctx.Param("dispatchId"))
	if err != nil {
		return errorResponse(ctx, err)
	}
	driverID, err := kernel.UUIDFromString(ctx.Param("driverId"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	var req updateDriverStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	status, err := dispatch.StatusFromString(req.Status)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewUpdateDriverStatusCommand(dispatchID, driverID, status)
	if err != nil {
		return errorResponse(ctx, err)
	}

	record, err := s.updateDriverStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, assignmentResponse{
		DispatchID:  record.DispatchID.String(),
		DriverID:    record.DriverID.String(),
		Status:      record.Status.String(),
		StartedAt:   record.StartedAt,
		CompletedAt: record.CompletedAt,
		UpdatedAt:   record.UpdatedAt,
	})
}

type bulkRecipientRequest struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type sendBulkRequest struct {
	Recipients []bulkRecipientRequest `json:"recipients"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	Type       string                 `json:"type"`
	Priority   string                 `json:"priority"`
}

type bulkResultResponse struct {
	RecipientKind string `json:"recipientKind"`
	RecipientID   string `json:"recipientId"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
}

type bulkReportResponse struct {
	TotalSent   int                  `json:"totalSent"`
	TotalFailed int                  `json:"totalFailed"`
	Results     []bulkResultResponse `json:"results"`
}

// SendBulkNotifications handles POST /api/v1/notifications/bulk - sends an
// ad-hoc notification to each listed driver and customer.
func (s *Server) SendBulkNotifications(ctx echo.Context) error {
	var req sendBulkRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	recipients := make([]commands.BulkRecipient, 0, len(req.Recipients))
	for _, r := range req.Recipients {
		kind, kindErr := recipient.KindFromString(r.Kind)
		if kindErr != nil {
			return errorResponse(ctx, kindErr)
		}
		id, idErr := kernel.UUIDFromString(r.ID)
		if idErr != nil {
			return errorResponse(ctx, idErr)
		}
		recipients = append(recipients, commands.BulkRecipient{Kind: kind, ID: id})
	}

	cmd, err := commands.NewSendBulkNotificationsCommand(
		recipients, req.Title, req.Message, req.Type, req.Priority)
	if err != nil {
		return errorResponse(ctx, err)
	}

	report, err := s.sendBulkHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := bulkReportResponse{
		TotalSent:   report.TotalSent,
		TotalFailed: report.TotalFailed,
		Results:     make([]bulkResultResponse, len(report.Results)),
	}
	for i, result := range report.Results {
		response.Results[i] = bulkResultResponse{
			RecipientKind: result.RecipientKind,
			RecipientID:   result.RecipientID,
			Success:       result.Success,
			Error:         result.Error,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

type updatePushTokenRequest struct {
	UserType string `json:"userType"`
	UserID   string `json:"userId"`
	Token    string `json:"token"`
}

// UpdatePushToken handles PUT /api/v1/push-tokens - registers or replaces a
// driver's or customer's device token.
func (s *Server) UpdatePushToken(ctx echo.Context) error {
	var req updatePushTokenRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewUpdatePushTokenCommand(req.UserType, userID, req.Token)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.updatePushTokenHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]bool{"success": true})
}

type activeDispatchResponse struct {
	ID          string    `json:"id"`
	ExternalRef string    `json:"externalRef"`
	CustomerID  string    `json:"customerId"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Status      string    `json:"status"`
	DriverCount int       `json:"driverCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GetActiveDispatches handles GET /api/v1/dispatches/active - retrieves all
// dispatches that are not yet completed.
func (s *Server) GetActiveDispatches(ctx echo.Context) error {
	query := queries.NewGetActiveDispatchesQuery()

	dispatches, err := s.getActiveDispatchesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve dispatches",
		})
	}

	response := make([]activeDispatchResponse, len(dispatches))
	for i, d := range dispatches {
		response[i] = activeDispatchResponse{
			ID:          d.ID.String(),
			ExternalRef: d.ExternalRef,
			CustomerID:  d.CustomerID,
			Source:      d.Source,
			Destination: d.Destination,
			Status:      d.Status,
			DriverCount: d.DriverCount,
			CreatedAt:   d.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

type unreadNotificationResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	DispatchID *string   `json:"dispatchId,omitempty"`
	Priority   string    `json:"priority"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GetUnreadNotifications handles GET /api/v1/notifications/unread - retrieves
// a recipient's unread in-app feed. The recipient is identified by the kind
// and recipientId query parameters; the admin feed uses kind=admin without
// a recipientId.
func (s *Server) GetUnreadNotifications(ctx echo.Context) error {
	kind, err := recipient.KindFromString(ctx.QueryParam("kind"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	var target recipient.Ref
	if kind == recipient.AdminBroadcastKind {
		target = recipient.NewAdminBroadcastRef()
	} else {
		recipientID, idErr := kernel.UUIDFromString(ctx.QueryParam("recipientId"))
		if idErr != nil {
			return errorResponse(ctx, idErr)
		}
		if kind == recipient.DriverKind {
			target, err = recipient.NewDriverRef(recipientID)
		} else {
			target, err = recipient.NewCustomerRef(recipientID)
		}
		if err != nil {
			return errorResponse(ctx, err)
		}
	}

	query, err := queries.NewGetUnreadNotificationsQuery(target)
	if err != nil {
		return errorResponse(ctx, err)
	}

	notifications, err := s.getUnreadNotificationsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve notifications",
		})
	}

	response := make([]unreadNotificationResponse, len(notifications))
	for i, n := range notifications {
		var dispatchID *string
		if n.DispatchID != nil {
			idStr := n.DispatchID.String()
			dispatchID = &idStr
		}

		response[i] = unreadNotificationResponse{
			ID:         n.ID.String(),
			Type:       n.Type,
			Title:      n.Title,
			Message:    n.Message,
			DispatchID: dispatchID,
			Priority:   n.Priority,
			CreatedAt:  n.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}
