// Package http exposes the shipments service over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/envioslab/shipment-api/internal/domains/shipments/adapters/http/mapper"
	"github.com/envioslab/shipment-api/internal/domains/shipments/application"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
	apierrors "github.com/envioslab/shipment-api/internal/shared/errors"
)

// ActorFunc extracts the authenticated caller from the request context. The
// second return is false when the request carries no identity.
type ActorFunc func(c *gin.Context) (ports.Actor, bool)

// ShipmentAPI wires HTTP transport with the shipments service.
type ShipmentAPI struct {
	service ports.Service
	actor   ActorFunc
	respond *apierrors.ChainedResponder
}

// NewShipmentAPI creates a ShipmentAPI backed by the provided service.
func NewShipmentAPI(service ports.Service, actor ActorFunc) *ShipmentAPI {
	mapper.RegisterValidations()
	return &ShipmentAPI{
		service: service,
		actor:   actor,
		respond: apierrors.NewChainedResponder("", serviceErrorMapper),
	}
}

// Register mounts the shipment routes. The auth middleware must populate the
// identity the ActorFunc reads; admin additionally rejects non-admin callers.
func (api *ShipmentAPI) Register(r gin.IRouter, auth, admin gin.HandlerFunc) {
	shipments := r.Group("/shipments", auth)
	shipments.POST("", api.CreateShipment)
	shipments.GET("", admin, api.ListShipments)
	shipments.GET("/pending", admin, api.PendingShipments)
	shipments.GET("/:shipmentId/status", api.GetShipmentStatus)
	shipments.GET("/:shipmentId/history", api.GetShipmentStatusHistory)
	shipments.POST("/:shipmentId/status", admin, api.UpdateShipmentStatus)

	// Tracking lookups are public: the code itself is the credential.
	tracking := r.Group("/shipments/tracking")
	tracking.GET("/:code/status", api.TrackStatus)
	tracking.GET("/:code/history", api.TrackHistory)

	assignments := r.Group("/assignments", auth, admin)
	assignments.POST("", api.AssignShipment)
	assignments.POST("/:assignmentId/complete", api.CompleteAssignment)

	r.GET("/transporters/available", auth, admin, api.AvailableTransporters)
	r.GET("/routes", auth, admin, api.AvailableRoutes)
}

// Post /shipments
// Register a new shipment owned by the caller
func (api *ShipmentAPI) CreateShipment(c *gin.Context) {
	actor, ok := api.requireActor(c)
	if !ok {
		return
	}
	var payload mapper.CreateShipmentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respond.BadRequest(c, err.Error())
		return
	}
	shipment, err := api.service.CreateShipment(c.Request.Context(), mapper.ToCreateInput(actor.UserID, payload))
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromShipment(shipment))
}

// Post /assignments
// Assign a shipment to a route, optionally reserving transporter capacity
func (api *ShipmentAPI) AssignShipment(c *gin.Context) {
	actor, ok := api.requireActor(c)
	if !ok {
		return
	}
	var payload mapper.AssignShipmentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respond.BadRequest(c, err.Error())
		return
	}
	assignment, err := api.service.AssignShipmentToRoute(c.Request.Context(), mapper.ToAssignInput(actor.UserID, payload))
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromAssignment(assignment))
}

// Post /shipments/:shipmentId/status
// Apply a status transition
func (api *ShipmentAPI) UpdateShipmentStatus(c *gin.Context) {
	actor, ok := api.requireActor(c)
	if !ok {
		return
	}
	id, ok := api.parseIDParam(c, "shipmentId")
	if !ok {
		return
	}
	var payload mapper.UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respond.BadRequest(c, err.Error())
		return
	}
	record, err := api.service.UpdateShipmentStatus(c.Request.Context(), ports.UpdateStatusInput{
		ShipmentID: id,
		NewStatus:  payload.Status,
		AdminID:    actor.UserID,
		Comment:    payload.Comment,
	})
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromStatusView(&ports.StatusView{Record: record}))
}

// Post /assignments/:assignmentId/complete
// Close a pending assignment
func (api *ShipmentAPI) CompleteAssignment(c *gin.Context) {
	id, ok := api.parseIDParam(c, "assignmentId")
	if !ok {
		return
	}
	assignment, err := api.service.CompleteAssignment(c.Request.Context(), id)
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromAssignment(assignment))
}

// Get /shipments
// List shipments, optionally filtered by current status
func (api *ShipmentAPI) ListShipments(c *gin.Context) {
	shipments, err := api.service.ListShipments(c.Request.Context(), c.Query("status"))
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromShipmentList(shipments))
}

// Get /shipments/pending
// List shipments waiting for a route assignment
func (api *ShipmentAPI) PendingShipments(c *gin.Context) {
	shipments, err := api.service.PendingShipments(c.Request.Context())
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromShipmentList(shipments))
}

// Get /shipments/:shipmentId/status
// Current status of a shipment the caller may see
func (api *ShipmentAPI) GetShipmentStatus(c *gin.Context) {
	actor, ok := api.requireActor(c)
	if !ok {
		return
	}
	id, ok := api.parseIDParam(c, "shipmentId")
	if !ok {
		return
	}
	view, err := api.service.GetShipmentStatus(c.Request.Context(), id, actor)
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromStatusView(view))
}

// Get /shipments/:shipmentId/history
// Full status trail of a shipment the caller may see
func (api *ShipmentAPI) GetShipmentStatusHistory(c *gin.Context) {
	actor, ok := api.requireActor(c)
	if !ok {
		return
	}
	id, ok := api.parseIDParam(c, "shipmentId")
	if !ok {
		return
	}
	view, err := api.service.GetShipmentStatusHistory(c.Request.Context(), id, actor)
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromHistoryView(view))
}

// Get /shipments/tracking/:code/status
// Current status by tracking code
func (api *ShipmentAPI) TrackStatus(c *gin.Context) {
	view, err := api.service.TrackStatus(c.Request.Context(), c.Param("code"))
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromStatusView(view))
}

// Get /shipments/tracking/:code/history
// Status history by tracking code
func (api *ShipmentAPI) TrackHistory(c *gin.Context) {
	view, err := api.service.TrackHistory(c.Request.Context(), c.Param("code"))
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromHistoryView(view))
}

// Get /transporters/available
// Transporters able to take new load
func (api *ShipmentAPI) AvailableTransporters(c *gin.Context) {
	var minCapacity int64
	if raw := c.Query("min_capacity"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			api.respond.BadRequest(c, "min_capacity must be a non-negative integer")
			return
		}
		minCapacity = parsed
	}
	transporters, err := api.service.AvailableTransporters(c.Request.Context(), minCapacity)
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromTransporterList(transporters))
}

// Get /routes
// Routes, optionally narrowed by origin and destination
func (api *ShipmentAPI) AvailableRoutes(c *gin.Context) {
	var filter ports.RouteFilter
	if raw := c.Query("origin_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			api.respond.BadRequest(c, "origin_id must be an integer")
			return
		}
		filter.OriginID = parsed
	}
	if raw := c.Query("destination_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			api.respond.BadRequest(c, "destination_id must be an integer")
			return
		}
		filter.DestinationID = parsed
	}
	routes, err := api.service.AvailableRoutes(c.Request.Context(), filter)
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromRouteList(routes))
}

func (api *ShipmentAPI) requireActor(c *gin.Context) (ports.Actor, bool) {
	if api.actor == nil {
		api.respond.Respond(c, apierrors.ErrUnauthorized)
		return ports.Actor{}, false
	}
	actor, ok := api.actor(c)
	if !ok {
		api.respond.Respond(c, apierrors.ErrUnauthorized)
		return ports.Actor{}, false
	}
	return actor, true
}

func (api *ShipmentAPI) parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		api.respond.BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// serviceErrorMapper translates use-case errors into problem responses.
// Business-rule violations are 400s, access checks 403, lookups 404.
func serviceErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrInvalidInput),
		errors.Is(err, application.ErrInvalidStatus),
		errors.Is(err, application.ErrInvalidTransition),
		errors.Is(err, application.ErrTransporterUnavailable),
		errors.Is(err, application.ErrInsufficientCapacity),
		errors.Is(err, application.ErrAlreadyAssigned):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrAccessDenied):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrShipmentNotFound),
		errors.Is(err, ports.ErrRouteNotFound),
		errors.Is(err, ports.ErrTransporterNotFound),
		errors.Is(err, ports.ErrAssignmentNotFound),
		errors.Is(err, ports.ErrNoStatusHistory):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
