package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fitsync/fitsync/internal/dto"
	apierrors "github.com/fitsync/fitsync/internal/errors"
	"github.com/fitsync/fitsync/internal/middleware"
	"github.com/fitsync/fitsync/internal/repository"
	"github.com/fitsync/fitsync/internal/services"
	"github.com/gin-gonic/gin"
)

// ConnectionHandler coordinates training-partner HTTP handlers.
type ConnectionHandler struct {
	connectionService *services.ConnectionService
}

// NewConnectionHandler creates a new ConnectionHandler.
func NewConnectionHandler(connectionService *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
	}
}

// ListConnections returns the caller's connections with optional filters.
func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	conns, err := h.connectionService.List(repository.ConnectionFilter{
		OwnerID:       userID,
		Gym:           c.Query("gym"),
		TrainingStyle: c.Query("training_style"),
		HowMet:        c.Query("how_met"),
		Search:        c.Query("search"),
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch connections")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connections": dto.ToConnectionDTOs(conns),
	})
}

// ConnectionStats returns grouped counts over the caller's ledger.
func (h *ConnectionHandler) ConnectionStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	stats, err := h.connectionService.Stats(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute connection stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// LookupUser validates a prospective connection by email before adding.
func (h *ConnectionHandler) LookupUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	target, err := h.connectionService.Lookup(userID, c.Query("email"))
	if err != nil {
		respondConnectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*target))
}

// GetConnection returns one connection with the workouts that tag it.
func (h *ConnectionHandler) GetConnection(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	connID, ok := parseIDParam(c)
	if !ok {
		return
	}

	conn, workouts, err := h.connectionService.Get(userID, connID)
	if err != nil {
		respondConnectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connection": dto.ToConnectionDTO(*conn),
		"workouts":   dto.ToWorkoutDTOs(workouts, userID),
	})
}

// CreateConnection adds a connection and mirrors it to the other account.
func (h *ConnectionHandler) CreateConnection(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	type CreateConnectionRequest struct {
		Email         string `json:"email" binding:"required"`
		Gym           string `json:"gym" binding:"required"`
		TrainingStyle string `json:"training_style" binding:"required"`
		HowMet        string `json:"how_met"`
		Notes         string `json:"notes"`
	}

	var req CreateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Validation(c, "Email, gym and training style are required")
		return
	}

	conn, err := h.connectionService.Add(services.AddConnectionInput{
		InitiatorID:   userID,
		Email:         req.Email,
		Gym:           req.Gym,
		TrainingStyle: req.TrainingStyle,
		HowMet:        req.HowMet,
		Notes:         req.Notes,
	})
	if err != nil {
		respondConnectionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToConnectionDTO(*conn))
}

// UpdateConnection changes the caller's annotations on a connection.
func (h *ConnectionHandler) UpdateConnection(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	connID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateConnectionRequest struct {
		Gym           *string `json:"gym"`
		TrainingStyle *string `json:"training_style"`
		HowMet        *string `json:"how_met"`
		Notes         *string `json:"notes"`
	}

	var req UpdateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Validation(c, "")
		return
	}

	conn, err := h.connectionService.Update(userID, connID, services.UpdateConnectionInput{
		Gym:           req.Gym,
		TrainingStyle: req.TrainingStyle,
		HowMet:        req.HowMet,
		Notes:         req.Notes,
	})
	if err != nil {
		respondConnectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToConnectionDTO(*conn))
}

// DeleteConnection removes both sides of a relationship.
func (h *ConnectionHandler) DeleteConnection(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	connID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.connectionService.Remove(userID, connID); err != nil {
		respondConnectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Connection removed for both users",
	})
}

func respondConnectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingConnectionFields),
		errors.Is(err, services.ErrMissingLookupEmail):
		apierrors.Validation(c, err.Error())
	case errors.Is(err, services.ErrSelfConnection):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrAlreadyConnected):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrTargetUserNotFound),
		errors.Is(err, services.ErrConnectionNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

// parseIDParam parses the :id URL parameter, responding with a validation
// error on malformed input.
func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.Validation(c, "Invalid ID")
		return 0, false
	}
	return id, true
}
