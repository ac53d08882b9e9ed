package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fitsync/fitsync/internal/dto"
	apierrors "github.com/fitsync/fitsync/internal/errors"
	"github.com/fitsync/fitsync/internal/middleware"
	"github.com/fitsync/fitsync/internal/services"
	"github.com/gin-gonic/gin"
)

// dateLayout is the wire format for workout dates.
const dateLayout = "2006-01-02"

// WorkoutHandler coordinates workout-log HTTP handlers.
type WorkoutHandler struct {
	workoutService *services.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService *services.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
	}
}

// ListWorkouts returns the caller's visible workouts: their own plus the
// ones they are tagged on as a training partner.
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	input := services.ListWorkoutsInput{
		UserID:      userID,
		MuscleGroup: c.Query("muscle_group"),
		Type:        c.Query("type"),
		Search:      c.Query("search"),
	}

	if raw := c.Query("date_from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			apierrors.Validation(c, "Invalid date_from")
			return
		}
		input.DateFrom = &from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			apierrors.Validation(c, "Invalid date_to")
			return
		}
		input.DateTo = &to
	}
	if raw := c.Query("max_duration"); raw != "" {
		max, err := strconv.Atoi(raw)
		if err != nil {
			apierrors.Validation(c, "Invalid max_duration")
			return
		}
		input.MaxDuration = &max
	}

	workouts, err := h.workoutService.List(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch workouts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workouts": dto.ToWorkoutDTOs(workouts, userID),
	})
}

// WorkoutStats returns aggregates over the caller's visible workouts.
func (h *WorkoutHandler) WorkoutStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	stats, err := h.workoutService.Stats(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute workout stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetWorkout returns a single visible workout.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	workoutID, ok := parseIDParam(c)
	if !ok {
		return
	}

	workout, err := h.workoutService.Get(userID, workoutID)
	if err != nil {
		respondWorkoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkoutDTO(*workout, userID))
}

// CreateWorkout logs a new workout for the caller.
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	type CreateWorkoutRequest struct {
		Date                 string                   `json:"date" binding:"required"`
		MuscleGroup          string                   `json:"muscle_group" binding:"required"`
		Type                 string                   `json:"type" binding:"required"`
		DurationMinutes      int                      `json:"duration_minutes" binding:"required"`
		Notes                string                   `json:"notes"`
		Exercises            []services.ExerciseInput `json:"exercises"`
		PartnerConnectionIDs []uint64                 `json:"partner_connection_ids"`
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Validation(c, "Date, muscle group, type and duration are required")
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		apierrors.Validation(c, "Invalid date")
		return
	}

	workout, err := h.workoutService.Create(services.CreateWorkoutInput{
		OwnerID:              userID,
		Date:                 date,
		MuscleGroup:          req.MuscleGroup,
		Type:                 req.Type,
		DurationMinutes:      req.DurationMinutes,
		Notes:                req.Notes,
		Exercises:            req.Exercises,
		PartnerConnectionIDs: req.PartnerConnectionIDs,
	})
	if err != nil {
		respondWorkoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkoutDTO(*workout, userID))
}

// UpdateWorkout edits a workout as owner or tagged partner. Tag changes from
// non-owners are dropped by the service.
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	workoutID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateWorkoutRequest struct {
		Date                 *string                   `json:"date"`
		MuscleGroup          *string                   `json:"muscle_group"`
		Type                 *string                   `json:"type"`
		DurationMinutes      *int                      `json:"duration_minutes"`
		Notes                *string                   `json:"notes"`
		Exercises            *[]services.ExerciseInput `json:"exercises"`
		PartnerConnectionIDs *[]uint64                 `json:"partner_connection_ids"`
	}

	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Validation(c, "")
		return
	}

	input := services.UpdateWorkoutInput{
		MuscleGroup:          req.MuscleGroup,
		Type:                 req.Type,
		DurationMinutes:      req.DurationMinutes,
		Notes:                req.Notes,
		Exercises:            req.Exercises,
		PartnerConnectionIDs: req.PartnerConnectionIDs,
	}

	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			apierrors.Validation(c, "Invalid date")
			return
		}
		input.Date = &date
	}

	workout, err := h.workoutService.Update(userID, workoutID, input)
	if err != nil {
		respondWorkoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkoutDTO(*workout, userID))
}

// DeleteWorkout removes a workout for owner and all tagged partners.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	workoutID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.workoutService.Delete(userID, workoutID); err != nil {
		respondWorkoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Workout deleted for everyone",
	})
}

func respondWorkoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingWorkoutFields),
		errors.Is(err, services.ErrInvalidPartnerTag):
		apierrors.Validation(c, err.Error())
	case errors.Is(err, services.ErrDuplicateWorkout):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrWorkoutNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrWorkoutAccessDenied):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
