package handlers

import (
	"errors"
	"net/http"

	"github.com/fitsync/fitsync/internal/constants"
	"github.com/fitsync/fitsync/internal/dto"
	apierrors "github.com/fitsync/fitsync/internal/errors"
	"github.com/fitsync/fitsync/internal/services"
	"github.com/fitsync/fitsync/internal/utils"
	"github.com/gin-gonic/gin"
)

// AdminHandler coordinates admin reporting and account management handlers.
// All routes are mounted behind RequireAdmin.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListUsers returns a page of accounts with optional search.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c, constants.AdminPageSize)

	users, total, err := h.adminService.ListUsers(c.Query("search"), params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      dto.ToUserDTOs(users),
		"pagination": paginationMeta(params, total),
	})
}

// DeleteUser removes an account and cascades over its owned data.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User and all their data deleted",
	})
}

// Overview returns dashboard totals and breakdowns.
func (h *AdminHandler) Overview(c *gin.Context) {
	stats, err := h.adminService.Overview()
	if err != nil {
		apierrors.InternalError(c, "Failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListWorkouts returns a page of all workouts.
func (h *AdminHandler) ListWorkouts(c *gin.Context) {
	params := utils.GetPaginationParams(c, constants.AdminPageSize)

	workouts, total, err := h.adminService.ListWorkouts(params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch workouts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workouts":   dto.ToAdminWorkoutDTOs(workouts),
		"pagination": paginationMeta(params, total),
	})
}

// ListConnections returns a page of all connections.
func (h *AdminHandler) ListConnections(c *gin.Context) {
	params := utils.GetPaginationParams(c, constants.AdminPageSize)

	conns, total, err := h.adminService.ListConnections(params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch connections")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connections": dto.ToConnectionDTOs(conns),
		"pagination":  paginationMeta(params, total),
	})
}

func paginationMeta(params utils.PaginationParams, total int64) utils.PaginationResponse {
	return utils.PaginationResponse{
		Page:  params.Page,
		Limit: params.Limit,
		Total: total,
		Pages: utils.TotalPages(total, params.Limit),
	}
}
