package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shortkey/internal/service"
)

type AdminController struct {
	adminService service.AdminService
	authService  service.AuthService
}

func NewAdminController(adminService service.AdminService, authService service.AuthService) *AdminController {
	return &AdminController{
		adminService: adminService,
		authService:  authService,
	}
}

// requireAdmin returns the caller's id if the caller is an authenticated
// admin; otherwise it writes the response and reports failure.
func (ac *AdminController) requireAdmin(c *gin.Context) (int64, bool) {
	userID, ok := requireCaller(c)
	if !ok {
		return 0, false
	}

	user, err := ac.authService.GetUser(c.Request.Context(), userID)
	if err != nil || !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return 0, false
	}

	return userID, true
}

// ListUsers handles GET /api/v1/admin/users
func (ac *AdminController) ListUsers(c *gin.Context) {
	if _, ok := ac.requireAdmin(c); !ok {
		return
	}

	users, err := ac.adminService.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// DeleteUser handles DELETE /api/v1/admin/users/:id
func (ac *AdminController) DeleteUser(c *gin.Context) {
	callerID, ok := ac.requireAdmin(c)
	if !ok {
		return
	}

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	err = ac.adminService.DeleteUser(c.Request.Context(), callerID, targetID)
	switch {
	case errors.Is(err, service.ErrSelfDelete):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Admins may not delete themselves"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
	default:
		c.Status(http.StatusNoContent)
	}
}
