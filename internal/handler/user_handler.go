package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/dto"
	"reviewhub/internal/middleware"
	"reviewhub/internal/models"
	"reviewhub/internal/permissions"
	"reviewhub/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers user administration routes. The "me" profile
// routes share the :username position, so the split between self-service
// and admin access happens inside the handlers.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", middleware.Permit(permissions.AdminOnly{}), h.List)
		users.POST("", middleware.Permit(permissions.AdminOnly{}), h.Create)

		users.GET("/:username", h.GetByUsername)
		users.PATCH("/:username", h.Update)
		users.DELETE("/:username", h.Delete)
	}
}

// requireAdmin answers the request when the requester may not administer
// users; it returns the requester otherwise.
func requireAdmin(c *gin.Context) (*models.User, bool) {
	user := middleware.CurrentUser(c)
	if permissions.Has(user, permissions.CapManageUsers) {
		return user, true
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	} else {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	}
	return nil, false
}

func requireUser(c *gin.Context) (*models.User, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, false
	}
	return user, true
}

// List returns all users
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	result, err := h.userService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create registers a user on behalf of an admin
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReservedUsername):
			fieldError(c, "username", "this username is reserved")
		case errors.Is(err, service.ErrUsernameTaken):
			fieldError(c, "username", "username already in use")
		case errors.Is(err, service.ErrEmailTaken):
			fieldError(c, "email", "email already in use")
		case errors.Is(err, service.ErrInvalidRole):
			fieldError(c, "role", "invalid role")
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetByUsername returns a single user; "me" resolves to the requester
// GET /api/v1/users/:username
func (h *UserHandler) GetByUsername(c *gin.Context) {
	username := c.Param("username")

	if username == models.ReservedUsername {
		user, ok := requireUser(c)
		if !ok {
			return
		}
		resp := dto.UserResponseFromModel(user)
		c.JSON(http.StatusOK, resp)
		return
	}

	if _, ok := requireAdmin(c); !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update patches a user; "me" patches the requester's own profile
// PATCH /api/v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	username := c.Param("username")

	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	var (
		user *dto.UserResponse
		err  error
	)
	if username == models.ReservedUsername {
		requester, ok := requireUser(c)
		if !ok {
			return
		}
		user, err = h.userService.UpdateSelf(c.Request.Context(), requester, req)
	} else {
		if _, ok := requireAdmin(c); !ok {
			return
		}
		user, err = h.userService.Update(c.Request.Context(), username, req)
	}

	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrEmailTaken):
			fieldError(c, "email", "email already in use")
		case errors.Is(err, service.ErrInvalidRole):
			fieldError(c, "role", "invalid role")
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete removes a user; deleting "me" is not allowed
// DELETE /api/v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	username := c.Param("username")

	if username == models.ReservedUsername {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "cannot delete own account"})
		return
	}
	if _, ok := requireAdmin(c); !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), username); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}
