package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/daytrack/core/internal/application/services"
	"github.com/daytrack/core/internal/application/state"
	"github.com/daytrack/core/internal/domain/entities"
	"github.com/daytrack/core/internal/infrastructure/logger"
	"github.com/daytrack/core/internal/ports"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService  *services.AuthService
	notesService *services.NotesService
	state        *state.Manager
	logger       *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, notesService *services.NotesService, stateManager *state.Manager, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		notesService: notesService,
		state:        stateManager,
		logger:       logger,
	}
}

// Register handles account creation
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrUserExists) {
			return echo.NewHTTPError(http.StatusConflict, "Account already exists")
		}
		h.logger.Errorw("Registration failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusInternalServerError, "Registration failed")
	}

	return c.JSON(http.StatusCreated, response)
}

// Login handles user login
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Login failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, response)
}

// Logout flushes pending autosaves and drops the user's cached session.
func (h *AuthHandler) Logout(c echo.Context) error {
	owner := getUserIDFromContext(c)
	if owner == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	h.notesService.Evict(c.Request().Context(), owner)
	h.state.Evict(owner)

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Logged out successfully"})
}

// getUserIDFromContext reads the user id the auth middleware stored.
func getUserIDFromContext(c echo.Context) uuid.UUID {
	user := c.Get("user")
	if user == nil {
		return uuid.Nil
	}

	if userStr, ok := user.(string); ok {
		userID, _ := uuid.Parse(userStr)
		return userID
	}

	return uuid.Nil
}

// domainStatus maps sentinel errors to HTTP status codes. Unrecognized
// errors fall through to 500.
func domainStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, entities.ErrNotAuthenticated):
		return http.StatusUnauthorized, "Not authenticated", true
	case errors.Is(err, entities.ErrTaskNotFound):
		return http.StatusNotFound, "Task not found", true
	case errors.Is(err, entities.ErrSectionNotFound):
		return http.StatusNotFound, "Section not found", true
	case errors.Is(err, entities.ErrSectionBuiltIn):
		return http.StatusUnprocessableEntity, "Built-in sections cannot be deleted", true
	case errors.Is(err, entities.ErrEmptyText):
		return http.StatusUnprocessableEntity, "Task text cannot be empty", true
	case errors.Is(err, entities.ErrEmptySectionName):
		return http.StatusUnprocessableEntity, "Section name cannot be empty", true
	case errors.Is(err, entities.ErrInvalidTheme):
		return http.StatusUnprocessableEntity, "Unknown theme", true
	}
	return 0, "", false
}
