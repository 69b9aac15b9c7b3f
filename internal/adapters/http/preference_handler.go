package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/daytrack/core/internal/application/services"
	"github.com/daytrack/core/internal/infrastructure/logger"
	"github.com/daytrack/core/internal/ports"
)

// PreferenceHandler handles user settings requests
type PreferenceHandler struct {
	prefService *services.PreferenceService
	logger      *logger.Logger
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(prefService *services.PreferenceService, logger *logger.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		prefService: prefService,
		logger:      logger,
	}
}

// GetPreferences returns the user's settings
func (h *PreferenceHandler) GetPreferences(c echo.Context) error {
	owner := getUserIDFromContext(c)

	prefs, err := h.prefService.Get(c.Request().Context(), owner)
	if err != nil {
		return h.fail(c, "Get preferences failed", owner, err)
	}

	return c.JSON(http.StatusOK, prefs)
}

// SetTheme switches the color theme
func (h *PreferenceHandler) SetTheme(c echo.Context) error {
	owner := getUserIDFromContext(c)

	var req ports.SetThemeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.prefService.SetTheme(c.Request().Context(), owner, req.Theme); err != nil {
		return h.fail(c, "Set theme failed", owner, err)
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Theme updated"})
}

func (h *PreferenceHandler) fail(c echo.Context, msg string, owner uuid.UUID, err error) error {
	if status, text, ok := domainStatus(err); ok {
		return echo.NewHTTPError(status, text)
	}
	h.logger.Errorw(msg, "error", err, "user_id", owner.String())
	return echo.NewHTTPError(http.StatusInternalServerError, msg)
}
