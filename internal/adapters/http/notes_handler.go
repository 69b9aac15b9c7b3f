package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/daytrack/core/internal/application/services"
	"github.com/daytrack/core/internal/infrastructure/logger"
	"github.com/daytrack/core/internal/ports"
)

// NotesHandler handles the plain scratchpad and rich note requests
type NotesHandler struct {
	notesService *services.NotesService
	logger       *logger.Logger
}

// NewNotesHandler creates a new notes handler
func NewNotesHandler(notesService *services.NotesService, logger *logger.Logger) *NotesHandler {
	return &NotesHandler{
		notesService: notesService,
		logger:       logger,
	}
}

// GetNote returns the scratchpad body
func (h *NotesHandler) GetNote(c echo.Context) error {
	owner := getUserIDFromContext(c)

	body, err := h.notesService.Note(c.Request().Context(), owner)
	if err != nil {
		return h.fail(c, "Get note failed", owner, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"body": body})
}

// UpdateNote replaces the scratchpad body. Persistence is debounced; the
// response acknowledges the cache write, not the store write.
func (h *NotesHandler) UpdateNote(c echo.Context) error {
	owner := getUserIDFromContext(c)

	var req ports.SaveNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.notesService.ChangeNote(c.Request().Context(), owner, req.Body); err != nil {
		return h.fail(c, "Update note failed", owner, err)
	}

	return c.JSON(http.StatusAccepted, ports.MessageResponse{Message: "Note accepted"})
}

// ListRichNoteSections lists sections holding a rich document
func (h *NotesHandler) ListRichNoteSections(c echo.Context) error {
	owner := getUserIDFromContext(c)

	sections, err := h.notesService.RichNoteSections(c.Request().Context(), owner)
	if err != nil {
		return h.fail(c, "List rich note sections failed", owner, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"sections": sections})
}

// GetRichNote returns a section's markdown
func (h *NotesHandler) GetRichNote(c echo.Context) error {
	owner := getUserIDFromContext(c)
	section := c.Param("section")

	markdown, err := h.notesService.RichNote(c.Request().Context(), owner, section)
	if err != nil {
		return h.fail(c, "Get rich note failed", owner, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"section":  section,
		"markdown": markdown,
	})
}

// UpdateRichNote replaces a section's markdown with debounced persistence
func (h *NotesHandler) UpdateRichNote(c echo.Context) error {
	owner := getUserIDFromContext(c)
	section := c.Param("section")

	var req ports.SaveRichNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.notesService.ChangeRichNote(c.Request().Context(), owner, section, req.Markdown); err != nil {
		return h.fail(c, "Update rich note failed", owner, err)
	}

	return c.JSON(http.StatusAccepted, ports.MessageResponse{Message: "Rich note accepted"})
}

// SaveRichNote flushes a section's pending content immediately
func (h *NotesHandler) SaveRichNote(c echo.Context) error {
	owner := getUserIDFromContext(c)
	section := c.Param("section")

	result, err := h.notesService.SaveRichNote(c.Request().Context(), owner, section)
	if err != nil {
		return h.fail(c, "Save rich note failed", owner, err)
	}

	return c.JSON(http.StatusOK, result)
}

// DeleteRichNote removes a section's rich document
func (h *NotesHandler) DeleteRichNote(c echo.Context) error {
	owner := getUserIDFromContext(c)
	section := c.Param("section")

	if err := h.notesService.DeleteRichNoteSection(c.Request().Context(), owner, section); err != nil {
		return h.fail(c, "Delete rich note failed", owner, err)
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Rich note deleted"})
}

func (h *NotesHandler) fail(c echo.Context, msg string, owner uuid.UUID, err error) error {
	if status, text, ok := domainStatus(err); ok {
		return echo.NewHTTPError(status, text)
	}
	h.logger.Errorw(msg, "error", err, "user_id", owner.String())
	return echo.NewHTTPError(http.StatusInternalServerError, msg)
}
