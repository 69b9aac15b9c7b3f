package http

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/daytrack/core/internal/application/services"
	"github.com/daytrack/core/internal/infrastructure/logger"
	"github.com/daytrack/core/internal/ports"
)

// BoardHandler handles task board requests
type BoardHandler struct {
	boardService *services.BoardService
	logger       *logger.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boardService *services.BoardService, logger *logger.Logger) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		logger:       logger,
	}
}

// GetBoard returns the derived board view. Query params: section (default is
// the user's sticky filter), completed_page (1-based).
func (h *BoardHandler) GetBoard(c echo.Context) error {
	owner := getUserIDFromContext(c)

	q := ports.BoardQuery{Section: c.QueryParam("section")}
	if raw := c.QueryParam("completed_page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid completed_page")
		}
		q.CompletedPage = page
	}

	view, err := h.boardService.Board(c.Request().Context(), owner, q)
	if err != nil {
		return h.fail(c, "Get board failed", owner, err)
	}

	return c.JSON(http.StatusOK, view)
}

// CreateTask handles task creation
func (h *BoardHandler) CreateTask(c echo.Context) error {
	owner := getUserIDFromContext(c)

	var req ports.AddTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.boardService.AddTask(c.Request().Context(), owner, req)
	if err != nil {
		return h.fail(c, "Create task failed", owner, err)
	}

	return c.JSON(http.StatusCreated, task)
}

// ToggleTask flips a task's completion flag
func (h *BoardHandler) ToggleTask(c echo.Context) error {
	owner := getUserIDFromContext(c)

	id, err := taskID(c)
	if err != nil {
		return err
	}

	completed, err := h.boardService.ToggleTask(c.Request().Context(), owner, id)
	if err != nil {
		return h.fail(c, "Toggle task failed", owner, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":        id,
		"completed": completed,
	})
}

// UpdateTask replaces a task's text
func (h *BoardHandler) UpdateTask(c echo.Context) error {
	owner := getUserIDFromContext(c)

	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req ports.EditTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	task, err := h.boardService.EditTask(c.Request().Context(), owner, id, req.Text)
	if err != nil {
		return h.fail(c, "Update task failed", owner, err)
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task
func (h *BoardHandler) DeleteTask(c echo.Context) error {
	owner := getUserIDFromContext(c)

	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.boardService.DeleteTask(c.Request().Context(), owner, id); err != nil {
		return h.fail(c, "Delete task failed", owner, err)
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Task deleted"})
}

// MoveTask reassigns a task to another section
func (h *BoardHandler) MoveTask(c echo.Context) error {
	owner := getUserIDFromContext(c)

	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req ports.MoveTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.boardService.MoveTask(c.Request().Context(), owner, id, req.Section); err != nil {
		return h.fail(c, "Move task failed", owner, err)
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Task moved"})
}

// ListSections returns the merged section set with stored task counts
func (h *BoardHandler) ListSections(c echo.Context) error {
	owner := getUserIDFromContext(c)

	sections, err := h.boardService.Sections(c.Request().Context(), owner)
	if err != nil {
		return h.fail(c, "List sections failed", owner, err)
	}

	return c.JSON(http.StatusOK, sections)
}

// CreateSection handles section creation
func (h *BoardHandler) CreateSection(c echo.Context) error {
	owner := getUserIDFromContext(c)

	var req ports.AddSectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	section, err := h.boardService.AddSection(c.Request().Context(), owner, req)
	if err != nil {
		return h.fail(c, "Create section failed", owner, err)
	}

	return c.JSON(http.StatusCreated, section)
}

// DeleteSection removes a user-created section
func (h *BoardHandler) DeleteSection(c echo.Context) error {
	owner := getUserIDFromContext(c)

	result, err := h.boardService.DeleteSection(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return h.fail(c, "Delete section failed", owner, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *BoardHandler) fail(c echo.Context, msg string, owner uuid.UUID, err error) error {
	if status, text, ok := domainStatus(err); ok {
		return echo.NewHTTPError(status, text)
	}
	h.logger.Errorw(msg, "error", err, "user_id", owner.String())
	return echo.NewHTTPError(http.StatusInternalServerError, msg)
}

func taskID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}
	return id, nil
}
