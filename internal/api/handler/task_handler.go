package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tasklist/tasklist-api/internal/core/ports"
)

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create adds a task owned by the caller.
//
// @Summary      Create a task
// @Tags         tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      createTaskRequest  true  "New task"
// @Success      201   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req createTaskRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	task, err := h.service.Create(c.Request().Context(), ports.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// List returns a page of tasks, newest first.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Param        limit   query     int  false  "Page size (default 10, max 100)"
// @Param        offset  query     int  false  "Items to skip"
// @Success      200     {array}   taskResponse
// @Failure      400     {object}  errorResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	var q pageQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	tasks, err := h.service.List(c.Request().Context(), q.toPage())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// Get returns one task.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task id"
// @Success      200  {object}  taskResponse
// @Failure      404  {object}  errorResponse
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Update applies a partial update to one of the caller's tasks.
//
// @Summary      Update a task
// @Tags         tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  taskResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateTaskRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	task, err := h.service.Update(c.Request().Context(), id, req.toUpdate(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete removes one of the caller's tasks.
//
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Task id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	res, err := h.service.Delete(c.Request().Context(), id, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: res.Message})
}
