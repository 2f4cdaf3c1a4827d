package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tasklist/tasklist-api/internal/core/domain"
	"github.com/tasklist/tasklist-api/internal/core/ports"
)

// UserHandler handles HTTP requests for accounts and avatars.
type UserHandler struct {
	service     ports.UserService
	avatarLimit int64
}

func NewUserHandler(service ports.UserService, avatarLimit int64) *UserHandler {
	return &UserHandler{service: service, avatarLimit: avatarLimit}
}

// Create registers a new user.
//
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), ports.CreateAccountInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// List returns users, newest first. Every user is returned unless limit is set.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        limit   query     int  false  "Page size (max 100); omit to list every user"
// @Param        offset  query     int  false  "Items to skip"
// @Success      200     {array}   userResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q pageQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	users, err := h.service.List(c.Request().Context(), q.toPage())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Get returns one user with its tasks.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserDetailResponse(detail))
}

// Update changes the caller's own name or password.
//
// @Summary      Update a user
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), id, req.toInput(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete removes the caller's own account and its tasks.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
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

// UploadAvatar stores the caller's avatar image.
//
// @Summary      Upload avatar
// @Tags         users
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "JPEG or PNG image, at most 3 MiB"
// @Success      201   {object}  userResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /users/upload [post]
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return domain.Invalid("file is required")
	}
	if h.avatarLimit > 0 && fh.Size > h.avatarLimit {
		return domain.Invalid(fmt.Sprintf("file exceeds the maximum size of %d bytes", h.avatarLimit))
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read file").SetInternal(err)
	}
	defer src.Close()

	var r io.Reader = src
	if h.avatarLimit > 0 {
		// One extra byte lets the service see an oversized stream.
		r = io.LimitReader(src, h.avatarLimit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read file").SetInternal(err)
	}

	user, err := h.service.UploadAvatar(c.Request().Context(), actor, ports.AvatarUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}
