package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	usecase "user-rest-service/internal/usecase/user"
	pkgerrors "user-rest-service/pkg/errors"
)

// birthDateLayout is the wire format for birth dates.
const birthDateLayout = "2006-01-02"

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  usecase.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc usecase.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// UserRequest represents the HTTP request body for creating or updating a
// user. The id is never read from the body; it comes from the path.
type UserRequest struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	BirthDate   string `json:"birth_date"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// UserResponse represents a user as rendered to API clients.
// Audit fields are never included.
type UserResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	BirthDate   string `json:"birth_date"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// DataResponse wraps a single item.
type DataResponse struct {
	Data UserResponse `json:"data"`
}

// ListResponse wraps a list with pagination metadata.
type ListResponse struct {
	Data          []UserResponse `json:"data"`
	CurrentPage   int            `json:"current_page"`
	TotalElements int64          `json:"total_elements"`
	TotalPages    int            `json:"total_pages"`
	Size          int            `json:"size"`
}

// ErrorResponse is the error envelope for all failures.
type ErrorResponse struct {
	Errors []string `json:"errors"`
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create user request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Errors: []string{"invalid request body"}})
		return
	}

	birthDate, ok := h.parseBirthDate(c, req.BirthDate)
	if !ok {
		return
	}

	resp, err := h.uc.Create(c.Request.Context(), usecase.CreateUserRequest{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		BirthDate:   birthDate,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, DataResponse{Data: toUserResponse(resp)})
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update user request body", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Errors: []string{"invalid request body"}})
		return
	}

	birthDate, ok := h.parseBirthDate(c, req.BirthDate)
	if !ok {
		return
	}

	resp, err := h.uc.Update(c.Request.Context(), usecase.UpdateUserRequest{
		ID:          id,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		BirthDate:   birthDate,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: toUserResponse(resp)})
}

// PatchUser handles PATCH /users/:id
func (h *UserHandler) PatchUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid patch user request body", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Errors: []string{"invalid request body"}})
		return
	}

	birthDate, ok := h.parseBirthDate(c, req.BirthDate)
	if !ok {
		return
	}

	resp, err := h.uc.PartialUpdate(c.Request.Context(), usecase.PatchUserRequest{
		ID:          id,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		BirthDate:   birthDate,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: toUserResponse(resp)})
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SearchUsers handles GET /users/search?from&to&page&size.
// from and to are required epoch-millisecond timestamps.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	from, ok := h.parseEpochMillis(c, "from")
	if !ok {
		return
	}
	to, ok := h.parseEpochMillis(c, "to")
	if !ok {
		return
	}

	if from.After(to) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Errors: []string{"from: must not be after to"}})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "5"))
	if err != nil || size < 1 {
		size = 5
	}

	resp, err := h.uc.SearchByBirthDateRange(c.Request.Context(), usecase.SearchUsersRequest{
		From: from,
		To:   to,
		Page: page,
		Size: size,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i := range resp.Users {
		users[i] = toUserResponse(&resp.Users[i])
	}

	c.JSON(http.StatusOK, ListResponse{
		Data:          users,
		CurrentPage:   resp.CurrentPage,
		TotalElements: resp.TotalElements,
		TotalPages:    resp.TotalPages,
		Size:          resp.Size,
	})
}

// parseID reads the :id path parameter, responding 400 when it is not a
// valid number.
func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.log.Warn("invalid user id", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Errors: []string{"id: must be a valid number"}})
		return 0, false
	}
	return id, true
}

// parseBirthDate parses an optional YYYY-MM-DD birth date. An empty value
// yields the zero time so the validation profile decides whether it is
// required.
func (h *UserHandler) parseBirthDate(c *gin.Context, value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}

	birthDate, err := time.Parse(birthDateLayout, value)
	if err != nil {
		h.log.Warn("invalid birth date", zap.String("birth_date", value), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Errors: []string{"birth_date: must be a valid date in YYYY-MM-DD format"}})
		return time.Time{}, false
	}
	return birthDate, true
}

// parseEpochMillis reads a required epoch-millisecond query parameter.
func (h *UserHandler) parseEpochMillis(c *gin.Context, name string) (time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Errors: []string{name + ": is required"}})
		return time.Time{}, false
	}

	millis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		h.log.Warn("invalid epoch millisecond parameter", zap.String(name, value), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Errors: []string{name + ": must be an epoch millisecond timestamp"}})
		return time.Time{}, false
	}
	return time.UnixMilli(millis).UTC(), true
}

// handleError converts usecase errors to HTTP responses. Typed errors carry
// their own status and client-facing messages; anything else is reported as
// an internal error without leaking detail.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var httpErr pkgerrors.HTTPStatuser
	if errors.As(err, &httpErr) {
		c.JSON(httpErr.HTTPStatus(), ErrorResponse{Errors: httpErr.Messages()})
		return
	}

	h.log.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Errors: []string{"internal server error"}})
}

func toUserResponse(u *usecase.UserResponse) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		BirthDate:   u.BirthDate.Format(birthDateLayout),
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
	}
}
