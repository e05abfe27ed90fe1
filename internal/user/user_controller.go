package user

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/DhavalSuthar-24/profiles/internal/models"
	"github.com/DhavalSuthar-24/profiles/pkg/logger"
	"github.com/DhavalSuthar-24/profiles/pkg/responses"
	"github.com/gin-gonic/gin"
)

// UserService is what the controller needs from the service layer.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*Outcome, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context, page, pageSize int) ([]models.User, int64, error)
	DeleteUser(ctx context.Context, id uint) error
	AttachInterests(ctx context.Context, id uint, in AttachInput) (*Outcome, error)
	AttachSkills(ctx context.Context, id uint, in AttachInput) (*Outcome, error)
}

// PaginationInput holds the list query parameters.
type PaginationInput struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

type UserController struct {
	svc UserService
}

func NewUserController(svc UserService) *UserController {
	return &UserController{svc: svc}
}

// CreateUser godoc
// @Summary Create a user
// @Description Creates a user together with its interests and skills. Unknown interests and skills are added to the catalog.
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserInput true "User data"
// @Success 201 {object} responses.SuccessResponse{data=models.User} "User created"
// @Failure 400 {object} responses.ErrorResponse "Malformed input"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Failure 422 {object} responses.ErrorResponse "Validation failed"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /users [post]
// @Security Bearer
func (ctrl *UserController) CreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		responses.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	out, err := ctrl.svc.CreateUser(c.Request.Context(), input)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	if out.Errors.Any() {
		responses.SendFieldErrors(c, http.StatusUnprocessableEntity, "User is invalid", out.Errors)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "User created successfully", out.User)
}

// GetUser godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} responses.SuccessResponse{data=models.User} "User with interests and skills"
// @Failure 400 {object} responses.ErrorResponse "Invalid user ID"
// @Failure 404 {object} responses.ErrorResponse "User not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /users/{user_id} [get]
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := ctrl.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "User retrieved successfully", u)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Items per page (default: 10, max: 100)"
// @Success 200 {object} responses.PaginatedResponse{data=[]models.User} "Users"
// @Failure 400 {object} responses.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /users [get]
func (ctrl *UserController) ListUsers(c *gin.Context) {
	var p PaginationInput
	if err := c.ShouldBindQuery(&p); err != nil {
		responses.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	p.Page, p.PageSize = NormalizePage(p.Page, p.PageSize)

	users, total, err := ctrl.svc.ListUsers(c.Request.Context(), p.Page, p.PageSize)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	responses.SendPaginated(c, "Users retrieved successfully", users, total, p.Page, p.PageSize)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Deletes the user and its interest and skill links. Catalog entries are kept.
// @Tags users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} responses.SuccessResponse "User deleted"
// @Failure 400 {object} responses.ErrorResponse "Invalid user ID"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Failure 404 {object} responses.ErrorResponse "User not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /users/{user_id} [delete]
// @Security Bearer
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	if err := ctrl.svc.DeleteUser(c.Request.Context(), id); err != nil {
		ctrl.fail(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "User deleted successfully", nil)
}

// AttachInterests godoc
// @Summary Add interests to a user
// @Tags users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param names body AttachInput true "Interest names"
// @Success 200 {object} responses.SuccessResponse{data=models.User} "Updated user"
// @Failure 400 {object} responses.ErrorResponse "Malformed input"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Failure 404 {object} responses.ErrorResponse "User not found"
// @Failure 422 {object} responses.ErrorResponse "Validation failed"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /users/{user_id}/interests [post]
// @Security Bearer
func (ctrl *UserController) AttachInterests(c *gin.Context) {
	ctrl.attach(c, ctrl.svc.AttachInterests)
}

// AttachSkills godoc
// @Summary Add skills to a user
// @Tags users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param names body AttachInput true "Skill names"
// @Success 200 {object} responses.SuccessResponse{data=models.User} "Updated user"
// @Failure 400 {object} responses.ErrorResponse "Malformed input"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Failure 404 {object} responses.ErrorResponse "User not found"
// @Failure 422 {object} responses.ErrorResponse "Validation failed"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /users/{user_id}/skills [post]
// @Security Bearer
func (ctrl *UserController) AttachSkills(c *gin.Context) {
	ctrl.attach(c, ctrl.svc.AttachSkills)
}

func (ctrl *UserController) attach(c *gin.Context,
	fn func(context.Context, uint, AttachInput) (*Outcome, error)) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var input AttachInput
	if err := c.ShouldBindJSON(&input); err != nil {
		responses.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	out, err := fn(c.Request.Context(), id, input)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	if out.Errors.Any() {
		responses.SendFieldErrors(c, http.StatusUnprocessableEntity, "User is invalid", out.Errors)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "User updated successfully", out.User)
}

// fail maps service errors onto responses.
func (ctrl *UserController) fail(c *gin.Context, err error) {
	var inputErr *InputError
	switch {
	case errors.As(err, &inputErr):
		responses.SendFieldErrors(c, http.StatusBadRequest, "Invalid input", inputErr.Fields)
	case errors.Is(err, ErrUserNotFound):
		responses.NotFound(c, "User")
	default:
		logger.From(c.Request.Context()).Error("user request failed", slog.String("error", err.Error()))
		responses.InternalServerError(c)
	}
}

func userID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil || id == 0 {
		responses.BadRequest(c, "Invalid user ID")
		return 0, false
	}
	return uint(id), true
}
