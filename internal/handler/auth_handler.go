package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "modqueue/internal/errors"
	"modqueue/internal/model"
	"modqueue/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupResponse is returned after a user is created.
type SignupResponse struct {
	Message string            `json:"message"`
	User    model.UserSummary `json:"user"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Signup data"
// @Success 201 {object} SignupResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return errorResponse(apperrors.ErrInvalidBody)
	}

	user, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return errorResponse(err)
	}

	return c.JSON(http.StatusCreated, SignupResponse{
		Message: "User created successfully",
		User:    user.Summary(),
	})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req service.LoginInput
	if err := c.Bind(&req); err != nil {
		return errorResponse(apperrors.ErrInvalidBody)
	}

	session, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return errorResponse(err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Token:   session.Token,
		Message: "Login successful",
	})
}

// errorResponse translates a domain error into an echo error carrying an ErrorResponse body.
func errorResponse(err error) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}
