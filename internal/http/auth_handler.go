package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/i18n"
	"github.com/guttosm/fipe-service/internal/middleware"
	"github.com/guttosm/fipe-service/internal/service"
)

// RefreshTokenHeader carries the refresh token on refresh and logout.
const RefreshTokenHeader = "X-Refresh-Token"

// AuthHandler provides HTTP handlers for authentication routes.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new authentication handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST /api/auth/register requests.
//
// @Summary      Register new user
// @Description  Creates a user account with the user role and returns a token pair
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "Registration information"
// @Success      201 {object} dto.SuccessResponse{data=dto.AuthResponse} "Successful registration"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      409 {object} dto.ErrorResponse "Conflict - user already exists"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.RegisterRequest](c)
	if err != nil {
		bindFailure(builder, err)
		return
	}

	pair, user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			middleware.AuditLogError(c, model.ActionRegister, "Registration rejected, email already in use", err, map[string]any{
				"email": req.Email,
			})
		}
		builder.Fail(err)
		return
	}

	middleware.AuditLog(c, model.ActionRegister, "New user registered", map[string]any{
		"user_id": user.ID.Hex(),
		"email":   user.Email,
	})

	builder.Message(i18n.SuccessKeyRegister).SuccessCreated(dto.NewAuthResponse(pair, user))
}

// Login handles POST /api/auth/login requests.
//
// @Summary      Login user
// @Description  Authenticates a user, revokes previous refresh tokens and returns a new token pair
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Login credentials"
// @Success      200 {object} dto.SuccessResponse{data=dto.AuthResponse} "Successful login"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - invalid credentials"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.LoginRequest](c)
	if err != nil {
		bindFailure(builder, err)
		return
	}

	pair, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.AuditLogError(c, model.ActionLogin, "Failed login attempt", err, map[string]any{
				"email": req.Email,
			})
		}
		builder.Fail(err)
		return
	}

	middleware.AuditLog(c, model.ActionLogin, "User logged in", map[string]any{
		"user_id": user.ID.Hex(),
		"email":   user.Email,
	})

	builder.Message(i18n.SuccessKeyLogin).SuccessOK(dto.NewAuthResponse(pair, user))
}

// RefreshToken handles POST /api/auth/refresh requests.
//
// @Summary      Refresh access token
// @Description  Rotates the token pair. The refresh token is read from the X-Refresh-Token header and is single use.
// @Tags         Auth
// @Produce      json
// @Param        X-Refresh-Token header string true "Refresh token"
// @Success      200 {object} dto.SuccessResponse{data=dto.AuthResponse} "Successful token refresh"
// @Failure      400 {object} dto.ErrorResponse "Bad request - missing refresh token"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - invalid refresh token"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	builder := NewResponseBuilder(c)

	refreshToken := c.GetHeader(RefreshTokenHeader)
	if refreshToken == "" {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyRefreshRequired, nil)
		return
	}

	pair, user, err := h.authService.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.Message(i18n.SuccessKeyRefreshed).SuccessOK(dto.NewAuthResponse(pair, user))
}

// Verify handles GET /api/auth/verify requests.
//
// @Summary      Current user
// @Description  Validates the bearer token and returns the user it belongs to
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SuccessResponse{data=dto.UserResponse}
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Router       /api/auth/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	builder := NewResponseBuilder(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		builder.Error(http.StatusUnauthorized, i18n.ErrKeyUnauthorized, nil)
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.SuccessOK(dto.NewUserResponse(user))
}

// Logout handles POST /api/auth/logout requests.
//
// @Summary      Logout user
// @Description  Blacklists the access token until it expires and deletes the refresh token
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Param        X-Refresh-Token header string true "Refresh token"
// @Success      200 {object} dto.SuccessResponse "Successful logout"
// @Failure      400 {object} dto.ErrorResponse "Bad request - missing refresh token"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	builder := NewResponseBuilder(c)

	accessToken, present := middleware.BearerToken(c)
	if !present || accessToken == "" {
		builder.Error(http.StatusUnauthorized, i18n.ErrKeyTokenRequired, nil)
		return
	}

	refreshToken := c.GetHeader(RefreshTokenHeader)
	if refreshToken == "" {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyRefreshRequired, nil)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), accessToken, refreshToken); err != nil {
		builder.Fail(err)
		return
	}

	middleware.AuditLog(c, model.ActionLogout, "User logged out", nil)

	builder.Message(i18n.SuccessKeyLogout).Success(http.StatusOK, nil)
}
