package controller

import (
	"net/http"
	"time"

	"timeboss-backend/models"
	"timeboss-backend/services"
	"timeboss-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// TokenIssuer signs and revokes access tokens
type TokenIssuer interface {
	GenerateToken(user *models.User) (string, error)
	RevokeToken(claims *models.JWTClaims)
}

type UserController struct {
	userService services.UserServiceInterface
	tokens      TokenIssuer
	expiresIn   time.Duration
	showReset   bool
	logger      logger.Logger
	validator   *validator.Validate
}

// NewUserController creates the auth and user handlers. showReset returns reset tokens in the
// response body, for environments without outbound e-mail.
func NewUserController(userService services.UserServiceInterface, tokens TokenIssuer, expiresIn time.Duration, showReset bool, logger logger.Logger) *UserController {
	return &UserController{
		userService: userService,
		tokens:      tokens,
		expiresIn:   expiresIn,
		showReset:   showReset,
		logger:      logger,
		validator:   validator.New(),
	}
}

// Signup handles POST /api/v1/auth/signup
// @Summary Register a new user
// @Description The first account becomes the administrator, later ones are crew accounts
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.SignupRequest true "Signup request"
// @Success 201 {object} models.APIResponse "User registered successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid input or username taken"
// @Router /auth/signup [post]
func (h *UserController) Signup(c *gin.Context) {
	var req models.SignupRequest
	if !bindJSON(c, h.validator, h.logger, &req) {
		return
	}
	user, err := h.userService.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, "User registered successfully", user)
}

// Login handles POST /api/v1/auth/login
// @Summary User login
// @Description Authenticate with username and password and receive a bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.APIResponse "Login successful"
// @Failure 401 {object} models.APIResponse "Unauthorized - Invalid credentials"
// @Router /auth/login [post]
func (h *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, h.validator, h.logger, &req) {
		return
	}
	user, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		h.logger.Errorf("Failed to generate token for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, models.Failure(http.StatusInternalServerError, "Token generation failed", "TokenError", "Failed to generate authentication token"))
		return
	}

	respondOK(c, http.StatusOK, "Login successful", &models.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.expiresIn.Seconds()),
		Role:      user.Role,
		CrewID:    user.CrewID,
	})
}

// RequestReset handles POST /api/v1/auth/reset-request
// @Summary Request a password reset
// @Description Issues a one hour reset token. The answer is the same whether or not the user exists.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.ResetRequest true "Reset request"
// @Success 200 {object} models.APIResponse "If the user exists, a reset token has been generated."
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid input"
// @Router /auth/reset-request [post]
func (h *UserController) RequestReset(c *gin.Context) {
	var req models.ResetRequest
	if !bindJSON(c, h.validator, h.logger, &req) {
		return
	}
	token, err := h.userService.RequestPasswordReset(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	resp := &models.ResetResponse{}
	if h.showReset {
		resp.Token = token
	}
	respondOK(c, http.StatusOK, "If the user exists, a reset token has been generated.", resp)
}

// ResetPassword handles POST /api/v1/auth/reset-password
// @Summary Reset a password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.ResetPasswordRequest true "Username, token and new password"
// @Success 200 {object} models.APIResponse "Password updated"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid or expired token"
// @Router /auth/reset-password [post]
func (h *UserController) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if !bindJSON(c, h.validator, h.logger, &req) {
		return
	}
	if err := h.userService.ResetPassword(c.Request.Context(), &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Password updated", nil)
}

// Me handles GET /api/v1/auth/me
// @Summary Current user
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "User retrieved successfully"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Router /auth/me [get]
func (h *UserController) Me(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "User retrieved successfully", user)
}

// Logout handles POST /api/v1/auth/logout
// @Summary User logout
// @Description Revoke the current token
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Logout successful"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Router /auth/logout [post]
func (h *UserController) Logout(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	h.tokens.RevokeToken(claims)
	h.logger.Infof("User %s logged out", claims.Username)
	respondOK(c, http.StatusOK, "Logout successful", nil)
}

// ListUsers handles GET /api/v1/users
// @Summary List users
// @Tags User Management
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Users retrieved successfully"
// @Router /users [get]
func (h *UserController) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Users retrieved successfully", users)
}

// CreateUser handles POST /api/v1/users
// @Summary Create a user
// @Description Create an account with any role; crew accounts need a crewId
// @Tags User Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateUserRequest true "Create user request"
// @Success 201 {object} models.APIResponse "User created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid user data"
// @Router /users [post]
func (h *UserController) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if !bindJSON(c, h.validator, h.logger, &req) {
		return
	}
	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, "User created successfully", user)
}

// UpdateUser handles PATCH /api/v1/users/:id
// @Summary Update a user's role or crew
// @Tags User Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body models.UpdateUserRequest true "Update user request"
// @Success 200 {object} models.APIResponse "User updated successfully"
// @Failure 404 {object} models.APIResponse "Not Found - User does not exist"
// @Router /users/{id} [patch]
func (h *UserController) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateUserRequest
	if !bindJSON(c, h.validator, h.logger, &req) {
		return
	}
	user, err := h.userService.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "User updated successfully", user)
}
