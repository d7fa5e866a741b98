package handlers

import (
	"net/http"
	"net/mail"
	"strings"

	"webstore/internal/common"
	"webstore/internal/models"
	"webstore/internal/repositories"
	"webstore/internal/services"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AuthHandlers handles registration and login.
type AuthHandlers struct {
	authService services.AuthService
	userRepo    repositories.UserRepository
}

func NewAuthHandlers(authService services.AuthService, userRepo repositories.UserRepository) *AuthHandlers {
	return &AuthHandlers{authService: authService, userRepo: userRepo}
}

// Register creates a new user account.
//
//	@Summary	Register a new user
//	@Tags		user
//	@Accept		json
//	@Produce	json
//	@Param		request	body		models.RegisterRequest	true	"account details"
//	@Success	201		{object}	models.User
//	@Failure	400		{object}	common.ErrorResponse
//	@Router		/v1/user [post]
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewInvalidInput("invalid request body"))
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		return common.RespondError(c, common.NewInvalidInput("email is required"))
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return common.RespondError(c, common.NewInvalidInput("email is not valid"))
	}
	if len(req.Password) < minPasswordLength {
		return common.RespondError(c, common.NewInvalidInput("password must be at least 8 characters"))
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return common.RespondError(c, common.NewInvalidInput("first_name and last_name are required"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return common.RespondError(c, common.NewInternal("failed to hash password", err))
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := h.userRepo.Create(ctx, user); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, user)
}

// Login exchanges credentials for a bearer token.
//
//	@Summary	Log in
//	@Tags		user
//	@Accept		json
//	@Produce	json
//	@Param		request	body		models.LoginRequest	true	"credentials"
//	@Success	200		{object}	models.LoginResponse
//	@Failure	401		{object}	common.ErrorResponse
//	@Router		/v1/user/login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewInvalidInput("invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return common.RespondError(c, common.NewInvalidInput("email and password are required"))
	}

	// A missing account and a wrong password are indistinguishable to the
	// caller.
	user, err := h.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if common.KindOf(err) == common.KindNotFound {
			return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "invalid email or password"))
		}
		return common.RespondError(c, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "invalid email or password"))
	}

	token, expiresAt, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		return common.RespondError(c, common.NewInternal("failed to generate token", err))
	}

	return c.JSON(http.StatusOK, models.LoginResponse{Token: token, ExpiresAt: expiresAt})
}
