package handlers

import (
	"net/http"
	"strings"

	"webstore/internal/common"
	"webstore/internal/middleware"
	"webstore/internal/models"
	"webstore/internal/repositories"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// UserHandlers serves profile reads and updates. A user can only touch
// their own profile.
type UserHandlers struct {
	userRepo repositories.UserRepository
}

func NewUserHandlers(userRepo repositories.UserRepository) *UserHandlers {
	return &UserHandlers{userRepo: userRepo}
}

// Get returns a user profile.
//
//	@Summary	Get a user profile
//	@Tags		user
//	@Produce	json
//	@Param		userId	path		int	true	"user id"
//	@Success	200		{object}	models.User
//	@Failure	403		{object}	common.ErrorResponse
//	@Failure	404		{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/user/{userId} [get]
func (h *UserHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ParseID(c.Param("userId"), "userId")
	if err != nil {
		return common.RespondError(c, err)
	}
	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}

	// Existence is checked before ownership so a wrong id is a 404, not a
	// hint that someone else's id exists.
	user, err := h.userRepo.GetByID(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	if user.ID != requesterID {
		return common.RespondError(c, common.NewForbidden("you can only access your own profile"))
	}

	return c.JSON(http.StatusOK, user)
}

// Update modifies a user profile.
//
//	@Summary	Update a user profile
//	@Tags		user
//	@Accept		json
//	@Produce	json
//	@Param		userId	path		int					true	"user id"
//	@Param		request	body		models.UserUpdate	true	"fields to change"
//	@Success	200		{object}	models.User
//	@Failure	400		{object}	common.ErrorResponse
//	@Failure	403		{object}	common.ErrorResponse
//	@Failure	404		{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/user/{userId} [put]
func (h *UserHandlers) Update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ParseID(c.Param("userId"), "userId")
	if err != nil {
		return common.RespondError(c, err)
	}
	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}

	var req models.UserUpdate
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewInvalidInput("invalid request body"))
	}

	user, err := h.userRepo.GetByID(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	if user.ID != requesterID {
		return common.RespondError(c, common.NewForbidden("you can only modify your own profile"))
	}

	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			return common.RespondError(c, common.NewInvalidInput("first_name cannot be empty"))
		}
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			return common.RespondError(c, common.NewInvalidInput("last_name cannot be empty"))
		}
		user.LastName = *req.LastName
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLength {
			return common.RespondError(c, common.NewInvalidInput("password must be at least 8 characters"))
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return common.RespondError(c, common.NewInternal("failed to hash password", err))
		}
		user.PasswordHash = string(hash)
	}

	if err := h.userRepo.Update(ctx, user); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}
