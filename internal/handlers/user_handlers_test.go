package handlers

import (
	"context"
	"net/http"
	"testing"

	"webstore/internal/common"
	"webstore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func TestUserGet_OwnProfile(t *testing.T) {
	repo := new(MockUserRepository)
	h := NewUserHandlers(repo)

	repo.On("GetByID", mock.Anything, int64(7)).
		Return(&models.User{ID: 7, Email: "owner@example.com"}, nil)

	c, rec := newRequest(http.MethodGet, "/v1/user/7", "", []string{"userId"}, []string{"7"})
	assert.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "owner@example.com")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUserGet_OtherProfileIsForbidden(t *testing.T) {
	repo := new(MockUserRepository)
	h := NewUserHandlers(repo)

	// Requester is user 7; user 8 exists.
	repo.On("GetByID", mock.Anything, int64(8)).
		Return(&models.User{ID: 8, Email: "other@example.com"}, nil)

	c, rec := newRequest(http.MethodGet, "/v1/user/8", "", []string{"userId"}, []string{"8"})
	assert.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserGet_MissingUserIs404NotForbidden(t *testing.T) {
	repo := new(MockUserRepository)
	h := NewUserHandlers(repo)

	repo.On("GetByID", mock.Anything, int64(99)).
		Return(nil, common.NewNotFound("user not found"))

	c, rec := newRequest(http.MethodGet, "/v1/user/99", "", []string{"userId"}, []string{"99"})
	assert.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserUpdate_RehashesPassword(t *testing.T) {
	repo := new(MockUserRepository)
	h := NewUserHandlers(repo)

	repo.On("GetByID", mock.Anything, int64(7)).
		Return(&models.User{ID: 7, Email: "owner@example.com"}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("new-password-1")) == nil
	})).Return(nil)

	c, rec := newRequest(http.MethodPut, "/v1/user/7", `{"password":"new-password-1"}`, []string{"userId"}, []string{"7"})
	assert.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestUserUpdate_ShortPasswordRejected(t *testing.T) {
	repo := new(MockUserRepository)
	h := NewUserHandlers(repo)

	repo.On("GetByID", mock.Anything, int64(7)).
		Return(&models.User{ID: 7}, nil)

	c, rec := newRequest(http.MethodPut, "/v1/user/7", `{"password":"short"}`, []string{"userId"}, []string{"7"})
	assert.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
