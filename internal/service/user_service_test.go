package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/dto"
	"reviewhub/internal/models"
)

func strPtr(s string) *string { return &s }

func TestUpdateSelf_PlainUserCannotChangeRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo)

	requester := &models.User{ID: 1, Username: "plain", Email: "plain@example.com", Role: models.RoleUser}
	mockRepo.On("Update", mock.Anything, requester).Return(nil)

	resp, err := svc.UpdateSelf(context.Background(), requester, dto.UpdateUserRequest{
		Bio:  strPtr("new bio"),
		Role: strPtr("admin"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "new bio", resp.Bio)
	assert.Equal(t, "user", resp.Role)
}

func TestUpdateSelf_AdminMayChangeOwnRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo)

	requester := &models.User{ID: 1, Username: "boss", Email: "boss@example.com", Role: models.RoleAdmin}
	mockRepo.On("Update", mock.Anything, requester).Return(nil)

	resp, err := svc.UpdateSelf(context.Background(), requester, dto.UpdateUserRequest{Role: strPtr("moderator")})

	assert.NoError(t, err)
	assert.Equal(t, "moderator", resp.Role)
}

func TestUpdateSelf_ModeratorMayChangeOwnRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo)

	requester := &models.User{ID: 1, Username: "mod", Email: "mod@example.com", Role: models.RoleModerator}
	mockRepo.On("Update", mock.Anything, requester).Return(nil)

	resp, err := svc.UpdateSelf(context.Background(), requester, dto.UpdateUserRequest{Role: strPtr("user")})

	assert.NoError(t, err)
	assert.Equal(t, "user", resp.Role)
}

func TestCreateUser_ReservedUsername(t *testing.T) {
	svc := NewUserService(new(MockUserRepository))

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{Username: "me", Email: "me@example.com"})
	assert.ErrorIs(t, err, ErrReservedUsername)
}

func TestCreateUser_InvalidRole(t *testing.T) {
	svc := NewUserService(new(MockUserRepository))

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Username: "newuser",
		Email:    "new@example.com",
		Role:     "emperor",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestCreateUser_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo)

	mockRepo.On("FindByUsername", mock.Anything, "newmod").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("FindByEmail", mock.Anything, "mod@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	resp, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Username: "newmod",
		Email:    "mod@example.com",
		Role:     "moderator",
	})

	assert.NoError(t, err)
	assert.Equal(t, "newmod", resp.Username)
	assert.Equal(t, "moderator", resp.Role)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_EmailTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo)

	target := &models.User{ID: 2, Username: "victim", Email: "victim@example.com", Role: models.RoleUser}
	mockRepo.On("FindByUsername", mock.Anything, "victim").Return(target, nil)
	mockRepo.On("FindByEmail", mock.Anything, "taken@example.com").
		Return(&models.User{ID: 3, Email: "taken@example.com"}, nil)

	_, err := svc.Update(context.Background(), "victim", dto.UpdateUserRequest{Email: strPtr("taken@example.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestDeleteUser_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo)

	mockRepo.On("DeleteByUsername", mock.Anything, "ghost").Return(gorm.ErrRecordNotFound)

	err := svc.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
