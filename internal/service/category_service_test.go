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

func TestCreateCategory_InvalidSlug(t *testing.T) {
	svc := NewCategoryService(new(MockCategoryRepository), new(MockTitleRepository))

	_, err := svc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Books", Slug: "not a slug!"})
	assert.ErrorIs(t, err, ErrInvalidSlug)
}

func TestCreateCategory_SlugTaken(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	svc := NewCategoryService(categoryRepo, new(MockTitleRepository))

	categoryRepo.On("FindBySlug", mock.Anything, "books").
		Return(&models.Category{ID: 1, Slug: "books"}, nil)

	_, err := svc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Books", Slug: "books"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestDeleteCategory_BlockedWhileReferenced(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewCategoryService(categoryRepo, titleRepo)

	categoryRepo.On("FindBySlug", mock.Anything, "books").
		Return(&models.Category{ID: 1, Slug: "books"}, nil)
	titleRepo.On("CountByCategory", mock.Anything, int64(1)).Return(int64(3), nil)

	err := svc.Delete(context.Background(), "books")

	assert.ErrorIs(t, err, ErrCategoryInUse)
	categoryRepo.AssertNotCalled(t, "DeleteBySlug")
}

func TestDeleteCategory_Unreferenced(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewCategoryService(categoryRepo, titleRepo)

	categoryRepo.On("FindBySlug", mock.Anything, "empty").
		Return(&models.Category{ID: 2, Slug: "empty"}, nil)
	titleRepo.On("CountByCategory", mock.Anything, int64(2)).Return(int64(0), nil)
	categoryRepo.On("DeleteBySlug", mock.Anything, "empty").Return(nil)

	err := svc.Delete(context.Background(), "empty")

	assert.NoError(t, err)
	categoryRepo.AssertExpectations(t)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	svc := NewCategoryService(categoryRepo, new(MockTitleRepository))

	categoryRepo.On("FindBySlug", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	err := svc.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
