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

// MockReviewRepository mocks the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, reviewID int64) error {
	args := m.Called(ctx, reviewID)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	args := m.Called(ctx, titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) ExistsForAuthor(ctx context.Context, titleID, authorID int64) (bool, error) {
	args := m.Called(ctx, titleID, authorID)
	return args.Bool(0), args.Error(1)
}

var (
	reviewAuthor = &models.User{ID: 10, Username: "author", Role: models.RoleUser}
	otherUser    = &models.User{ID: 11, Username: "bystander", Role: models.RoleUser}
	moderator    = &models.User{ID: 12, Username: "mod", Role: models.RoleModerator}
)

func stubTitle(titleRepo *MockTitleRepository, id int64) {
	titleRepo.On("GetByID", mock.Anything, id).Return(&models.Title{ID: id, Name: "Some Book", Year: 1990}, nil)
}

func TestCreateReview_Success(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, noopCache())

	stubTitle(titleRepo, 1)
	reviewRepo.On("ExistsForAuthor", mock.Anything, int64(1), int64(10)).Return(false, nil)
	reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).Return(nil)

	resp, err := svc.Create(context.Background(), reviewAuthor, 1, dto.CreateReviewRequest{Text: "great", Score: 9})

	assert.NoError(t, err)
	assert.Equal(t, "author", resp.Author)
	assert.Equal(t, 9, resp.Score)
	reviewRepo.AssertExpectations(t)
}

func TestCreateReview_SecondReviewRejected(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, noopCache())

	stubTitle(titleRepo, 1)
	reviewRepo.On("ExistsForAuthor", mock.Anything, int64(1), int64(10)).Return(true, nil)

	_, err := svc.Create(context.Background(), reviewAuthor, 1, dto.CreateReviewRequest{Text: "again", Score: 5})

	assert.ErrorIs(t, err, ErrDuplicateReview)
	reviewRepo.AssertNotCalled(t, "Create")
}

func TestCreateReview_TitleMissing(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, noopCache())

	titleRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), reviewAuthor, 99, dto.CreateReviewRequest{Text: "x", Score: 5})
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestUpdateReview_NonAuthorDenied(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, noopCache())

	stubTitle(titleRepo, 1)
	review := &models.Review{ID: 5, TitleID: 1, AuthorID: reviewAuthor.ID, Text: "old", Score: 3}
	reviewRepo.On("GetByID", mock.Anything, int64(1), int64(5)).Return(review, nil)

	text := "hijacked"
	_, err := svc.Update(context.Background(), otherUser, 1, 5, dto.UpdateReviewRequest{Text: &text})

	assert.ErrorIs(t, err, ErrPermissionDenied)
	reviewRepo.AssertNotCalled(t, "Update")
}

func TestUpdateReview_AuthorAllowed(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, noopCache())

	stubTitle(titleRepo, 1)
	review := &models.Review{ID: 5, TitleID: 1, AuthorID: reviewAuthor.ID, Text: "old", Score: 3, Author: *reviewAuthor}
	reviewRepo.On("GetByID", mock.Anything, int64(1), int64(5)).Return(review, nil)
	reviewRepo.On("Update", mock.Anything, review).Return(nil)

	score := 8
	resp, err := svc.Update(context.Background(), reviewAuthor, 1, 5, dto.UpdateReviewRequest{Score: &score})

	assert.NoError(t, err)
	assert.Equal(t, 8, resp.Score)
	assert.Equal(t, "old", resp.Text)
}

func TestDeleteReview_ModeratorAllowed(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, noopCache())

	stubTitle(titleRepo, 1)
	review := &models.Review{ID: 5, TitleID: 1, AuthorID: reviewAuthor.ID}
	reviewRepo.On("GetByID", mock.Anything, int64(1), int64(5)).Return(review, nil)
	reviewRepo.On("Delete", mock.Anything, int64(5)).Return(nil)

	err := svc.Delete(context.Background(), moderator, 1, 5)

	assert.NoError(t, err)
	reviewRepo.AssertExpectations(t)
}

func TestDeleteReview_NonAuthorDenied(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, noopCache())

	stubTitle(titleRepo, 1)
	review := &models.Review{ID: 5, TitleID: 1, AuthorID: reviewAuthor.ID}
	reviewRepo.On("GetByID", mock.Anything, int64(1), int64(5)).Return(review, nil)

	err := svc.Delete(context.Background(), otherUser, 1, 5)

	assert.ErrorIs(t, err, ErrPermissionDenied)
	reviewRepo.AssertNotCalled(t, "Delete")
}
