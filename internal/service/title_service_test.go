package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/cache"
	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
)

// MockTitleRepository mocks the TitleRepository interface
type MockTitleRepository struct {
	mock.Mock
}

func (m *MockTitleRepository) List(ctx context.Context, p repository.ListTitlesParams) ([]models.Title, int64, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Title), args.Get(1).(int64), args.Error(2)
}

func (m *MockTitleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *MockTitleRepository) Create(ctx context.Context, t *models.Title) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTitleRepository) Update(ctx context.Context, t *models.Title) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTitleRepository) ReplaceGenres(ctx context.Context, t *models.Title, genres []models.Genre) error {
	args := m.Called(ctx, t, genres)
	return args.Error(0)
}

func (m *MockTitleRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTitleRepository) AverageScore(ctx context.Context, titleID int64) (*float64, error) {
	args := m.Called(ctx, titleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockTitleRepository) AverageScores(ctx context.Context, titleIDs []int64) (map[int64]float64, error) {
	args := m.Called(ctx, titleIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]float64), args.Error(1)
}

func (m *MockTitleRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

// MockGenreRepository mocks the GenreRepository interface
type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Genre), args.Get(1).(int64), args.Error(2)
}

func (m *MockGenreRepository) Create(ctx context.Context, g *models.Genre) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGenreRepository) FindBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// MockCategoryRepository mocks the CategoryRepository interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func noopCache() *cache.RatingCache {
	c, _ := cache.New("", "", time.Hour, slog.Default())
	return c
}

func newTitleService(titleRepo *MockTitleRepository, genreRepo *MockGenreRepository, categoryRepo *MockCategoryRepository) TitleService {
	return NewTitleService(titleRepo, genreRepo, categoryRepo, noopCache())
}

func TestGetTitle_RatingTruncatesMean(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	svc := newTitleService(titleRepo, new(MockGenreRepository), new(MockCategoryRepository))

	title := &models.Title{ID: 1, Name: "Some Book", Year: 1990}
	avg := 7.5
	titleRepo.On("GetByID", mock.Anything, int64(1)).Return(title, nil)
	titleRepo.On("AverageScore", mock.Anything, int64(1)).Return(&avg, nil)

	resp, err := svc.Get(context.Background(), 1)

	assert.NoError(t, err)
	assert.NotNil(t, resp.Rating)
	assert.Equal(t, 7, *resp.Rating)
}

func TestGetTitle_NoReviewsMeansNilRating(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	svc := newTitleService(titleRepo, new(MockGenreRepository), new(MockCategoryRepository))

	title := &models.Title{ID: 1, Name: "Some Book", Year: 1990}
	titleRepo.On("GetByID", mock.Anything, int64(1)).Return(title, nil)
	titleRepo.On("AverageScore", mock.Anything, int64(1)).Return(nil, nil)

	resp, err := svc.Get(context.Background(), 1)

	assert.NoError(t, err)
	assert.Nil(t, resp.Rating)
}

func TestGetTitle_NotFound(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	svc := newTitleService(titleRepo, new(MockGenreRepository), new(MockCategoryRepository))

	titleRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestCreateTitle_YearInFuture(t *testing.T) {
	svc := newTitleService(new(MockTitleRepository), new(MockGenreRepository), new(MockCategoryRepository))

	req := dto.CreateTitleRequest{
		Name:     "Time Machine",
		Year:     time.Now().Year() + 1,
		Genre:    []string{"sci-fi"},
		Category: "book",
	}
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrYearInFuture)
}

func TestCreateTitle_UnknownGenre(t *testing.T) {
	genreRepo := new(MockGenreRepository)
	svc := newTitleService(new(MockTitleRepository), genreRepo, new(MockCategoryRepository))

	genreRepo.On("FindBySlugs", mock.Anything, []string{"sci-fi", "ghost-genre"}).
		Return([]models.Genre{{ID: 1, Slug: "sci-fi"}}, nil)

	req := dto.CreateTitleRequest{
		Name:     "Some Book",
		Year:     1990,
		Genre:    []string{"sci-fi", "ghost-genre"},
		Category: "book",
	}
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnknownGenre)
}

func TestCreateTitle_UnknownCategory(t *testing.T) {
	genreRepo := new(MockGenreRepository)
	categoryRepo := new(MockCategoryRepository)
	svc := newTitleService(new(MockTitleRepository), genreRepo, categoryRepo)

	genreRepo.On("FindBySlugs", mock.Anything, []string{"sci-fi"}).
		Return([]models.Genre{{ID: 1, Slug: "sci-fi"}}, nil)
	categoryRepo.On("FindBySlug", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	req := dto.CreateTitleRequest{
		Name:     "Some Book",
		Year:     1990,
		Genre:    []string{"sci-fi"},
		Category: "ghost",
	}
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestCreateTitle_Success(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	genreRepo := new(MockGenreRepository)
	categoryRepo := new(MockCategoryRepository)
	svc := newTitleService(titleRepo, genreRepo, categoryRepo)

	genres := []models.Genre{{ID: 1, Name: "Sci-Fi", Slug: "sci-fi"}}
	category := &models.Category{ID: 2, Name: "Book", Slug: "book"}
	genreRepo.On("FindBySlugs", mock.Anything, []string{"sci-fi"}).Return(genres, nil)
	categoryRepo.On("FindBySlug", mock.Anything, "book").Return(category, nil)
	titleRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Title")).Return(nil)

	req := dto.CreateTitleRequest{
		Name:     "Some Book",
		Year:     1990,
		Genre:    []string{"sci-fi"},
		Category: "book",
	}
	resp, err := svc.Create(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, "Some Book", resp.Name)
	assert.Nil(t, resp.Rating)
	assert.Equal(t, "book", resp.Category.Slug)
	assert.Len(t, resp.Genre, 1)
	titleRepo.AssertExpectations(t)
}

func TestListTitles_BatchesRatings(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	svc := newTitleService(titleRepo, new(MockGenreRepository), new(MockCategoryRepository))

	titles := []models.Title{
		{ID: 1, Name: "First", Year: 1990},
		{ID: 2, Name: "Second", Year: 1991},
	}
	params := repository.ListTitlesParams{Page: 1, PageSize: 20}
	titleRepo.On("List", mock.Anything, params).Return(titles, int64(2), nil)
	titleRepo.On("AverageScores", mock.Anything, []int64{1, 2}).
		Return(map[int64]float64{1: 4.4}, nil)

	result, err := svc.List(context.Background(), params)

	assert.NoError(t, err)
	assert.Len(t, result.Data, 2)
	assert.Equal(t, 4, *result.Data[0].Rating)
	assert.Nil(t, result.Data[1].Rating)
	assert.Equal(t, int64(2), result.Total)
}
