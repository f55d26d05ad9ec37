package movie_test

import (
	"context"
	"errors"
	"testing"

	"moviecatalog/errs"
	"moviecatalog/movie"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, mv movie.Movie) (bool, error) {
	args := m.Called(ctx, mv)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) GetAll(ctx context.Context, opts movie.GetAllOptions) ([]movie.Movie, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *mockRepository) GetCount(ctx context.Context, opts movie.GetAllOptions) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id, userID string) (*movie.Movie, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movie.Movie), args.Error(1)
}

func (m *mockRepository) GetBySlug(ctx context.Context, slug, userID string) (*movie.Movie, error) {
	args := m.Called(ctx, slug, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movie.Movie), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, mv movie.Movie) (bool, error) {
	args := m.Called(ctx, mv)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockRatingSource struct {
	mock.Mock
}

func (m *mockRatingSource) GetRating(ctx context.Context, movieID string) (*float64, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *mockRatingSource) GetRatingWithUser(ctx context.Context, movieID, userID string) (*float64, *int, error) {
	args := m.Called(ctx, movieID, userID)
	var avg *float64
	var own *int
	if args.Get(0) != nil {
		avg = args.Get(0).(*float64)
	}
	if args.Get(1) != nil {
		own = args.Get(1).(*int)
	}
	return avg, own, args.Error(2)
}

func validMovie() movie.Movie {
	return movie.Movie{
		ID:            "8b42c21e-55b1-4f93-9d4b-f1a0b2d3c4e5",
		Title:         "Inception",
		YearOfRelease: 2010,
		Genres:        []string{"Sci-Fi", "Thriller"},
	}
}

func TestCreate(t *testing.T) {
	m := validMovie()
	repo := new(mockRepository)
	repo.On("GetBySlug", mock.Anything, "inception-2010", "").Return(nil, nil)
	repo.On("Create", mock.Anything, m).Return(true, nil)
	uc := movie.NewUsecase(repo, new(mockRatingSource))

	created, err := uc.Create(context.Background(), m)

	require.NoError(t, err)
	assert.True(t, created)
	repo.AssertExpectations(t)
}

func TestCreateInvalidMovieSkipsRepository(t *testing.T) {
	m := validMovie()
	m.Title = ""
	repo := new(mockRepository)
	repo.On("GetBySlug", mock.Anything, mock.Anything, "").Return(nil, nil)
	uc := movie.NewUsecase(repo, new(mockRatingSource))

	_, err := uc.Create(context.Background(), m)

	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateDuplicateSlug(t *testing.T) {
	m := validMovie()
	other := validMovie()
	other.ID = "b0000000-0000-0000-0000-000000000001"
	repo := new(mockRepository)
	repo.On("GetBySlug", mock.Anything, "inception-2010", "").Return(&other, nil)
	uc := movie.NewUsecase(repo, new(mockRatingSource))

	_, err := uc.Create(context.Background(), m)

	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "slug", verr.Fields[0].Field)
	assert.Equal(t, "This movie already exists.", verr.Fields[0].Message)
	repo.AssertNotCalled(t, "Create")
}

func TestGetAll(t *testing.T) {
	opts := movie.GetAllOptions{Page: 1, PageSize: 10}
	repo := new(mockRepository)
	repo.On("GetAll", mock.Anything, opts).Return([]movie.Movie{validMovie()}, nil)
	repo.On("GetCount", mock.Anything, opts).Return(42, nil)
	uc := movie.NewUsecase(repo, new(mockRatingSource))

	result, err := uc.GetAll(context.Background(), opts)

	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, 42, result.Total)
	assert.True(t, result.HasNextPage())
}

func TestGetAllRejectsUnknownSortField(t *testing.T) {
	opts := movie.GetAllOptions{SortField: "rating", Page: 1, PageSize: 10}
	repo := new(mockRepository)
	uc := movie.NewUsecase(repo, new(mockRatingSource))

	_, err := uc.GetAll(context.Background(), opts)

	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	repo.AssertNotCalled(t, "GetAll")
}

func TestGetAllRejectsOversizedPage(t *testing.T) {
	opts := movie.GetAllOptions{Page: 1, PageSize: 26}
	uc := movie.NewUsecase(new(mockRepository), new(mockRatingSource))

	_, err := uc.GetAll(context.Background(), opts)

	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdateMissingMovie(t *testing.T) {
	m := validMovie()
	repo := new(mockRepository)
	repo.On("GetBySlug", mock.Anything, "inception-2010", "").Return(nil, nil)
	repo.On("ExistsByID", mock.Anything, m.ID).Return(false, nil)
	uc := movie.NewUsecase(repo, new(mockRatingSource))

	updated, err := uc.Update(context.Background(), m, "")

	require.NoError(t, err)
	assert.Nil(t, updated)
	repo.AssertNotCalled(t, "Update")
}

func TestUpdateAttachesAggregateRating(t *testing.T) {
	m := validMovie()
	avg := 4.2
	repo := new(mockRepository)
	repo.On("GetBySlug", mock.Anything, "inception-2010", "").Return(&m, nil)
	repo.On("ExistsByID", mock.Anything, m.ID).Return(true, nil)
	repo.On("Update", mock.Anything, m).Return(true, nil)
	ratings := new(mockRatingSource)
	ratings.On("GetRating", mock.Anything, m.ID).Return(&avg, nil)
	uc := movie.NewUsecase(repo, ratings)

	updated, err := uc.Update(context.Background(), m, "")

	require.NoError(t, err)
	require.NotNil(t, updated)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 4.2, *updated.Rating)
	assert.Nil(t, updated.UserRating)
	ratings.AssertNotCalled(t, "GetRatingWithUser")
}

func TestUpdateAttachesUserRating(t *testing.T) {
	m := validMovie()
	avg := 4.2
	own := 5
	userID := "a54a5f20-7a8c-4a3f-9c07-5f0a8d9a1c11"
	repo := new(mockRepository)
	repo.On("GetBySlug", mock.Anything, "inception-2010", "").Return(&m, nil)
	repo.On("ExistsByID", mock.Anything, m.ID).Return(true, nil)
	repo.On("Update", mock.Anything, m).Return(true, nil)
	ratings := new(mockRatingSource)
	ratings.On("GetRatingWithUser", mock.Anything, m.ID, userID).Return(&avg, &own, nil)
	uc := movie.NewUsecase(repo, ratings)

	updated, err := uc.Update(context.Background(), m, userID)

	require.NoError(t, err)
	require.NotNil(t, updated)
	require.NotNil(t, updated.UserRating)
	assert.Equal(t, 5, *updated.UserRating)
}

func TestDeleteByID(t *testing.T) {
	repo := new(mockRepository)
	repo.On("DeleteByID", mock.Anything, "some-id").Return(true, nil)
	uc := movie.NewUsecase(repo, new(mockRatingSource))

	deleted, err := uc.DeleteByID(context.Background(), "some-id")

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestGetAllPropagatesRepositoryError(t *testing.T) {
	opts := movie.GetAllOptions{Page: 1, PageSize: 10}
	repo := new(mockRepository)
	repo.On("GetAll", mock.Anything, opts).Return(nil, errors.New("connection reset"))
	uc := movie.NewUsecase(repo, new(mockRatingSource))

	_, err := uc.GetAll(context.Background(), opts)

	require.Error(t, err)
}
