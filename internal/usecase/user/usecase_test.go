package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	domain "user-rest-service/internal/domain/user"
	pkgerrors "user-rest-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ExistsByEmailExcludingID(ctx context.Context, email string, id int64) (bool, error) {
	args := m.Called(ctx, email, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) FindByBirthDateBetween(ctx context.Context, from, to time.Time, page, size int) ([]domain.User, int64, error) {
	args := m.Called(ctx, from, to, page, size)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func setupTestService(t *testing.T) (*Service, *MockRepository) {
	mockRepo := new(MockRepository)
	logger := zaptest.NewLogger(t)
	svc := New(mockRepo, logger, 18)
	return svc, mockRepo
}

func validCreateRequest() CreateUserRequest {
	return CreateUserRequest{
		Email:       "john@example.com",
		FirstName:   "John",
		LastName:    "Doe",
		BirthDate:   time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Address:     "123 Street, City",
		PhoneNumber: "1234567890",
	}
}

// ==================== CREATE TESTS ====================

func TestCreate_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()
	req := validCreateRequest()

	mockRepo.On("ExistsByEmail", ctx, req.Email).Return(false, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 0 && u.Email == req.Email && u.FirstName == req.FirstName
	})).Return(&domain.User{
		ID:        1,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
	}, nil)

	resp, err := svc.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, req.Email, resp.Email)

	mockRepo.AssertExpectations(t)
}

func TestCreate_EmailConflict(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()
	req := validCreateRequest()

	mockRepo.On("ExistsByEmail", ctx, req.Email).Return(true, nil)

	resp, err := svc.Create(ctx, req)

	assert.Nil(t, resp)
	var conflict *pkgerrors.ConflictError
	assert.ErrorAs(t, err, &conflict)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_ValidationCollectsAllViolations(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, CreateUserRequest{
		Email:       "not-an-email",
		FirstName:   "Jo",
		PhoneNumber: "12345",
	})

	assert.Nil(t, resp)
	var validation *pkgerrors.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Len(t, validation.Violations, 5)
	assert.Contains(t, validation.Violations, "email: must be a valid email address")
	assert.Contains(t, validation.Violations, "first_name: must be at least 3 characters")
	assert.Contains(t, validation.Violations, "last_name: is required")
	assert.Contains(t, validation.Violations, "birth_date: is required")
	assert.Contains(t, validation.Violations, "phone_number: must be exactly 10 digits")
}

func TestCreate_BirthDateInFuture(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.BirthDate = time.Now().AddDate(1, 0, 0)

	resp, err := svc.Create(ctx, req)

	assert.Nil(t, resp)
	var validation *pkgerrors.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Violations, "birth_date: must be in the past")
}

func TestCreate_AgeBoundaries(t *testing.T) {
	ctx := context.Background()

	t.Run("exactly 18 years old passes", func(t *testing.T) {
		svc, mockRepo := setupTestService(t)
		req := validCreateRequest()
		req.BirthDate = time.Now().AddDate(-18, 0, 0).Add(-time.Hour)

		mockRepo.On("ExistsByEmail", ctx, req.Email).Return(false, nil)
		mockRepo.On("Create", ctx, mock.Anything).Return(&domain.User{ID: 1}, nil)

		_, err := svc.Create(ctx, req)
		assert.NoError(t, err)
	})

	t.Run("18 years minus one day fails", func(t *testing.T) {
		svc, _ := setupTestService(t)
		req := validCreateRequest()
		req.BirthDate = time.Now().AddDate(-18, 0, 1)

		resp, err := svc.Create(ctx, req)
		assert.Nil(t, resp)
		var validation *pkgerrors.ValidationError
		assert.ErrorAs(t, err, &validation)
		assert.Contains(t, validation.Violations, "birth_date: user must be at least 18 years old")
	})
}

func TestCreate_UniquenessCheckFailure(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()
	req := validCreateRequest()

	mockRepo.On("ExistsByEmail", ctx, req.Email).Return(false, errors.New("db down"))

	resp, err := svc.Create(ctx, req)

	assert.Nil(t, resp)
	var internal *pkgerrors.InternalError
	assert.ErrorAs(t, err, &internal)
}

// ==================== UPDATE TESTS ====================

func TestUpdate_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:        5,
		Email:     "john@example.com",
		FirstName: "John",
		LastName:  "Doe",
		BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	mockRepo.On("GetByID", ctx, int64(5)).Return(&domain.User{ID: 5}, nil)
	mockRepo.On("ExistsByEmailExcludingID", ctx, req.Email, int64(5)).Return(false, nil)
	mockRepo.On("Save", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 5 && u.Email == req.Email
	})).Return(&domain.User{ID: 5, Email: req.Email, FirstName: "John", LastName: "Doe"}, nil)

	resp, err := svc.Update(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	mockRepo.AssertExpectations(t)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:        42,
		Email:     "john@example.com",
		FirstName: "John",
		LastName:  "Doe",
		BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	mockRepo.On("GetByID", ctx, int64(42)).Return(nil, nil)

	resp, err := svc.Update(ctx, req)

	assert.Nil(t, resp)
	var notFound *pkgerrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(42), notFound.ID)
}

func TestUpdate_EmailOwnedByAnotherUser(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:        5,
		Email:     "taken@example.com",
		FirstName: "John",
		LastName:  "Doe",
		BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	mockRepo.On("GetByID", ctx, int64(5)).Return(&domain.User{ID: 5}, nil)
	mockRepo.On("ExistsByEmailExcludingID", ctx, req.Email, int64(5)).Return(true, nil)

	resp, err := svc.Update(ctx, req)

	assert.Nil(t, resp)
	var conflict *pkgerrors.ConflictError
	assert.ErrorAs(t, err, &conflict)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdate_OwnEmailIsNotAConflict(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:        5,
		Email:     "john@example.com",
		FirstName: "Johnny",
		LastName:  "Doe",
		BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	mockRepo.On("GetByID", ctx, int64(5)).Return(&domain.User{ID: 5, Email: req.Email}, nil)
	// The exclusion by id makes the user's own email a non-match.
	mockRepo.On("ExistsByEmailExcludingID", ctx, req.Email, int64(5)).Return(false, nil)
	mockRepo.On("Save", ctx, mock.Anything).Return(&domain.User{ID: 5, Email: req.Email}, nil)

	resp, err := svc.Update(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, req.Email, resp.Email)
}

// ==================== PARTIAL UPDATE TESTS ====================

func TestPartialUpdate_MergesSuppliedFields(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	existing := &domain.User{
		ID:        5,
		Email:     "e@x.com",
		FirstName: "Jane",
		LastName:  "Doe",
		BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	mockRepo.On("GetByID", ctx, int64(5)).Return(existing, nil)
	mockRepo.On("Save", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 5 && u.FirstName == "John" && u.LastName == "Doe" && u.Email == "e@x.com"
	})).Return(&domain.User{ID: 5, Email: "e@x.com", FirstName: "John", LastName: "Doe"}, nil)

	resp, err := svc.PartialUpdate(ctx, PatchUserRequest{ID: 5, FirstName: "John"})

	assert.NoError(t, err)
	assert.Equal(t, "John", resp.FirstName)
	assert.Equal(t, "Doe", resp.LastName)
	assert.Equal(t, "e@x.com", resp.Email)
	// No email supplied, so no uniqueness check is made.
	mockRepo.AssertNotCalled(t, "ExistsByEmailExcludingID", mock.Anything, mock.Anything, mock.Anything)
}

func TestPartialUpdate_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)

	resp, err := svc.PartialUpdate(ctx, PatchUserRequest{ID: 99, FirstName: "John"})

	assert.Nil(t, resp)
	var notFound *pkgerrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestPartialUpdate_SuppliedEmailConflict(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(5)).Return(&domain.User{ID: 5, Email: "e@x.com"}, nil)
	mockRepo.On("ExistsByEmailExcludingID", ctx, "taken@x.com", int64(5)).Return(true, nil)

	resp, err := svc.PartialUpdate(ctx, PatchUserRequest{ID: 5, Email: "taken@x.com"})

	assert.Nil(t, resp)
	var conflict *pkgerrors.ConflictError
	assert.ErrorAs(t, err, &conflict)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPartialUpdate_InvalidSuppliedField(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	resp, err := svc.PartialUpdate(ctx, PatchUserRequest{ID: 5, Email: "not-an-email"})

	assert.Nil(t, resp)
	var validation *pkgerrors.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Violations, "email: must be a valid email address")
}

func TestPartialUpdate_AbsentFieldsPassPartialProfile(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	existing := &domain.User{ID: 5, Email: "e@x.com", FirstName: "Jane", LastName: "Doe"}
	mockRepo.On("GetByID", ctx, int64(5)).Return(existing, nil)
	mockRepo.On("Save", ctx, mock.Anything).Return(existing, nil)

	// Only the address is supplied; every other rule is skipped.
	resp, err := svc.PartialUpdate(ctx, PatchUserRequest{ID: 5, Address: "456 Avenue"})

	assert.NoError(t, err)
	assert.NotNil(t, resp)
}

// ==================== DELETE TESTS ====================

func TestDelete_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(5)).Return(&domain.User{ID: 5}, nil)
	mockRepo.On("Delete", ctx, int64(5)).Return(nil)

	err := svc.Delete(ctx, 5)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)

	err := svc.Delete(ctx, 99)

	var notFound *pkgerrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// ==================== SEARCH TESTS ====================

func TestSearchByBirthDateRange_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	from := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC)

	found := []domain.User{
		{ID: 1, Email: "a@x.com", BirthDate: time.Date(2000, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Email: "b@x.com", BirthDate: time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	mockRepo.On("FindByBirthDateBetween", ctx, from, to, 0, 5).Return(found, int64(7), nil)

	resp, err := svc.SearchByBirthDateRange(ctx, SearchUsersRequest{From: from, To: to, Page: 0, Size: 5})

	assert.NoError(t, err)
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, 0, resp.CurrentPage)
	assert.Equal(t, 5, resp.Size)
	assert.Equal(t, int64(7), resp.TotalElements)
	assert.Equal(t, 2, resp.TotalPages)
}

func TestSearchByBirthDateRange_AppliesDefaults(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	from := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC)

	mockRepo.On("FindByBirthDateBetween", ctx, from, to, 0, 5).Return([]domain.User{}, int64(0), nil)

	resp, err := svc.SearchByBirthDateRange(ctx, SearchUsersRequest{From: from, To: to, Page: -1, Size: 0})

	assert.NoError(t, err)
	assert.Equal(t, 0, resp.CurrentPage)
	assert.Equal(t, 5, resp.Size)
	assert.Equal(t, 0, resp.TotalPages)
}

// ==================== AGE CALCULATION TESTS ====================

func TestAgeInYears(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		birthDate time.Time
		want      int
	}{
		{"birthday today", time.Date(2008, 8, 31, 0, 0, 0, 0, time.UTC), 18},
		{"birthday tomorrow", time.Date(2008, 9, 1, 0, 0, 0, 0, time.UTC), 17},
		{"birthday yesterday", time.Date(2008, 8, 30, 0, 0, 0, 0, time.UTC), 18},
		{"leap day birth, after feb", time.Date(2008, 2, 29, 0, 0, 0, 0, time.UTC), 18},
		{"earlier month", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), 36},
		{"later month", time.Date(1990, 12, 1, 0, 0, 0, 0, time.UTC), 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ageInYears(tt.birthDate, now))
		})
	}
}
