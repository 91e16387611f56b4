package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-rest-service/internal/domain/user"
	pkgerrors "user-rest-service/pkg/errors"
)

// Default paging applied when the search request leaves them unset.
const (
	defaultPage = 0
	defaultSize = 5
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// to be used interchangeably.
type Repository interface {
	// Create inserts a new user and returns the persisted entity
	// with its assigned id and audit fields.
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	// GetByID retrieves a user by id. Returns (nil, nil) when no user exists.
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// Save persists a full replacement of an existing user, preserving
	// the creation audit fields owned by the store.
	Save(ctx context.Context, u *domain.User) (*domain.User, error)
	// Delete permanently removes a user by id.
	Delete(ctx context.Context, id int64) error
	// ExistsByEmail reports whether any user owns the given email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByEmailExcludingID reports whether a user other than id owns the email.
	ExistsByEmailExcludingID(ctx context.Context, email string, id int64) (bool, error)
	// FindByBirthDateBetween returns one zero-indexed page of users whose
	// birth date falls in [from, to], plus the total match count.
	FindByBirthDateBetween(ctx context.Context, from, to time.Time, page, size int) ([]domain.User, int64, error)
}

// Service implements the business logic for user management operations.
// It enforces the email uniqueness and id existence invariants; all state
// lives in the repository, none is held across requests.
type Service struct {
	repo        Repository
	log         *zap.Logger
	validate    *validator.Validate
	minAdultAge int
}

// New creates a new Service with the provided repository and logger.
// minAdultAge is the minimum whole-year age accepted for a birth date.
func New(r Repository, log *zap.Logger, minAdultAge int) *Service {
	return &Service{
		repo:        r,
		log:         log,
		validate:    newValidator(minAdultAge),
		minAdultAge: minAdultAge,
	}
}

// Create creates a new user after validating the request and checking email
// uniqueness. Any caller-supplied id is ignored; the store assigns one.
// The uniqueness check here produces a clean Conflict for the common case;
// the store's unique constraint remains the authoritative guard under races.
func (s *Service) Create(ctx context.Context, in CreateUserRequest) (*UserResponse, error) {
	s.log.Info("creating user", zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("create user validation failed", zap.Error(err))
		return nil, s.formatValidationError(err)
	}

	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if exists {
		s.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, pkgerrors.NewConflictError("User", "email")
	}

	created, err := s.repo.Create(ctx, createRequestToDomain(in))
	if err != nil {
		s.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	return domainToResponse(created), nil
}

// Update replaces an existing user entirely after validating the request,
// checking that the id exists and that no other user owns the email.
func (s *Service) Update(ctx context.Context, in UpdateUserRequest) (*UserResponse, error) {
	s.log.Info("updating user", zap.Int64("id", in.ID), zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("update user validation failed", zap.Int64("id", in.ID), zap.Error(err))
		return nil, s.formatValidationError(err)
	}

	if err := s.requireExists(ctx, in.ID); err != nil {
		return nil, err
	}
	if err := s.requireEmailFree(ctx, in.Email, in.ID); err != nil {
		return nil, err
	}

	updated, err := s.repo.Save(ctx, updateRequestToDomain(in))
	if err != nil {
		s.log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return domainToResponse(updated), nil
}

// PartialUpdate merges the supplied fields onto the existing user and
// persists the result. Fields absent from the request retain their values;
// an empty string is treated as absent and never overwrites existing data.
func (s *Service) PartialUpdate(ctx context.Context, in PatchUserRequest) (*UserResponse, error) {
	s.log.Info("partially updating user", zap.Int64("id", in.ID))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("partial update validation failed", zap.Int64("id", in.ID), zap.Error(err))
		return nil, s.formatValidationError(err)
	}

	existing, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		s.log.Error("failed to load user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to load user", err)
	}
	if existing == nil {
		s.log.Warn("user not found", zap.Int64("id", in.ID))
		return nil, pkgerrors.NewNotFoundError("User", in.ID)
	}

	if in.Email != "" {
		if err := s.requireEmailFree(ctx, in.Email, in.ID); err != nil {
			return nil, err
		}
	}

	merged := domain.Merge(*existing, patchRequestToDomain(in))

	updated, err := s.repo.Save(ctx, &merged)
	if err != nil {
		s.log.Error("failed to save merged user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return domainToResponse(updated), nil
}

// Delete permanently removes a user by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.log.Info("deleting user", zap.Int64("id", id))

	if err := s.requireExists(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("failed to delete user", zap.Int64("id", id), zap.Error(err))
		return err
	}

	return nil
}

// SearchByBirthDateRange returns a zero-indexed page of users whose birth
// date falls within the inclusive [from, to] range. The caller is
// responsible for ensuring from <= to.
func (s *Service) SearchByBirthDateRange(ctx context.Context, in SearchUsersRequest) (*SearchUsersResponse, error) {
	if in.Page < 0 {
		in.Page = defaultPage
	}
	if in.Size <= 0 {
		in.Size = defaultSize
	}

	s.log.Info("searching users by birth date range",
		zap.Time("from", in.From),
		zap.Time("to", in.To),
		zap.Int("page", in.Page),
		zap.Int("size", in.Size),
	)

	users, total, err := s.repo.FindByBirthDateBetween(ctx, in.From, in.To, in.Page, in.Size)
	if err != nil {
		s.log.Error("failed to search users", zap.Error(err))
		return nil, err
	}

	page := domain.NewPage(users, in.Page, in.Size, total)

	responses := make([]UserResponse, len(page.Users))
	for i := range page.Users {
		responses[i] = *domainToResponse(&page.Users[i])
	}

	return &SearchUsersResponse{
		Users:         responses,
		CurrentPage:   page.CurrentPage,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}, nil
}

// requireExists fails with NotFound when no user exists for id.
func (s *Service) requireExists(ctx context.Context, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.Error("failed to load user", zap.Int64("id", id), zap.Error(err))
		return pkgerrors.NewInternalError("failed to load user", err)
	}
	if existing == nil {
		s.log.Warn("user not found", zap.Int64("id", id))
		return pkgerrors.NewNotFoundError("User", id)
	}
	return nil
}

// requireEmailFree fails with Conflict when a user other than id owns email.
func (s *Service) requireEmailFree(ctx context.Context, email string, id int64) error {
	taken, err := s.repo.ExistsByEmailExcludingID(ctx, email, id)
	if err != nil {
		s.log.Error("failed to check existing email", zap.String("email", email), zap.Error(err))
		return pkgerrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if taken {
		s.log.Warn("email already owned by another user", zap.String("email", email), zap.Int64("id", id))
		return pkgerrors.NewConflictError("User", "email")
	}
	return nil
}
