package user

import (
	"time"

	domain "user-rest-service/internal/domain/user"
)

// CreateUserRequest represents the payload for creating a new user.
// All field rules apply (full validation profile).
type CreateUserRequest struct {
	Email       string    `validate:"required,email"`
	FirstName   string    `validate:"required,min=3,max=30"`
	LastName    string    `validate:"required"`
	BirthDate   time.Time `validate:"required,lt,adult"`
	Address     string    `validate:"omitempty"`
	PhoneNumber string    `validate:"omitempty,phone"`
}

// UpdateUserRequest represents the payload for a full user replacement.
// All field rules apply (full validation profile).
type UpdateUserRequest struct {
	ID          int64     `validate:"required"`
	Email       string    `validate:"required,email"`
	FirstName   string    `validate:"required,min=3,max=30"`
	LastName    string    `validate:"required"`
	BirthDate   time.Time `validate:"required,lt,adult"`
	Address     string    `validate:"omitempty"`
	PhoneNumber string    `validate:"omitempty,phone"`
}

// PatchUserRequest represents the payload for a partial update.
// Rules apply only to fields actually supplied (partial validation profile);
// zero values count as absent.
type PatchUserRequest struct {
	ID          int64     `validate:"required"`
	Email       string    `validate:"omitempty,email"`
	FirstName   string    `validate:"omitempty,min=3,max=30"`
	LastName    string    `validate:"omitempty"`
	BirthDate   time.Time `validate:"omitempty,lt,adult"`
	Address     string    `validate:"omitempty"`
	PhoneNumber string    `validate:"omitempty,phone"`
}

// SearchUsersRequest represents a birth date range search.
// The range is inclusive on both ends; pages are zero-indexed.
type SearchUsersRequest struct {
	From time.Time
	To   time.Time
	Page int
	Size int
}

// UserResponse represents a user as returned to callers.
// Audit metadata is never part of the response.
type UserResponse struct {
	ID          int64
	Email       string
	FirstName   string
	LastName    string
	BirthDate   time.Time
	Address     string
	PhoneNumber string
}

// SearchUsersResponse represents one page of search results.
type SearchUsersResponse struct {
	Users         []UserResponse
	CurrentPage   int
	Size          int
	TotalElements int64
	TotalPages    int
}

func createRequestToDomain(in CreateUserRequest) *domain.User {
	return &domain.User{
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		BirthDate:   in.BirthDate,
		Address:     in.Address,
		PhoneNumber: in.PhoneNumber,
	}
}

func updateRequestToDomain(in UpdateUserRequest) *domain.User {
	return &domain.User{
		ID:          in.ID,
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		BirthDate:   in.BirthDate,
		Address:     in.Address,
		PhoneNumber: in.PhoneNumber,
	}
}

func patchRequestToDomain(in PatchUserRequest) domain.User {
	return domain.User{
		ID:          in.ID,
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		BirthDate:   in.BirthDate,
		Address:     in.Address,
		PhoneNumber: in.PhoneNumber,
	}
}

func domainToResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		BirthDate:   u.BirthDate,
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
	}
}
