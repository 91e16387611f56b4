package user

import "context"

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	Create(ctx context.Context, in CreateUserRequest) (*UserResponse, error)
	Update(ctx context.Context, in UpdateUserRequest) (*UserResponse, error)
	PartialUpdate(ctx context.Context, in PatchUserRequest) (*UserResponse, error)
	Delete(ctx context.Context, id int64) error
	SearchByBirthDateRange(ctx context.Context, in SearchUsersRequest) (*SearchUsersResponse, error)
}
