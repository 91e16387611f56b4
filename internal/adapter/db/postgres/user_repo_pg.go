package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "user-rest-service/internal/domain/user"
	pkgerrors "user-rest-service/pkg/errors"
	"user-rest-service/pkg/security"
)

// UserRepo implements the user Repository interface using GORM.
// Audit columns are stamped here from the request actor carried in context;
// callers never supply them.
type UserRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepo creates a new UserRepo instance.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema represents the database schema for the service_user table.
// The unique index on email is the authoritative guard against concurrent
// creates racing past the service-level uniqueness check.
type UserSchema struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	Email            string    `gorm:"column:email;not null;unique"`
	FirstName        string    `gorm:"column:first_name;not null"`
	LastName         string    `gorm:"column:last_name;not null"`
	BirthDate        time.Time `gorm:"column:birth_date;not null"`
	Address          string    `gorm:"column:address"`
	PhoneNumber      string    `gorm:"column:phone_number"`
	CreatedDate      int64     `gorm:"column:created_date"`
	LastModifiedDate int64     `gorm:"column:last_modified_date"`
	CreatedBy        string    `gorm:"column:created_by"`
	LastModifiedBy   string    `gorm:"column:last_modified_by"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "service_user"
}

// mutableColumns are the columns a Save is allowed to touch. The creation
// audit columns stay owned by the row they were stamped on.
var mutableColumns = []string{
	"email", "first_name", "last_name", "birth_date",
	"address", "phone_number", "last_modified_date", "last_modified_by",
}

// Create inserts a new user, assigning its id and stamping all audit columns.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	actor := security.ActorFromContext(ctx)
	now := time.Now().UnixMilli()

	model := UserSchema{
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		BirthDate:        u.BirthDate,
		Address:          u.Address,
		PhoneNumber:      u.PhoneNumber,
		CreatedDate:      now,
		LastModifiedDate: now,
		CreatedBy:        actor,
		LastModifiedBy:   actor,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Warn("unique constraint rejected create", zap.String("email", u.Email))
			return nil, pkgerrors.NewConflictError("User", "email")
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID), zap.String("created_by", actor))
	return schemaToDomain(&model), nil
}

// Save persists a full replacement of an existing user. The id and creation
// audit columns are preserved; last-modified columns are restamped.
func (r *UserRepo) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	actor := security.ActorFromContext(ctx)

	update := UserSchema{
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		BirthDate:        u.BirthDate,
		Address:          u.Address,
		PhoneNumber:      u.PhoneNumber,
		LastModifiedDate: time.Now().UnixMilli(),
		LastModifiedBy:   actor,
	}

	err := r.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("id = ?", u.ID).
		Select(mutableColumns).
		Updates(update).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Warn("unique constraint rejected update", zap.Int64("id", u.ID), zap.String("email", u.Email))
			return nil, pkgerrors.NewConflictError("User", "email")
		}
		r.log.Error("failed to update user in db", zap.Error(err), zap.Int64("id", u.ID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, u.ID).Error; err != nil {
		r.log.Error("failed to reload user after update", zap.Error(err), zap.Int64("id", u.ID))
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}

	r.log.Info("user updated in db", zap.Int64("id", model.ID), zap.String("modified_by", actor))
	return schemaToDomain(&model), nil
}

// Delete removes a user from the database by ID.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&UserSchema{}, id).Error; err != nil {
		r.log.Error("failed to delete user in db", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}

// GetByID retrieves a user by their unique ID.
// Returns (nil, nil) when no user exists for the id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return schemaToDomain(&model), nil
}

// ExistsByEmail reports whether any user owns the given email.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		r.log.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return count > 0, nil
}

// ExistsByEmailExcludingID reports whether a user other than id owns the email.
func (r *UserRepo) ExistsByEmailExcludingID(ctx context.Context, email string, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("email = ? AND id <> ?", email, id).
		Count(&count).Error
	if err != nil {
		r.log.Error("failed to check email existence", zap.Error(err), zap.String("email", email), zap.Int64("id", id))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return count > 0, nil
}

// FindByBirthDateBetween returns one zero-indexed page of users whose birth
// date falls in the inclusive [from, to] range, plus the total match count.
func (r *UserRepo) FindByBirthDateBetween(ctx context.Context, from, to time.Time, page, size int) ([]domain.User, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("birth_date BETWEEN ? AND ?", from, to).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		r.log.Error("failed to count users by birth date range", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var models []UserSchema
	err := base.
		Order("id").
		Offset(page * size).
		Limit(size).
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list users by birth date range", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]domain.User, len(models))
	for i := range models {
		users[i] = *schemaToDomain(&models[i])
	}

	return users, total, nil
}

func schemaToDomain(model *UserSchema) *domain.User {
	return &domain.User{
		ID:               model.ID,
		Email:            model.Email,
		FirstName:        model.FirstName,
		LastName:         model.LastName,
		BirthDate:        model.BirthDate,
		Address:          model.Address,
		PhoneNumber:      model.PhoneNumber,
		CreatedDate:      model.CreatedDate,
		LastModifiedDate: model.LastModifiedDate,
		CreatedBy:        model.CreatedBy,
		LastModifiedBy:   model.LastModifiedBy,
	}
}
