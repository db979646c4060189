package service

import (
	"context"
	"errors"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UpdateProfileInput carries the fields of a profile update request. Nil
// pointers leave the corresponding field unchanged.
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UserService handles user profile business logic
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Get returns the user with the given ID.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// UpdateProfile applies the changes to the user's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string][]string{}
	if input.Name != nil {
		if err := validation.ValidateName(*input.Name); err != nil {
			fields["name"] = append(fields["name"], err.Error())
		}
	}
	if input.Email != nil {
		if err := validation.ValidateEmail(*input.Email); err != nil {
			fields["email"] = append(fields["email"], err.Error())
		}
	}
	if input.Password != nil {
		if err := validation.ValidatePassword(*input.Password); err != nil {
			fields["password"] = append(fields["password"], err.Error())
		}
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError("The given data was invalid", fields)
	}

	if input.Email != nil && *input.Email != user.Email {
		existing, err := s.userRepo.GetByEmail(ctx, *input.Email)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if existing != nil {
			return nil, models.NewFieldValidationError("The given data was invalid", map[string][]string{
				"email": {"The email has already been taken"},
			})
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, models.NewFieldValidationError("The given data was invalid", map[string][]string{
				"email": {"The email has already been taken"},
			})
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}
