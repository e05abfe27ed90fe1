package user

import (
	"errors"

	"github.com/DhavalSuthar-24/profiles/internal/models"
	"github.com/DhavalSuthar-24/profiles/pkg/validator"
)

var (
	// ErrInvalidInput is the sentinel every *InputError unwraps to.
	ErrInvalidInput = errors.New("invalid input")
	ErrUserNotFound = errors.New("user not found")
)

// CreateUserInput is the argument set of the create-user interaction.
// Required fields are pointers so that an omitted field can be told apart
// from an empty one.
type CreateUserInput struct {
	Name        *string  `json:"name" validate:"required" example:"Ivan"`
	Surname     *string  `json:"surname" validate:"required" example:"Petrov"`
	Patronymic  *string  `json:"patronymic" validate:"required" example:"Sergeevich"`
	Email       *string  `json:"email" validate:"required" example:"ivan@example.com"`
	Nationality *string  `json:"nationality" validate:"required" example:"Russian"`
	Country     *string  `json:"country" validate:"required" example:"Russia"`
	Gender      *string  `json:"gender" validate:"required" example:"male"`
	Age         *int     `json:"age" validate:"required" example:"30"`
	Fullname    *string  `json:"fullname,omitempty"`
	Interests   []string `json:"interests,omitempty"`
	Skills      []string `json:"skills,omitempty"`
}

// AttachInput names interests or skills to add to an existing user.
type AttachInput struct {
	Names []string `json:"names" validate:"required"`
}

// InputError rejects a malformed call before anything is built or written.
type InputError struct {
	Fields validator.Errors
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Fields.Error()
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// Outcome is the result of an interaction. A non-empty Errors means nothing
// was written and User is the rejected, unpersisted record.
type Outcome struct {
	User   *models.User     `json:"user"`
	Errors validator.Errors `json:"errors,omitempty"`
}

func (o *Outcome) Success() bool {
	return !o.Errors.Any() && o.User != nil && o.User.Persisted()
}
