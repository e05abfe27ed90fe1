package models

import (
	"context"

	"github.com/DhavalSuthar-24/profiles/pkg/validator"
	playground "github.com/go-playground/validator/v10"
)

// Interest is shared by every user that lists it; it is unique by name.
type Interest struct {
	Base
	Name string `json:"name" gorm:"not null;uniqueIndex:idx_interests_name"`
}

// Skill has the same sharing semantics as Interest.
type Skill struct {
	Base
	Name string `json:"name" gorm:"not null;uniqueIndex:idx_skills_name"`
}

// Validate checks the name. Uniqueness is left to the store, which resolves
// names through an atomic upsert.
func (i Interest) Validate(ctx context.Context, v *playground.Validate) (validator.Errors, error) {
	return validator.Run(ctx, validator.Rule{Field: "name", Check: validator.Tag(v, i.Name, "present")})
}

func (i Interest) Valid(v *playground.Validate) bool {
	errs, err := i.Validate(context.Background(), v)
	return err == nil && !errs.Any()
}

func (s Skill) Validate(ctx context.Context, v *playground.Validate) (validator.Errors, error) {
	return validator.Run(ctx, validator.Rule{Field: "name", Check: validator.Tag(v, s.Name, "present")})
}

func (s Skill) Valid(v *playground.Validate) bool {
	errs, err := s.Validate(context.Background(), v)
	return err == nil && !errs.Any()
}
