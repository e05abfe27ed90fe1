// Package store defines the persistence boundary for users, the interest
// and skill catalog, and the link tables joining them.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/DhavalSuthar-24/profiles/internal/models"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a write violates a unique key.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalid is returned when a write violates a check constraint.
	ErrInvalid = errors.New("invalid value")
)

// ConstraintError reports a storage constraint violation on a field of the
// written entity.
type ConstraintError struct {
	Field      string
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: constraint %s: %v", e.Field, e.Constraint, e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// UserRepository stores users.
type UserRepository interface {
	// CreateUser inserts the user row only; links are written separately.
	CreateUser(ctx context.Context, u *models.User) error
	// UserByID returns the user with its interests and skills loaded.
	UserByID(ctx context.Context, id uint) (*models.User, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	ListUsers(ctx context.Context, page, pageSize int) ([]models.User, int64, error)
	DeleteUser(ctx context.Context, id uint) error
}

// CatalogRepository stores the shared interests and skills.
type CatalogRepository interface {
	InterestByName(ctx context.Context, name string) (*models.Interest, error)
	// UpsertInterest returns the interest named name, inserting it first when
	// it does not exist. Concurrent callers always end up with the same row.
	UpsertInterest(ctx context.Context, name string) (*models.Interest, error)
	// UpsertInterests upserts every name in ascending name order and returns
	// the rows in the order of names. Transactions creating overlapping sets
	// of new names lock them in the same order and cannot deadlock.
	UpsertInterests(ctx context.Context, names []string) ([]models.Interest, error)
	ListInterests(ctx context.Context) ([]models.Interest, error)

	SkillByName(ctx context.Context, name string) (*models.Skill, error)
	UpsertSkill(ctx context.Context, name string) (*models.Skill, error)
	UpsertSkills(ctx context.Context, names []string) ([]models.Skill, error)
	ListSkills(ctx context.Context) ([]models.Skill, error)
}

// LinkRepository manages the user_id/catalog_id pairs.
type LinkRepository interface {
	// LinkInterest is idempotent: linking an existing pair is a no-op.
	LinkInterest(ctx context.Context, userID, interestID uint) error
	InterestLinked(ctx context.Context, userID, interestID uint) (bool, error)
	InterestsForUser(ctx context.Context, userID uint) ([]models.Interest, error)

	LinkSkill(ctx context.Context, userID, skillID uint) error
	SkillLinked(ctx context.Context, userID, skillID uint) (bool, error)
	SkillsForUser(ctx context.Context, userID uint) ([]models.Skill, error)

	// UnlinkAllForUser removes every interest and skill link of the user.
	UnlinkAllForUser(ctx context.Context, userID uint) error
}

// Repository is everything that can run inside a transaction.
type Repository interface {
	UserRepository
	CatalogRepository
	LinkRepository
}

// Store is a Repository that can also group writes atomically.
type Store interface {
	Repository
	// Atomic runs fn in a single transaction. Nothing fn wrote is visible
	// when it returns an error.
	Atomic(ctx context.Context, fn func(r Repository) error) error
	Close() error
}
