// Package gormstore implements store.Store on top of gorm and postgres.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/DhavalSuthar-24/profiles/internal/models"
	"github.com/DhavalSuthar-24/profiles/internal/relation"
	"github.com/DhavalSuthar-24/profiles/internal/store"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ store.Store = (*Store)(nil)

// constraintFields maps database constraint names to the entity field they
// guard.
var constraintFields = map[string]string{
	"idx_users_email":          "email",
	"idx_interests_name":       "name",
	"idx_skills_name":          "name",
	"idx_interests_users_pair": "interests",
	"idx_skills_users_pair":    "skills",
	"chk_users_age":            "age",
	"chk_users_gender":         "gender",
}

type Store struct {
	db *gorm.DB
}

// New wraps an open gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates every table, index and constraint.
func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Interest{},
		&models.Skill{},
		&relation.InterestsUser{},
		&relation.SkillsUser{},
	)
	if err != nil {
		return fmt.Errorf("gormstore.Migrate: %w", err)
	}
	return nil
}

func (s *Store) Atomic(ctx context.Context, fn func(r store.Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("gormstore.Close: %w", err)
	}
	return sqlDB.Close()
}

// translate maps gorm and postgres errors onto the store sentinels.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %w", op, &store.ConstraintError{
				Field:      constraintFields[pgErr.ConstraintName],
				Constraint: pgErr.ConstraintName,
				Err:        store.ErrAlreadyExists,
			})
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			field := constraintFields[pgErr.ConstraintName]
			if field == "" {
				field = pgErr.ColumnName
			}
			return fmt.Errorf("%s: %w", op, &store.ConstraintError{
				Field:      field,
				Constraint: pgErr.ConstraintName,
				Err:        store.ErrInvalid,
			})
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// upsertByName inserts row unless a row with the same name exists, then
// loads whichever row won into row. ON CONFLICT DO NOTHING waits for a
// concurrent insert of the same name to settle, so the re-read sees it.
func upsertByName[T any](ctx context.Context, db *gorm.DB, row *T, name string) error {
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	return db.WithContext(ctx).Where("name = ?", name).First(row).Error
}

// upsertNames runs upsertByName for each distinct name in sorted order and
// returns the rows lined up with names.
func upsertNames[T any](ctx context.Context, db *gorm.DB, names []string, newRow func(name string) T) ([]T, error) {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	byName := make(map[string]T, len(sorted))
	for _, name := range sorted {
		row := newRow(name)
		if err := upsertByName(ctx, db, &row, name); err != nil {
			return nil, err
		}
		byName[name] = row
	}

	rows := make([]T, len(names))
	for i, name := range names {
		rows[i] = byName[name]
	}
	return rows, nil
}
