package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/DhavalSuthar-24/profiles/internal/models"
	"github.com/DhavalSuthar-24/profiles/internal/store"
	"github.com/DhavalSuthar-24/profiles/pkg/logger"
	"github.com/DhavalSuthar-24/profiles/pkg/validator"
	playground "github.com/go-playground/validator/v10"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Service runs the user interactions against a store.
type Service struct {
	store    store.Store
	validate *playground.Validate
}

func NewService(st store.Store, v *playground.Validate) *Service {
	return &Service{store: st, validate: v}
}

// CreateUser builds a user from in, attaches the named interests and skills
// (creating catalog entries that do not exist yet) and saves everything in
// one transaction.
//
// A malformed input returns an *InputError and has no side effects. Entity
// validation failures are not errors: they come back in Outcome.Errors along
// with the unsaved user.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*Outcome, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, &InputError{Fields: validator.ParseError(err)}
	}

	age := *in.Age
	u := &models.User{
		Name:        *in.Name,
		Surname:     *in.Surname,
		Patronymic:  *in.Patronymic,
		Email:       *in.Email,
		Nationality: *in.Nationality,
		Country:     *in.Country,
		Gender:      *in.Gender,
		Age:         &age,
	}
	if in.Fullname != nil {
		u.Fullname = *in.Fullname
	} else {
		u.Fullname = models.DeriveFullname(u.Surname, u.Name, u.Patronymic)
	}

	if err := s.attachInterests(ctx, u, in.Interests); err != nil {
		return nil, err
	}
	if err := s.attachSkills(ctx, u, in.Skills); err != nil {
		return nil, err
	}

	errs, err := s.save(ctx, u)
	if err != nil {
		return nil, err
	}

	log := logger.From(ctx)
	if errs.Any() {
		log.Info("user rejected", slog.Any("fields", errs.Fields()))
		log.Debug("user rejected", slog.String("email", u.Email), slog.Any("errors", errs))
	} else {
		log.Info("user created", slog.Uint64("user_id", uint64(u.ID)),
			slog.Int("interests", len(u.Interests)), slog.Int("skills", len(u.Skills)))
	}
	return &Outcome{User: u, Errors: errs}, nil
}

// AttachInterests links more interests to an existing user.
func (s *Service) AttachInterests(ctx context.Context, id uint, in AttachInput) (*Outcome, error) {
	return s.attach(ctx, id, in, s.attachInterests)
}

// AttachSkills links more skills to an existing user.
func (s *Service) AttachSkills(ctx context.Context, id uint, in AttachInput) (*Outcome, error) {
	return s.attach(ctx, id, in, s.attachSkills)
}

func (s *Service) attach(ctx context.Context, id uint, in AttachInput,
	attachFn func(context.Context, *models.User, []string) error) (*Outcome, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, &InputError{Fields: validator.ParseError(err)}
	}

	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := attachFn(ctx, u, in.Names); err != nil {
		return nil, err
	}

	errs, err := s.save(ctx, u)
	if err != nil {
		return nil, err
	}
	return &Outcome{User: u, Errors: errs}, nil
}

func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.store.UserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// NormalizePage clamps page to at least 1 and pageSize to [1, 100],
// defaulting an unset pageSize to 10.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// ListUsers pages through users ordered by id, normalized by NormalizePage.
func (s *Service) ListUsers(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	page, pageSize = NormalizePage(page, pageSize)

	users, total, err := s.store.ListUsers(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// DeleteUser removes the user and its links. Interests and skills stay in
// the catalog.
func (s *Service) DeleteUser(ctx context.Context, id uint) error {
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		if err := r.UnlinkAllForUser(ctx, id); err != nil {
			return err
		}
		return r.DeleteUser(ctx, id)
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	logger.From(ctx).Info("user deleted", slog.Uint64("user_id", uint64(id)))
	return nil
}

// attachInterests resolves every name to the existing interest or to a new,
// unsaved one and attaches it unless the user already has it.
func (s *Service) attachInterests(ctx context.Context, u *models.User, names []string) error {
	for _, name := range names {
		if u.HasInterest(name) {
			continue
		}
		interest, err := s.store.InterestByName(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			interest, err = &models.Interest{Name: name}, nil
		}
		if err != nil {
			return fmt.Errorf("resolve interest %q: %w", name, err)
		}
		u.AttachInterest(*interest)
	}
	return nil
}

func (s *Service) attachSkills(ctx context.Context, u *models.User, names []string) error {
	for _, name := range names {
		if u.HasSkill(name) {
			continue
		}
		skill, err := s.store.SkillByName(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			skill, err = &models.Skill{Name: name}, nil
		}
		if err != nil {
			return fmt.Errorf("resolve skill %q: %w", name, err)
		}
		u.AttachSkill(*skill)
	}
	return nil
}

// save validates u and writes the user row (when new), any new catalog
// entries and every missing link in one transaction. Constraint violations
// raised by the store, e.g. an email inserted concurrently after our
// uniqueness check, come back as entity errors.
func (s *Service) save(ctx context.Context, u *models.User) (validator.Errors, error) {
	errs, err := u.Validate(ctx, s.validate, s.store)
	if err != nil {
		return nil, fmt.Errorf("validate user: %w", err)
	}
	if errs.Any() {
		return errs, nil
	}

	isNew := !u.Persisted()
	interests := slices.Clone(u.Interests)
	skills := slices.Clone(u.Skills)

	err = s.store.Atomic(ctx, func(r store.Repository) error {
		if isNew {
			if err := r.CreateUser(ctx, u); err != nil {
				return err
			}
		}
		if err := upsertPending(ctx, interests, interestName, r.UpsertInterests); err != nil {
			return err
		}
		for _, interest := range interests {
			linked, err := r.InterestLinked(ctx, u.ID, interest.ID)
			if err != nil {
				return err
			}
			if !linked {
				if err := r.LinkInterest(ctx, u.ID, interest.ID); err != nil {
					return err
				}
			}
		}
		if err := upsertPending(ctx, skills, skillName, r.UpsertSkills); err != nil {
			return err
		}
		for _, skill := range skills {
			linked, err := r.SkillLinked(ctx, u.ID, skill.ID)
			if err != nil {
				return err
			}
			if !linked {
				if err := r.LinkSkill(ctx, u.ID, skill.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if isNew {
			u.ID = 0
			u.CreatedAt, u.UpdatedAt = time.Time{}, time.Time{}
		}
		var ce *store.ConstraintError
		if errors.As(err, &ce) && ce.Field != "" {
			msg := validator.MsgInvalid
			if errors.Is(ce, store.ErrAlreadyExists) {
				msg = validator.MsgTaken
			}
			return validator.Errors{ce.Field: {msg}}, nil
		}
		return nil, fmt.Errorf("save user: %w", err)
	}

	u.Interests = interests
	u.Skills = skills
	return errs, nil
}

// upsertPending resolves every unpersisted entry of list through one batch
// upsert and writes the stored rows back in place.
func upsertPending[T interface{ Persisted() bool }](
	ctx context.Context, list []T, name func(T) string, upsert func(context.Context, []string) ([]T, error),
) error {
	var names []string
	var at []int
	for i := range list {
		if !list[i].Persisted() {
			names = append(names, name(list[i]))
			at = append(at, i)
		}
	}
	if len(names) == 0 {
		return nil
	}
	got, err := upsert(ctx, names)
	if err != nil {
		return err
	}
	for n, i := range at {
		list[i] = got[n]
	}
	return nil
}

func interestName(i models.Interest) string { return i.Name }
func skillName(s models.Skill) string { return s.Name }
