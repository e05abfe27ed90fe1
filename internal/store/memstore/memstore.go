// Package memstore implements store.Store with Go maps. It mirrors the
// postgres constraints (unique keys, cascading link deletes) so it can stand
// in for the database in tests and local runs.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/DhavalSuthar-24/profiles/internal/models"
	"github.com/DhavalSuthar-24/profiles/internal/store"
)

var _ store.Store = (*Store)(nil)

type link struct {
	id       uint
	userID   uint
	targetID uint
}

type state struct {
	seq           map[string]uint
	users         map[uint]models.User
	interests     map[uint]models.Interest
	skills        map[uint]models.Skill
	interestLinks []link
	skillLinks    []link
}

func newState() *state {
	return &state{
		seq:       make(map[string]uint),
		users:     make(map[uint]models.User),
		interests: make(map[uint]models.Interest),
		skills:    make(map[uint]models.Skill),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.seq {
		c.seq[k] = v
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.interests {
		c.interests[k] = v
	}
	for k, v := range st.skills {
		c.skills[k] = v
	}
	c.interestLinks = append([]link(nil), st.interestLinks...)
	c.skillLinks = append([]link(nil), st.skillLinks...)
	return c
}

func (st *state) next(table string) uint {
	st.seq[table]++
	return st.seq[table]
}

// Store serializes every operation behind one mutex; Atomic holds it for the
// whole callback, which makes transactions trivially isolated.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

func New() *Store {
	return &Store{st: newState(), now: time.Now}
}

// Atomic runs fn against the live state and restores a snapshot taken
// beforehand when fn fails.
func (s *Store) Atomic(ctx context.Context, fn func(r store.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.st.clone()
	if err := fn(&repo{st: s.st, now: s.now}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) do(fn func(r *repo) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&repo{st: s.st, now: s.now})
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.do(func(r *repo) error { return r.CreateUser(ctx, u) })
}

func (s *Store) UserByID(ctx context.Context, id uint) (u *models.User, err error) {
	err = s.do(func(r *repo) error {
		u, err = r.UserByID(ctx, id)
		return err
	})
	return u, err
}

func (s *Store) EmailTaken(ctx context.Context, email string, exceptID uint) (taken bool, err error) {
	err = s.do(func(r *repo) error {
		taken, err = r.EmailTaken(ctx, email, exceptID)
		return err
	})
	return taken, err
}

func (s *Store) ListUsers(ctx context.Context, page, pageSize int) (users []models.User, total int64, err error) {
	err = s.do(func(r *repo) error {
		users, total, err = r.ListUsers(ctx, page, pageSize)
		return err
	})
	return users, total, err
}

func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.do(func(r *repo) error { return r.DeleteUser(ctx, id) })
}

func (s *Store) InterestByName(ctx context.Context, name string) (i *models.Interest, err error) {
	err = s.do(func(r *repo) error {
		i, err = r.InterestByName(ctx, name)
		return err
	})
	return i, err
}

func (s *Store) UpsertInterest(ctx context.Context, name string) (i *models.Interest, err error) {
	err = s.do(func(r *repo) error {
		i, err = r.UpsertInterest(ctx, name)
		return err
	})
	return i, err
}

func (s *Store) UpsertInterests(ctx context.Context, names []string) (list []models.Interest, err error) {
	err = s.do(func(r *repo) error {
		list, err = r.UpsertInterests(ctx, names)
		return err
	})
	return list, err
}

func (s *Store) ListInterests(ctx context.Context) (list []models.Interest, err error) {
	err = s.do(func(r *repo) error {
		list, err = r.ListInterests(ctx)
		return err
	})
	return list, err
}

func (s *Store) SkillByName(ctx context.Context, name string) (sk *models.Skill, err error) {
	err = s.do(func(r *repo) error {
		sk, err = r.SkillByName(ctx, name)
		return err
	})
	return sk, err
}

func (s *Store) UpsertSkill(ctx context.Context, name string) (sk *models.Skill, err error) {
	err = s.do(func(r *repo) error {
		sk, err = r.UpsertSkill(ctx, name)
		return err
	})
	return sk, err
}

func (s *Store) UpsertSkills(ctx context.Context, names []string) (list []models.Skill, err error) {
	err = s.do(func(r *repo) error {
		list, err = r.UpsertSkills(ctx, names)
		return err
	})
	return list, err
}

func (s *Store) ListSkills(ctx context.Context) (list []models.Skill, err error) {
	err = s.do(func(r *repo) error {
		list, err = r.ListSkills(ctx)
		return err
	})
	return list, err
}

func (s *Store) LinkInterest(ctx context.Context, userID, interestID uint) error {
	return s.do(func(r *repo) error { return r.LinkInterest(ctx, userID, interestID) })
}

func (s *Store) InterestLinked(ctx context.Context, userID, interestID uint) (ok bool, err error) {
	err = s.do(func(r *repo) error {
		ok, err = r.InterestLinked(ctx, userID, interestID)
		return err
	})
	return ok, err
}

func (s *Store) InterestsForUser(ctx context.Context, userID uint) (list []models.Interest, err error) {
	err = s.do(func(r *repo) error {
		list, err = r.InterestsForUser(ctx, userID)
		return err
	})
	return list, err
}

func (s *Store) LinkSkill(ctx context.Context, userID, skillID uint) error {
	return s.do(func(r *repo) error { return r.LinkSkill(ctx, userID, skillID) })
}

func (s *Store) SkillLinked(ctx context.Context, userID, skillID uint) (ok bool, err error) {
	err = s.do(func(r *repo) error {
		ok, err = r.SkillLinked(ctx, userID, skillID)
		return err
	})
	return ok, err
}

func (s *Store) SkillsForUser(ctx context.Context, userID uint) (list []models.Skill, err error) {
	err = s.do(func(r *repo) error {
		list, err = r.SkillsForUser(ctx, userID)
		return err
	})
	return list, err
}

func (s *Store) UnlinkAllForUser(ctx context.Context, userID uint) error {
	return s.do(func(r *repo) error { return r.UnlinkAllForUser(ctx, userID) })
}

// repo operates on state without locking; the caller holds Store.mu.
type repo struct {
	st  *state
	now func() time.Time
}

func (r *repo) CreateUser(ctx context.Context, u *models.User) error {
	const op = "memstore.CreateUser"
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, existing := range r.st.users {
		if existing.Email == u.Email {
			return fmt.Errorf("%s: %w", op, &store.ConstraintError{
				Field:      "email",
				Constraint: "idx_users_email",
				Err:        store.ErrAlreadyExists,
			})
		}
	}

	now := r.now()
	u.ID = r.st.next("users")
	u.CreatedAt, u.UpdatedAt = now, now

	row := *u
	row.Interests, row.Skills = nil, nil
	r.st.users[row.ID] = row
	return nil
}

func (r *repo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, ok := r.st.users[id]
	if !ok {
		return nil, fmt.Errorf("memstore.UserByID: %w", store.ErrNotFound)
	}
	r.loadLinks(&u)
	return &u, nil
}

func (r *repo) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	for id, u := range r.st.users {
		if id != exceptID && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *repo) ListUsers(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	ids := make([]uint, 0, len(r.st.users))
	for id := range r.st.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		return []models.User{}, total, nil
	}
	end := offset + pageSize
	if end > len(ids) {
		end = len(ids)
	}

	users := make([]models.User, 0, end-offset)
	for _, id := range ids[offset:end] {
		u := r.st.users[id]
		r.loadLinks(&u)
		users = append(users, u)
	}
	return users, total, nil
}

func (r *repo) DeleteUser(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := r.st.users[id]; !ok {
		return fmt.Errorf("memstore.DeleteUser: %w", store.ErrNotFound)
	}
	delete(r.st.users, id)
	r.unlinkAll(id)
	return nil
}

func (r *repo) InterestByName(ctx context.Context, name string) (*models.Interest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, i := range r.st.interests {
		if i.Name == name {
			return &i, nil
		}
	}
	return nil, fmt.Errorf("memstore.InterestByName: %w", store.ErrNotFound)
}

func (r *repo) UpsertInterest(ctx context.Context, name string) (*models.Interest, error) {
	if i, err := r.InterestByName(ctx, name); err == nil {
		return i, nil
	} else if ctx.Err() != nil {
		return nil, err
	}

	now := r.now()
	i := models.Interest{Name: name}
	i.ID = r.st.next("interests")
	i.CreatedAt, i.UpdatedAt = now, now
	r.st.interests[i.ID] = i
	return &i, nil
}

// UpsertInterests inserts missing names in sorted order so ids are assigned
// the same way gormstore assigns them.
func (r *repo) UpsertInterests(ctx context.Context, names []string) ([]models.Interest, error) {
	byName := make(map[string]models.Interest, len(names))
	for _, name := range sortedNames(names) {
		i, err := r.UpsertInterest(ctx, name)
		if err != nil {
			return nil, err
		}
		byName[name] = *i
	}
	list := make([]models.Interest, len(names))
	for n, name := range names {
		list[n] = byName[name]
	}
	return list, nil
}

func (r *repo) ListInterests(ctx context.Context) ([]models.Interest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	list := make([]models.Interest, 0, len(r.st.interests))
	for _, i := range r.st.interests {
		list = append(list, i)
	}
	sort.Slice(list, func(a, b int) bool { return list[a].Name < list[b].Name })
	return list, nil
}

func (r *repo) SkillByName(ctx context.Context, name string) (*models.Skill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, s := range r.st.skills {
		if s.Name == name {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("memstore.SkillByName: %w", store.ErrNotFound)
}

func (r *repo) UpsertSkill(ctx context.Context, name string) (*models.Skill, error) {
	if s, err := r.SkillByName(ctx, name); err == nil {
		return s, nil
	} else if ctx.Err() != nil {
		return nil, err
	}

	now := r.now()
	s := models.Skill{Name: name}
	s.ID = r.st.next("skills")
	s.CreatedAt, s.UpdatedAt = now, now
	r.st.skills[s.ID] = s
	return &s, nil
}

func (r *repo) UpsertSkills(ctx context.Context, names []string) ([]models.Skill, error) {
	byName := make(map[string]models.Skill, len(names))
	for _, name := range sortedNames(names) {
		s, err := r.UpsertSkill(ctx, name)
		if err != nil {
			return nil, err
		}
		byName[name] = *s
	}
	list := make([]models.Skill, len(names))
	for n, name := range names {
		list[n] = byName[name]
	}
	return list, nil
}

func sortedNames(names []string) []string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}

func (r *repo) ListSkills(ctx context.Context) ([]models.Skill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	list := make([]models.Skill, 0, len(r.st.skills))
	for _, s := range r.st.skills {
		list = append(list, s)
	}
	sort.Slice(list, func(a, b int) bool { return list[a].Name < list[b].Name })
	return list, nil
}

func (r *repo) LinkInterest(ctx context.Context, userID, interestID uint) error {
	const op = "memstore.LinkInterest"
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := r.st.users[userID]; !ok {
		return fmt.Errorf("%s: user %d: %w", op, userID, store.ErrNotFound)
	}
	if _, ok := r.st.interests[interestID]; !ok {
		return fmt.Errorf("%s: interest %d: %w", op, interestID, store.ErrNotFound)
	}
	if hasLink(r.st.interestLinks, userID, interestID) {
		return nil
	}
	r.st.interestLinks = append(r.st.interestLinks, link{
		id:       r.st.next("interests_users"),
		userID:   userID,
		targetID: interestID,
	})
	return nil
}

func (r *repo) InterestLinked(ctx context.Context, userID, interestID uint) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return hasLink(r.st.interestLinks, userID, interestID), nil
}

func (r *repo) InterestsForUser(ctx context.Context, userID uint) ([]models.Interest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.interestsFor(userID), nil
}

func (r *repo) LinkSkill(ctx context.Context, userID, skillID uint) error {
	const op = "memstore.LinkSkill"
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := r.st.users[userID]; !ok {
		return fmt.Errorf("%s: user %d: %w", op, userID, store.ErrNotFound)
	}
	if _, ok := r.st.skills[skillID]; !ok {
		return fmt.Errorf("%s: skill %d: %w", op, skillID, store.ErrNotFound)
	}
	if hasLink(r.st.skillLinks, userID, skillID) {
		return nil
	}
	r.st.skillLinks = append(r.st.skillLinks, link{
		id:       r.st.next("skills_users"),
		userID:   userID,
		targetID: skillID,
	})
	return nil
}

func (r *repo) SkillLinked(ctx context.Context, userID, skillID uint) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return hasLink(r.st.skillLinks, userID, skillID), nil
}

func (r *repo) SkillsForUser(ctx context.Context, userID uint) ([]models.Skill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.skillsFor(userID), nil
}

func (r *repo) UnlinkAllForUser(ctx context.Context, userID uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.unlinkAll(userID)
	return nil
}

func (r *repo) unlinkAll(userID uint) {
	r.st.interestLinks = dropUser(r.st.interestLinks, userID)
	r.st.skillLinks = dropUser(r.st.skillLinks, userID)
}

func (r *repo) loadLinks(u *models.User) {
	u.Interests = r.interestsFor(u.ID)
	u.Skills = r.skillsFor(u.ID)
}

func (r *repo) interestsFor(userID uint) []models.Interest {
	list := []models.Interest{}
	for _, l := range r.st.interestLinks {
		if l.userID == userID {
			list = append(list, r.st.interests[l.targetID])
		}
	}
	return list
}

func (r *repo) skillsFor(userID uint) []models.Skill {
	list := []models.Skill{}
	for _, l := range r.st.skillLinks {
		if l.userID == userID {
			list = append(list, r.st.skills[l.targetID])
		}
	}
	return list
}

func hasLink(links []link, userID, targetID uint) bool {
	for _, l := range links {
		if l.userID == userID && l.targetID == targetID {
			return true
		}
	}
	return false
}

func dropUser(links []link, userID uint) []link {
	kept := links[:0:0]
	for _, l := range links {
		if l.userID != userID {
			kept = append(kept, l)
		}
	}
	return kept
}
