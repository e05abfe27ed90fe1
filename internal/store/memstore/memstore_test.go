package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DhavalSuthar-24/profiles/internal/models"
	"github.com/DhavalSuthar-24/profiles/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) *models.User {
	age := 25
	return &models.User{
		Name: "Anna", Patronymic: "Ivanovna", Email: email, Age: &age,
		Nationality: "Russian", Country: "Russia", Gender: models.GenderFemale,
	}
}

func TestCreateUser_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := newUser("anna@example.com")
	require.NoError(t, s.CreateUser(ctx, u))
	assert.True(t, u.Persisted())
	assert.False(t, u.CreatedAt.IsZero())

	err := s.CreateUser(ctx, newUser("anna@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
	var ce *store.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "email", ce.Field)
	assert.Equal(t, "idx_users_email", ce.Constraint)

	taken, err := s.EmailTaken(ctx, "anna@example.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = s.EmailTaken(ctx, "anna@example.com", u.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUpsertInterest_ReturnsSameRow(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, err := s.UpsertInterest(ctx, "hiking")
	require.NoError(t, err)
	second, err := s.UpsertInterest(ctx, "hiking")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = s.InterestByName(ctx, "Hiking")
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.ListInterests(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpsertInterests_InputOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	chess, err := s.UpsertInterest(ctx, "chess")
	require.NoError(t, err)

	got, err := s.UpsertInterests(ctx, []string{"zeta", "chess", "alpha", "zeta"})
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "zeta", got[0].Name)
	assert.Equal(t, chess.ID, got[1].ID)
	assert.Equal(t, "alpha", got[2].Name)
	assert.Equal(t, got[0].ID, got[3].ID)
	assert.Less(t, got[2].ID, got[0].ID)

	skills, err := s.UpsertSkills(ctx, []string{"sql", "go"})
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, "sql", skills[0].Name)
	assert.Less(t, skills[1].ID, skills[0].ID)

	list, err := s.ListInterests(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestUpsertSkill_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	ids := make([]uint, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sk, err := s.UpsertSkill(ctx, "go")
			if assert.NoError(t, err) {
				ids[i] = sk.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	list, err := s.ListSkills(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLinks(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := newUser("anna@example.com")
	require.NoError(t, s.CreateUser(ctx, u))
	chess, err := s.UpsertInterest(ctx, "chess")
	require.NoError(t, err)
	art, err := s.UpsertInterest(ctx, "art")
	require.NoError(t, err)
	goSkill, err := s.UpsertSkill(ctx, "go")
	require.NoError(t, err)

	require.NoError(t, s.LinkInterest(ctx, u.ID, chess.ID))
	require.NoError(t, s.LinkInterest(ctx, u.ID, art.ID))
	require.NoError(t, s.LinkInterest(ctx, u.ID, chess.ID))
	require.NoError(t, s.LinkSkill(ctx, u.ID, goSkill.ID))

	linked, err := s.InterestLinked(ctx, u.ID, chess.ID)
	require.NoError(t, err)
	assert.True(t, linked)

	got, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.Interests, 2)
	assert.Equal(t, "chess", got.Interests[0].Name)
	assert.Equal(t, "art", got.Interests[1].Name)
	require.Len(t, got.Skills, 1)

	assert.ErrorIs(t, s.LinkInterest(ctx, 999, chess.ID), store.ErrNotFound)
	assert.ErrorIs(t, s.LinkSkill(ctx, u.ID, 999), store.ErrNotFound)
}

func TestDeleteUser_CascadesLinksKeepsCatalog(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := newUser("anna@example.com")
	require.NoError(t, s.CreateUser(ctx, u))
	chess, err := s.UpsertInterest(ctx, "chess")
	require.NoError(t, err)
	require.NoError(t, s.LinkInterest(ctx, u.ID, chess.ID))

	require.NoError(t, s.DeleteUser(ctx, u.ID))

	_, err = s.UserByID(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	linked, err := s.InterestLinked(ctx, u.ID, chess.ID)
	require.NoError(t, err)
	assert.False(t, linked)
	_, err = s.InterestByName(ctx, "chess")
	assert.NoError(t, err)

	assert.ErrorIs(t, s.DeleteUser(ctx, u.ID), store.ErrNotFound)
}

func TestAtomic_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	err := s.Atomic(ctx, func(r store.Repository) error {
		u := newUser("anna@example.com")
		if err := r.CreateUser(ctx, u); err != nil {
			return err
		}
		i, err := r.UpsertInterest(ctx, "hiking")
		if err != nil {
			return err
		}
		if err := r.LinkInterest(ctx, u.ID, i.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	users, total, err := s.ListUsers(ctx, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, users)
	_, err = s.InterestByName(ctx, "hiking")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAtomic_Commits(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.Atomic(ctx, func(r store.Repository) error {
		return r.CreateUser(ctx, newUser("anna@example.com"))
	})
	require.NoError(t, err)

	_, total, err := s.ListUsers(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestAtomic_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := New().Atomic(ctx, func(store.Repository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestListUsers_Pages(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		require.NoError(t, s.CreateUser(ctx, newUser(email)))
	}

	users, total, err := s.ListUsers(ctx, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 1)
	assert.Equal(t, "c@x.com", users[0].Email)

	users, _, err = s.ListUsers(ctx, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, users)
}
