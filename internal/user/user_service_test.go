package user

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/DhavalSuthar-24/profiles/internal/store"
	"github.com/DhavalSuthar-24/profiles/internal/store/memstore"
	"github.com/DhavalSuthar-24/profiles/pkg/logger"
	"github.com/DhavalSuthar-24/profiles/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validInput() CreateUserInput {
	return CreateUserInput{
		Name:        ptr("Ivan"),
		Surname:     ptr("Petrov"),
		Patronymic:  ptr("Sergeevich"),
		Email:       ptr("ivan@example.com"),
		Nationality: ptr("Russian"),
		Country:     ptr("Russia"),
		Gender:      ptr("male"),
		Age:         ptr(30),
	}
}

func newTestService() (*Service, *memstore.Store) {
	st := memstore.New()
	return NewService(st, validator.New()), st
}

func TestCreateUser_Success(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()

	in := validInput()
	in.Interests = []string{"chess", "hiking"}
	in.Skills = []string{"go"}

	out, err := svc.CreateUser(ctx, in)
	require.NoError(t, err)
	require.True(t, out.Success(), out.Errors.Error())

	assert.Equal(t, "Petrov Ivan Sergeevich", out.User.Fullname)
	require.Len(t, out.User.Interests, 2)
	assert.True(t, out.User.Interests[0].Persisted())
	require.Len(t, out.User.Skills, 1)

	stored, err := st.UserByID(ctx, out.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", stored.Email)
	assert.Len(t, stored.Interests, 2)
	assert.Len(t, stored.Skills, 1)
}

func TestCreateUser_Fullname(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		fullname *string
		surname  string
		want     string
	}{
		{"supplied", ptr("Ivan the Great"), "Petrov", "Ivan the Great"},
		{"explicit empty is kept", ptr(""), "Petrov", ""},
		{"derived", nil, "Petrov", "Petrov Ivan Sergeevich"},
		{"derived skips empty surname", nil, "", "Ivan Sergeevich"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			in := validInput()
			in.Fullname = tt.fullname
			in.Surname = ptr(tt.surname)

			out, err := svc.CreateUser(ctx, in)
			require.NoError(t, err)
			require.True(t, out.Success())
			assert.Equal(t, tt.want, out.User.Fullname)
		})
	}
}

func TestCreateUser_EmailNormalizedAndUnique(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	in := validInput()
	in.Email = ptr("Foo@Bar.com")
	out, err := svc.CreateUser(ctx, in)
	require.NoError(t, err)
	require.True(t, out.Success())
	assert.Equal(t, "foo@bar.com", out.User.Email)

	in.Email = ptr("FOO@BAR.COM")
	out, err = svc.CreateUser(ctx, in)
	require.NoError(t, err)
	assert.False(t, out.Success())
	assert.Equal(t, []string{validator.MsgTaken}, out.Errors["email"])
	assert.Equal(t, "foo@bar.com", out.User.Email)
	assert.False(t, out.User.Persisted())
}

func TestCreateUser_AgeRange(t *testing.T) {
	ctx := context.Background()

	for _, age := range []int{-1, 90} {
		svc, _ := newTestService()
		in := validInput()
		in.Age = ptr(age)
		out, err := svc.CreateUser(ctx, in)
		require.NoError(t, err)
		assert.False(t, out.Success(), age)
		assert.NotEmpty(t, out.Errors["age"], age)
	}
	for _, age := range []int{0, 89} {
		svc, _ := newTestService()
		in := validInput()
		in.Age = ptr(age)
		out, err := svc.CreateUser(ctx, in)
		require.NoError(t, err)
		assert.True(t, out.Success(), age)
	}
}

func TestCreateUser_Gender(t *testing.T) {
	ctx := context.Background()

	svc, _ := newTestService()
	in := validInput()
	in.Gender = ptr("other")
	out, err := svc.CreateUser(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []string{validator.MsgNotIncluded}, out.Errors["gender"])

	for i, g := range []string{"male", "female"} {
		in := validInput()
		in.Gender = ptr(g)
		in.Email = ptr(fmt.Sprintf("u%d@example.com", i))
		out, err := svc.CreateUser(ctx, in)
		require.NoError(t, err)
		assert.True(t, out.Success(), g)
	}
}

func TestCreateUser_DuplicateInterestNames(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()

	in := validInput()
	in.Interests = []string{"chess", "chess"}
	in.Skills = []string{"go", "go"}

	out, err := svc.CreateUser(ctx, in)
	require.NoError(t, err)
	require.True(t, out.Success())
	require.Len(t, out.User.Interests, 1)
	assert.Equal(t, "chess", out.User.Interests[0].Name)
	assert.Len(t, out.User.Skills, 1)

	interests, err := st.ListInterests(ctx)
	require.NoError(t, err)
	assert.Len(t, interests, 1)
}

func TestCreateUser_ReusesExistingInterest(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()

	existing, err := st.UpsertInterest(ctx, "chess")
	require.NoError(t, err)

	in := validInput()
	in.Interests = []string{"chess"}
	out, err := svc.CreateUser(ctx, in)
	require.NoError(t, err)
	require.True(t, out.Success())
	assert.Equal(t, existing.ID, out.User.Interests[0].ID)
}

func TestCreateUser_NewInterestsKeepInputOrder(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()

	chess, err := st.UpsertInterest(ctx, "chess")
	require.NoError(t, err)

	in := validInput()
	in.Interests = []string{"zeta", "chess", "alpha"}
	out, err := svc.CreateUser(ctx, in)
	require.NoError(t, err)
	require.True(t, out.Success())

	got := out.User.Interests
	require.Len(t, got, 3)
	assert.Equal(t, []string{"zeta", "chess", "alpha"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.Equal(t, chess.ID, got[1].ID)
	// new names are inserted in sorted order
	assert.Less(t, got[2].ID, got[0].ID)
}

func TestCreateUser_ConcurrentSameNewInterest(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()

	var wg sync.WaitGroup
	outs := make([]*Outcome, 2)
	for i := range outs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := validInput()
			in.Email = ptr(fmt.Sprintf("hiker%d@example.com", i))
			in.Interests = []string{"hiking"}
			out, err := svc.CreateUser(ctx, in)
			if assert.NoError(t, err) {
				outs[i] = out
			}
		}(i)
	}
	wg.Wait()

	interests, err := st.ListInterests(ctx)
	require.NoError(t, err)
	require.Len(t, interests, 1)
	assert.Equal(t, "hiking", interests[0].Name)

	for _, out := range outs {
		require.NotNil(t, out)
		require.True(t, out.Success())
		stored, err := st.UserByID(ctx, out.User.ID)
		require.NoError(t, err)
		require.Len(t, stored.Interests, 1)
		assert.Equal(t, interests[0].ID, stored.Interests[0].ID)
	}
}

func TestCreateUser_MissingInputHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()

	in := validInput()
	in.Name = nil
	in.Age = nil
	in.Interests = []string{"chess"}

	out, err := svc.CreateUser(ctx, in)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, out)

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, []string{validator.MsgRequired}, inputErr.Fields["name"])
	assert.Equal(t, []string{validator.MsgRequired}, inputErr.Fields["age"])

	interests, err := st.ListInterests(ctx)
	require.NoError(t, err)
	assert.Empty(t, interests)
	_, total, err := st.ListUsers(ctx, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreateUser_InvalidEntityPersistsNothing(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()

	in := validInput()
	in.Email = ptr("not-an-email")
	in.Gender = ptr("other")
	in.Interests = []string{"chess", " "}

	out, err := svc.CreateUser(ctx, in)
	require.NoError(t, err)
	assert.False(t, out.Success())
	assert.Equal(t, []string{"email", "gender", "interests"}, out.Errors.Fields())
	assert.Len(t, out.User.Interests, 2)

	interests, err := st.ListInterests(ctx)
	require.NoError(t, err)
	assert.Empty(t, interests)
}

func TestCreateUser_RejectionLogOmitsEmail(t *testing.T) {
	var buf bytes.Buffer
	ctx := logger.Into(context.Background(), logger.NewWithWriter(&buf, "info"))
	svc, _ := newTestService()

	in := validInput()
	in.Email = ptr("private@example.com")
	in.Gender = ptr("other")

	out, err := svc.CreateUser(ctx, in)
	require.NoError(t, err)
	require.False(t, out.Success())

	assert.Contains(t, buf.String(), `"msg":"user rejected"`)
	assert.Contains(t, buf.String(), `"fields":["gender"]`)
	assert.NotContains(t, buf.String(), "private@example.com")
}

// racingStore passes reads through to memstore and scripts Atomic.
type racingStore struct {
	*memstore.Store
	mock.Mock
}

func (r *racingStore) Atomic(ctx context.Context, fn func(store.Repository) error) error {
	args := r.Called(ctx)
	return args.Error(0)
}

func TestCreateUser_StoreRaceBecomesEntityError(t *testing.T) {
	st := &racingStore{Store: memstore.New()}
	st.On("Atomic", mock.Anything).Return(fmt.Errorf("memstore.CreateUser: %w", &store.ConstraintError{
		Field:      "email",
		Constraint: "idx_users_email",
		Err:        store.ErrAlreadyExists,
	})).Once()
	svc := NewService(st, validator.New())

	out, err := svc.CreateUser(context.Background(), validInput())
	require.NoError(t, err)
	assert.False(t, out.Success())
	assert.Equal(t, []string{validator.MsgTaken}, out.Errors["email"])
	assert.Zero(t, out.User.ID)
	st.AssertExpectations(t)
}

func TestCreateUser_StoreFailureIsReturned(t *testing.T) {
	boom := errors.New("connection reset")
	st := &racingStore{Store: memstore.New()}
	st.On("Atomic", mock.Anything).Return(boom).Once()
	svc := NewService(st, validator.New())

	out, err := svc.CreateUser(context.Background(), validInput())
	require.ErrorIs(t, err, boom)
	assert.Nil(t, out)
	st.AssertExpectations(t)
}

func TestGetAndDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()

	in := validInput()
	in.Interests = []string{"chess"}
	out, err := svc.CreateUser(ctx, in)
	require.NoError(t, err)
	id := out.User.ID

	got, err := svc.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Len(t, got.Interests, 1)

	require.NoError(t, svc.DeleteUser(ctx, id))
	_, err = svc.GetUser(ctx, id)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, svc.DeleteUser(ctx, id), ErrUserNotFound)

	_, err = st.InterestByName(ctx, "chess")
	assert.NoError(t, err)
}

func TestListUsers_ClampsPaging(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	for i := 0; i < 3; i++ {
		in := validInput()
		in.Email = ptr(fmt.Sprintf("u%d@example.com", i))
		_, err := svc.CreateUser(ctx, in)
		require.NoError(t, err)
	}

	users, total, err := svc.ListUsers(ctx, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 3)

	users, _, err = svc.ListUsers(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, 10},
		{-3, -1, 1, 10},
		{2, 25, 2, 25},
		{5, 500, 5, 100},
		{1, 100, 1, 100},
	}
	for _, tt := range tests {
		page, size := NormalizePage(tt.page, tt.size)
		assert.Equal(t, tt.wantPage, page, "page for %d/%d", tt.page, tt.size)
		assert.Equal(t, tt.wantSize, size, "size for %d/%d", tt.page, tt.size)
	}
}

func TestAttachInterestsAndSkills(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	in := validInput()
	in.Interests = []string{"chess"}
	created, err := svc.CreateUser(ctx, in)
	require.NoError(t, err)
	id := created.User.ID

	out, err := svc.AttachInterests(ctx, id, AttachInput{Names: []string{"chess", "art"}})
	require.NoError(t, err)
	require.True(t, out.Success(), out.Errors.Error())
	assert.Len(t, out.User.Interests, 2)

	out, err = svc.AttachSkills(ctx, id, AttachInput{Names: []string{"go"}})
	require.NoError(t, err)
	require.True(t, out.Success())
	assert.Len(t, out.User.Skills, 1)

	got, err := svc.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Len(t, got.Interests, 2)
	assert.Len(t, got.Skills, 1)

	out, err = svc.AttachSkills(ctx, id, AttachInput{Names: []string{""}})
	require.NoError(t, err)
	assert.Equal(t, []string{validator.MsgInvalid}, out.Errors["skills"])

	_, err = svc.AttachSkills(ctx, 999, AttachInput{Names: []string{"go"}})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.AttachSkills(ctx, id, AttachInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
