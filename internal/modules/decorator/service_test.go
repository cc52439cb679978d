package decorator

import (
	"context"
	"errors"
	"testing"

	"styledecor/internal/database"
	"styledecor/internal/domain"
	"styledecor/internal/events"
	"styledecor/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type capture struct{ got []events.Event }

func (c *capture) Publish(_ context.Context, ev events.Event) error {
	c.got = append(c.got, ev)
	return nil
}

type fixture struct {
	db     *gorm.DB
	svc    *Service
	users  *repository.UserRepository
	decos  *repository.DecoratorRepository
	events *capture
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)

	f := &fixture{
		db:     db,
		users:  repository.NewUserRepository(db),
		decos:  repository.NewDecoratorRepository(db),
		events: &capture{},
	}
	f.svc = NewService(f.decos, f.users, database.NewTransactor(db), f.events, nil)
	return f
}

func (f *fixture) apply(t *testing.T, email string) int64 {
	t.Helper()
	require.NoError(t, f.users.Create(context.Background(), &domain.User{Email: email, Role: domain.RoleUser}))
	res, err := f.svc.Apply(context.Background(), email, false, ApplyRequest{
		Name:         "Deco",
		Email:        email,
		Specialities: []string{"Wedding", "wedding ", "Birthday"},
	})
	require.NoError(t, err)
	return res.InsertedID
}

func TestService_Apply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.apply(t, "deco@test.com")

	d, err := f.decos.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.DecoratorPending, d.Status)
	assert.Equal(t, domain.WorkAvailable, d.WorkStatus)
	assert.Equal(t, []string{"Wedding", "Birthday"}, d.Specialities)
	assert.False(t, d.AppliedAt.IsZero())

	_, err = f.svc.Apply(ctx, "deco@test.com", false, ApplyRequest{Name: "Again", Email: "deco@test.com", Specialities: []string{"x"}})
	assert.ErrorIs(t, err, ErrAlreadyApplied)

	_, err = f.svc.Apply(ctx, "someone@test.com", false, ApplyRequest{Name: "X", Email: "other@test.com", Specialities: []string{"x"}})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Apply(ctx, "new@test.com", false, ApplyRequest{Name: "X", Email: "new@test.com", Specialities: []string{" "}})
	assert.ErrorIs(t, err, ErrValidation)

	require.Len(t, f.events.got, 1)
	assert.Equal(t, events.DecoratorApplied, f.events.got[0].Type)
}

func TestService_ApproveThenRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.apply(t, "deco@test.com")

	_, err := f.svc.SetStatus(ctx, id, "approved")
	require.NoError(t, err)

	u, err := f.users.GetByEmail(ctx, "deco@test.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDecorator, u.Role)

	d, err := f.decos.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.DecoratorApproved, d.Status)
	assert.Equal(t, domain.WorkAvailable, d.WorkStatus)

	res, err := f.svc.SetStatus(ctx, id, "removed")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DeletedCount)

	u, err = f.users.GetByEmail(ctx, "deco@test.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)

	_, err = f.decos.GetByID(ctx, id)
	assert.True(t, repository.IsNotFound(err))
}

func TestService_CancelAndPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.apply(t, "deco@test.com")

	_, err := f.svc.SetStatus(ctx, id, "cancelled")
	require.NoError(t, err)
	u, _ := f.users.GetByEmail(ctx, "deco@test.com")
	assert.Equal(t, domain.RoleUser, u.Role)

	require.NoError(t, f.db.Model(&domain.Decorator{}).Where("id = ?", id).Update("work_status", domain.WorkAssigned).Error)
	_, err = f.svc.SetStatus(ctx, id, "pending")
	require.NoError(t, err)

	d, err := f.decos.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.DecoratorPending, d.Status)
	assert.Equal(t, domain.WorkAvailable, d.WorkStatus)
}

func TestService_SetStatus_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.apply(t, "deco@test.com")

	_, err := f.svc.SetStatus(ctx, id, "superstar")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.svc.SetStatus(ctx, 999, "approved")
	assert.ErrorIs(t, err, ErrNotFound)
}

type failingRoles struct{}

func (failingRoles) UpdateRole(context.Context, string, domain.UserRole) (int64, error) {
	return 0, errors.New("users table locked")
}

func TestService_Remove_RollsBackOnRoleFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.apply(t, "deco@test.com")

	svc := NewService(f.decos, failingRoles{}, database.NewTransactor(f.db), nil, nil)
	_, err := svc.Remove(ctx, id)
	require.Error(t, err)

	_, err = f.decos.GetByID(ctx, id)
	assert.NoError(t, err, "decorator must survive a failed removal")
}

func TestService_BestAndAvailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ids := map[string]int64{}
	for _, e := range []string{"a@test.com", "b@test.com", "c@test.com", "d@test.com", "e@test.com", "f@test.com", "g@test.com"} {
		ids[e] = f.apply(t, e)
	}

	best, err := f.svc.Best(ctx)
	require.NoError(t, err)
	assert.Len(t, best, 6)
	assert.Equal(t, "a@test.com", best[0].Email)

	avail, err := f.svc.Available(ctx, "WEDD")
	require.NoError(t, err)
	assert.Empty(t, avail, "pending applicants are not available for work")

	_, err = f.svc.SetStatus(ctx, ids["b@test.com"], "approved")
	require.NoError(t, err)
	_, err = f.svc.SetStatus(ctx, ids["c@test.com"], "approved")
	require.NoError(t, err)
	_, err = f.svc.SetStatus(ctx, ids["c@test.com"], "cancelled")
	require.NoError(t, err)

	avail, err = f.svc.Available(ctx, "WEDD")
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, "b@test.com", avail[0].Email)

	avail, err = f.svc.Available(ctx, "corporate")
	require.NoError(t, err)
	assert.Empty(t, avail)
}
