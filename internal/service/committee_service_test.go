package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/models"
	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

func TestCreateCommittee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	input := CommitteeInput{
		Title:       "Public Relations",
		Description: "PR",
		MeetingTime: "1300",
		MeetingDay:  2,
		HeadID:      "testuser",
	}

	committee, evts, err := f.svc.Committee.Create(ctx, f.admin, input)
	require.NoError(t, err)
	assert.Equal(t, "publicrelations", committee.ID)
	assert.True(t, committee.Enabled)
	assert.Equal(t, []string{"committees_changed", "members_changed", "head_assigned"}, eventNames(evts))
	assert.Equal(t, events.HeadAssigned{CommitteeID: "publicrelations", CommitteeTitle: "Public Relations", UserID: "testuser"}, evts[2])

	member := f.store.members[[2]string{"publicrelations", "testuser"}]
	require.NotNil(t, member)
	assert.Equal(t, types.CommitteeHead, member.Role)

	_, _, err = f.svc.Committee.Create(ctx, f.admin, input)
	assert.ErrorIs(t, err, ErrCommitteeExists)
}

func TestCreateCommitteeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	valid := CommitteeInput{Title: "Finance", MeetingTime: "0930", MeetingDay: 1, HeadID: "adminuser"}

	_, _, err := f.svc.Committee.Create(ctx, nil, valid)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, _, err = f.svc.Committee.Create(ctx, f.user, valid)
	assert.ErrorIs(t, err, ErrForbidden)

	bad := valid
	bad.MeetingTime = "9:30"
	_, _, err = f.svc.Committee.Create(ctx, f.admin, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad = valid
	bad.MeetingDay = 7
	_, _, err = f.svc.Committee.Create(ctx, f.admin, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad = valid
	bad.HeadID = "nobody"
	_, _, err = f.svc.Committee.Create(ctx, f.admin, bad)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NotContains(t, f.store.committees, "finance")
}

func TestEditCommitteeHeadReassignsMembershipOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	committee, evts, err := f.svc.Committee.Edit(ctx, f.admin, "testcommittee", CommitteeEdit{HeadID: strPtr("testuser")})
	require.NoError(t, err)
	assert.Equal(t, "testuser", committee.HeadID)
	assert.Equal(t, "Test User", committee.HeadName)
	assert.Equal(t, []string{"committees_changed", "members_changed", "head_assigned"}, eventNames(evts))

	heads := 0
	for key, m := range f.store.members {
		if key[0] == "testcommittee" && m.Role == types.CommitteeHead {
			heads++
			assert.Equal(t, "testuser", m.UserID)
		}
	}
	assert.Equal(t, 1, heads)
	assert.Equal(t, types.NormalMember, f.store.members[[2]string{"testcommittee", "adminuser"}].Role)
}

func TestEditCommitteeWithoutHeadChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	committee, evts, err := f.svc.Committee.Edit(ctx, f.admin, "testcommittee", CommitteeEdit{
		Description: strPtr("updated"),
		Enabled:     boolPtr(false),
		HeadID:      strPtr("adminuser"),
	})
	require.NoError(t, err)
	assert.Equal(t, "updated", committee.Description)
	assert.False(t, committee.Enabled)
	assert.Equal(t, []string{"committees_changed"}, eventNames(evts))

	_, _, err = f.svc.Committee.Edit(ctx, f.admin, "missing", CommitteeEdit{})
	assert.ErrorIs(t, err, ErrCommitteeNotFound)

	_, _, err = f.svc.Committee.Edit(ctx, f.user, "testcommittee", CommitteeEdit{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCommitteeGetAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Committee.Get(ctx, "testcommittee")
	require.NoError(t, err)
	assert.Equal(t, "adminuser", c.HeadID)
	assert.Equal(t, "Admin User", c.HeadName)

	_, err = f.svc.Committee.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrCommitteeNotFound)

	list, err := f.svc.Committee.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Admin User", list[0].HeadName)
}

func TestCreatedCommitteeReportsHeadName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, _, err := f.svc.Committee.Create(ctx, f.admin, CommitteeInput{
		Title: "Test Committee Two", MeetingTime: "1300", MeetingDay: 2, HeadID: "adminuser",
	})
	require.NoError(t, err)
	assert.Equal(t, "Admin User", created.HeadName)

	got, err := f.svc.Committee.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "testcommitteetwo", got.ID)
	assert.Equal(t, "Admin User", got.HeadName)
	assert.Equal(t, "Admin User", models.NewCommitteeResponse(got).HeadName)
}
