package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

func TestMinuteTakerWritesPrivateMinutes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	charge := f.store.addCharge("testcommittee", true)
	input := MinuteInput{CommitteeID: "testcommittee", Title: "Week 1", Body: "Topics", Date: int64Ptr(1700000000), ChargeIDs: []int64{charge.ID}}

	_, _, err := f.svc.Minute.Create(ctx, f.user, input)
	assert.ErrorIs(t, err, ErrForbidden)

	f.store.addMember("testcommittee", "testuser", types.MinuteTaker)
	minute, evts, err := f.svc.Minute.Create(ctx, f.user, input)
	require.NoError(t, err)
	assert.True(t, minute.Private)
	assert.Equal(t, []string{"minutes_changed"}, eventNames(evts))
	assert.Equal(t, []int64{charge.ID}, f.store.minuteLinks[minute.ID])

	input.Private = boolPtr(false)
	_, _, err = f.svc.Minute.Create(ctx, f.user, input)
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = f.svc.Minute.Edit(ctx, f.user, minute.ID, MinuteEdit{Private: boolPtr(false)})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Minute.Delete(ctx, f.user, minute.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateMinuteValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.addCommittee("other", "testuser")
	foreign := f.store.addCharge("other", true)

	_, _, err := f.svc.Minute.Create(ctx, nil, MinuteInput{CommitteeID: "testcommittee"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, _, err = f.svc.Minute.Create(ctx, f.admin, MinuteInput{CommitteeID: "missing"})
	assert.ErrorIs(t, err, ErrCommitteeNotFound)

	_, _, err = f.svc.Minute.Create(ctx, f.admin, MinuteInput{CommitteeID: "testcommittee", Title: "t", Body: "b"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = f.svc.Minute.Create(ctx, f.admin, MinuteInput{
		CommitteeID: "testcommittee", Title: "t", Body: "b", Date: int64Ptr(1), ChargeIDs: []int64{foreign.ID},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, f.store.minutes)
}

func TestMinuteVisibilityAndLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	public, _, err := f.svc.Minute.Create(ctx, f.admin, MinuteInput{
		CommitteeID: "testcommittee", Title: "Open", Body: "b", Date: int64Ptr(1), Private: boolPtr(false),
	})
	require.NoError(t, err)
	private, _, err := f.svc.Minute.Create(ctx, f.admin, MinuteInput{
		CommitteeID: "testcommittee", Title: "Closed", Body: "b", Date: int64Ptr(2),
	})
	require.NoError(t, err)

	list, err := f.svc.Minute.List(ctx, f.user, "testcommittee")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, public.ID, list[0].ID)

	_, err = f.svc.Minute.Get(ctx, f.user, private.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	edited, _, err := f.svc.Minute.Edit(ctx, f.admin, private.ID, MinuteEdit{Title: strPtr("Renamed"), Private: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", edited.Title)

	got, err := f.svc.Minute.Get(ctx, f.user, private.ID)
	require.NoError(t, err)
	assert.False(t, got.Private)

	_, err = f.svc.Minute.Delete(ctx, f.admin, private.ID)
	require.NoError(t, err)
	_, err = f.svc.Minute.Get(ctx, f.admin, private.ID)
	assert.ErrorIs(t, err, ErrMinuteNotFound)
}
