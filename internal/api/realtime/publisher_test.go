package realtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/models"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
	"github.com/Marga-Ghale/charge-tracker/internal/socket"
)

type sent struct {
	room    string
	msgType string
	payload interface{}
}

type recordingRooms struct{ sent []sent }

func (r *recordingRooms) SendToRoom(room, msgType string, payload interface{}, _ string) {
	r.sent = append(r.sent, sent{room, msgType, payload})
}

type recordingCache struct {
	invalidated []string
	fail        error
}

func (c *recordingCache) GetCache(context.Context, string, interface{}) error {
	return errors.New("miss")
}
func (c *recordingCache) SetCache(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (c *recordingCache) InvalidateCache(_ context.Context, key string) error {
	c.invalidated = append(c.invalidated, key)
	return c.fail
}

type stubCommittees struct{ service.CommitteeService }

func (stubCommittees) List(context.Context) ([]*repository.Committee, error) {
	return []*repository.Committee{{ID: "testcommittee", Title: "Test Committee", HeadID: "adminuser"}}, nil
}

func (stubCommittees) Get(_ context.Context, id string) (*repository.Committee, error) {
	if id == "testcommittee" {
		return &repository.Committee{ID: id, Title: "Test Committee"}, nil
	}
	return nil, service.ErrCommitteeNotFound
}

type stubPublicCharges struct{ service.ChargeService }

func (stubPublicCharges) ListPublic(context.Context) ([]*repository.Charge, error) {
	return []*repository.Charge{{ID: 1, Title: "Public", CommitteeID: "testcommittee"}}, nil
}

type stubMembers struct{ service.MemberService }

func (stubMembers) List(_ context.Context, id string) ([]*repository.Member, error) {
	return []*repository.Member{{CommitteeID: id, UserID: "adminuser", Role: "CommitteeHead"}}, nil
}

func newPublisher() (*Publisher, *recordingRooms, *recordingCache) {
	rooms := &recordingRooms{}
	cache := &recordingCache{}
	services := &service.Services{
		Committee: stubCommittees{},
		Charge:    stubPublicCharges{},
		Member:    stubMembers{},
	}
	return NewPublisher(rooms, services, cache), rooms, cache
}

func TestPublishCommitteesChanged(t *testing.T) {
	p, rooms, cache := newPublisher()
	require.NoError(t, p.Handle(context.Background(), events.CommitteesChanged{CommitteeID: "testcommittee"}))

	assert.Equal(t, []string{service.CacheKeyCommittees}, cache.invalidated)
	require.Len(t, rooms.sent, 2)
	assert.Equal(t, socket.CommitteesRoom, rooms.sent[0].room)
	assert.Equal(t, "get_committees", rooms.sent[0].msgType)
	assert.Len(t, rooms.sent[0].payload, 1)
	assert.Equal(t, socket.CommitteeRoom("testcommittee"), rooms.sent[1].room)
	assert.Equal(t, "get_committee", rooms.sent[1].msgType)
}

func TestPublishChargesChangedKeepsPrivateRowsOutOfRooms(t *testing.T) {
	p, rooms, cache := newPublisher()
	require.NoError(t, p.Handle(context.Background(), events.ChargesChanged{CommitteeID: "testcommittee"}))

	assert.Equal(t, []string{service.CacheKeyPublicCharges}, cache.invalidated)
	require.Len(t, rooms.sent, 2)
	assert.Equal(t, "get_all_charges", rooms.sent[0].msgType)
	assert.Equal(t, sent{
		room:    socket.CommitteeRoom("testcommittee"),
		msgType: "charges_changed",
		payload: Notice{CommitteeID: "testcommittee"},
	}, rooms.sent[1])
}

func TestPublishChargeMovedNotifiesBothCommittees(t *testing.T) {
	p, rooms, _ := newPublisher()
	require.NoError(t, p.Handle(context.Background(), events.ChargeUpdated{
		ChargeID: 4, CommitteeID: "finance", PreviousCommittee: "testcommittee",
	}))

	require.Len(t, rooms.sent, 2)
	assert.Equal(t, socket.CommitteeRoom("finance"), rooms.sent[0].room)
	assert.Equal(t, socket.CommitteeRoom("testcommittee"), rooms.sent[1].room)
	assert.Equal(t, Notice{CommitteeID: "finance", ChargeID: 4}, rooms.sent[1].payload)
}

func TestPublishMembersChanged(t *testing.T) {
	p, rooms, _ := newPublisher()
	require.NoError(t, p.Handle(context.Background(), events.MembersChanged{CommitteeID: "testcommittee"}))

	require.Len(t, rooms.sent, 1)
	view, ok := rooms.sent[0].payload.(models.MembersResponse)
	require.True(t, ok)
	assert.Equal(t, "testcommittee", view.CommitteeID)
	assert.Equal(t, "adminuser", view.Members[0].ID)
}

func TestPublishSurvivesCacheFailure(t *testing.T) {
	p, rooms, cache := newPublisher()
	cache.fail = errors.New("redis down")
	require.NoError(t, p.Handle(context.Background(), events.CommitteesChanged{CommitteeID: "testcommittee"}))
	assert.NotEmpty(t, rooms.sent)
}

func TestPublishIgnoresUserScopedEvents(t *testing.T) {
	p, rooms, _ := newPublisher()
	require.NoError(t, p.Handle(context.Background(), events.NotificationsChanged{UserID: "testuser"}))
	require.NoError(t, p.Handle(context.Background(), events.HeadAssigned{UserID: "testuser"}))
	assert.Empty(t, rooms.sent)
}
