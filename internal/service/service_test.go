package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Marga-Ghale/charge-tracker/internal/config"
	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

type fakeAuthenticator struct {
	passwords map[string]string
}

func (f fakeAuthenticator) Authenticate(_ context.Context, username, password string) (*Identity, error) {
	if p, ok := f.passwords[username]; !ok || p != password {
		return nil, ErrInvalidCredentials
	}
	return &Identity{Username: username, FirstName: "Test", LastName: "User", Email: username + "@example.edu"}, nil
}

// fixture: admin "adminuser" heads "testcommittee"; "testuser" has no membership.
type fixture struct {
	store *store
	svc   *Services
	admin *repository.User
	user  *repository.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := newStore()
	admin := st.addUser("adminuser", true)
	admin.FirstName = "Admin"
	user := st.addUser("testuser", false)
	user.FirstName = "Test"
	st.addCommittee("testcommittee", "adminuser")

	svc := NewServices(&ServiceDeps{
		Config:        &config.Config{JWTSecret: "test-secret", JWTExpiry: 1},
		Repos:         st.repos(),
		Authenticator: fakeAuthenticator{passwords: map[string]string{"newuser": "pw", "testuser": "pw"}},
	})
	return &fixture{store: st, svc: svc, admin: admin, user: user}
}

func eventNames(evts []events.Event) []string {
	names := make([]string, 0, len(evts))
	for _, e := range evts {
		names = append(names, e.Name())
	}
	return names
}

func intPtr(v int) *int                            { return &v }
func boolPtr(v bool) *bool                         { return &v }
func strPtr(v string) *string                      { return &v }
func int64Ptr(v int64) *int64                      { return &v }
func rolePtr(r types.MemberRole) *types.MemberRole { return &r }

func TestResolveAccess(t *testing.T) {
	committee := &repository.Committee{ID: "c", HeadID: "head"}
	member := func(role types.MemberRole) *repository.Member {
		return &repository.Member{CommitteeID: "c", UserID: "u", Role: role}
	}

	tests := []struct {
		name   string
		user   *repository.User
		member *repository.Member
		level  Permission
	}{
		{"anonymous", nil, nil, NoAccess},
		{"outsider", &repository.User{ID: "u"}, nil, CanView},
		{"normal member", &repository.User{ID: "u"}, member(types.NormalMember), CanContribute},
		{"active member", &repository.User{ID: "u"}, member(types.ActiveMember), CanCreate},
		{"minute taker", &repository.User{ID: "u"}, member(types.MinuteTaker), CanCreate},
		{"head by role", &repository.User{ID: "u"}, member(types.CommitteeHead), CanEdit},
		{"head by committee", &repository.User{ID: "head"}, nil, CanEdit},
		{"admin", &repository.User{ID: "u", IsAdmin: true}, nil, CanEdit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.level, ResolveAccess(tt.user, committee, tt.member).Level)
		})
	}
}

func TestAccessCan(t *testing.T) {
	active := Access{Level: CanCreate, Role: types.ActiveMember, Member: true}
	taker := Access{Level: CanCreate, Role: types.MinuteTaker, Member: true}
	normal := Access{Level: CanContribute, Role: types.NormalMember, Member: true}
	head := Access{Level: CanEdit, Role: types.CommitteeHead}
	outsider := Access{Level: CanView}

	assert.True(t, active.Can(CreateCharge))
	assert.True(t, active.Can(EditCharge))
	assert.False(t, active.Can(PublishCharge))
	assert.False(t, active.Can(WriteMinute))

	assert.True(t, taker.Can(WriteMinute))
	assert.False(t, taker.Can(PublishMinute))
	assert.False(t, taker.Can(CreateCharge))
	assert.True(t, taker.Can(AddProgressNote))

	assert.True(t, normal.Can(ViewPrivate))
	assert.False(t, normal.Can(AddProgressNote))

	assert.True(t, head.Can(ManageMembers))
	assert.False(t, head.Can(ManageCommittee))
	assert.True(t, Access{Level: CanEdit, Admin: true}.Can(ManageCommittee))

	assert.False(t, outsider.Can(ViewPrivate))
	assert.False(t, Access{}.Can(CreateNote))
}
