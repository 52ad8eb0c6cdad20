package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Marga-Ghale/charge-tracker/internal/repository"
	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

// store is an in-memory stand-in for every repository the services use.
type store struct {
	mu            sync.Mutex
	seq           int64
	users         map[string]*repository.User
	committees    map[string]*repository.Committee
	members       map[[2]string]*repository.Member
	charges       map[int64]*repository.Charge
	progress      []*repository.ProgressNote
	actions       map[int64]*repository.Action
	notes         map[int64]*repository.Note
	cnotes        map[int64]*repository.CommitteeNote
	minutes       map[int64]*repository.Minute
	minuteLinks   map[int64][]int64
	invitations   map[int64]*repository.Invitation
	notifications map[int64]*repository.Notification
}

func newStore() *store {
	return &store{
		users:         map[string]*repository.User{},
		committees:    map[string]*repository.Committee{},
		members:       map[[2]string]*repository.Member{},
		charges:       map[int64]*repository.Charge{},
		actions:       map[int64]*repository.Action{},
		notes:         map[int64]*repository.Note{},
		cnotes:        map[int64]*repository.CommitteeNote{},
		minutes:       map[int64]*repository.Minute{},
		minuteLinks:   map[int64][]int64{},
		invitations:   map[int64]*repository.Invitation{},
		notifications: map[int64]*repository.Notification{},
	}
}

func (s *store) next() int64 {
	s.seq++
	return s.seq
}

func (s *store) repos() *repository.Repositories {
	return &repository.Repositories{
		UserRepo:          userStore{s},
		CommitteeRepo:     committeeStore{s},
		MemberRepo:        memberStore{s},
		ChargeRepo:        chargeStore{s},
		ActionRepo:        actionStore{s},
		NoteRepo:          noteStore{s},
		CommitteeNoteRepo: committeeNoteStore{s},
		MinuteRepo:        minuteStore{s},
		InvitationRepo:    invitationStore{s},
		NotificationRepo:  notificationStore{s},
	}
}

func (s *store) addUser(id string, admin bool) *repository.User {
	u := &repository.User{ID: id, FirstName: id, LastName: "User", Email: id + "@example.edu", IsAdmin: admin}
	s.users[id] = u
	return u
}

func (s *store) addCommittee(id, head string) *repository.Committee {
	c := &repository.Committee{ID: id, Title: id, HeadID: head, MeetingTime: "1300", MeetingDay: 2, Enabled: true}
	s.committees[id] = c
	s.members[[2]string{id, head}] = &repository.Member{CommitteeID: id, UserID: head, Role: types.CommitteeHead}
	return c
}

func (s *store) addMember(committee, user string, role types.MemberRole) {
	s.members[[2]string{committee, user}] = &repository.Member{CommitteeID: committee, UserID: user, Role: role}
}

func (s *store) addCharge(committee string, private bool) *repository.Charge {
	c := &repository.Charge{ID: s.next(), Title: "charge", CommitteeID: committee, Private: private}
	s.charges[c.ID] = c
	return c
}

type userStore struct{ *store }

func (s userStore) Create(_ context.Context, u *repository.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; ok {
		return repository.ErrDuplicate
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s userStore) FindByID(_ context.Context, id string) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s userStore) FindByIDs(_ context.Context, ids []string) ([]*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*repository.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s userStore) FindAll(context.Context) ([]*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*repository.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s userStore) SetAdmin(_ context.Context, id string, isAdmin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.IsAdmin = isAdmin
	}
	return nil
}

type committeeStore struct{ *store }

func (s committeeStore) Create(_ context.Context, c *repository.Committee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.committees[c.ID]; ok {
		return repository.ErrDuplicate
	}
	cp := *c
	s.committees[c.ID] = &cp
	s.members[[2]string{c.ID, c.HeadID}] = &repository.Member{CommitteeID: c.ID, UserID: c.HeadID, Role: types.CommitteeHead}
	return nil
}

// withHead copies c and fills the joined head name. Callers hold s.mu.
func (s committeeStore) withHead(c *repository.Committee) *repository.Committee {
	cp := *c
	if head, ok := s.users[c.HeadID]; ok {
		cp.HeadName = head.FullName()
	}
	return &cp
}

func (s committeeStore) FindByID(_ context.Context, id string) (*repository.Committee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.committees[id]; ok {
		return s.withHead(c), nil
	}
	return nil, nil
}

func (s committeeStore) FindAll(context.Context) ([]*repository.Committee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*repository.Committee, 0, len(s.committees))
	for _, c := range s.committees {
		out = append(out, s.withHead(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s committeeStore) Update(_ context.Context, c *repository.Committee, previousHead string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.committees[c.ID] = &cp
	if c.HeadID != previousHead {
		if m, ok := s.members[[2]string{c.ID, previousHead}]; ok {
			m.Role = types.NormalMember
		}
		s.members[[2]string{c.ID, c.HeadID}] = &repository.Member{CommitteeID: c.ID, UserID: c.HeadID, Role: types.CommitteeHead}
	}
	return nil
}

type memberStore struct{ *store }

func (s memberStore) Find(_ context.Context, committeeID, userID string) (*repository.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.members[[2]string{committeeID, userID}]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (s memberStore) FindByCommittee(_ context.Context, committeeID string) ([]*repository.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*repository.Member
	for k, m := range s.members {
		if k[0] == committeeID {
			cp := *m
			cp.User = s.users[m.UserID]
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s memberStore) Add(_ context.Context, m *repository.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.members[[2]string{m.CommitteeID, m.UserID}] = &cp
	return nil
}

func (s memberStore) UpdateRole(_ context.Context, committeeID, userID string, role types.MemberRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.members[[2]string{committeeID, userID}]; ok {
		m.Role = role
	}
	return nil
}

func (s memberStore) Remove(_ context.Context, committeeID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, [2]string{committeeID, userID})
	return nil
}

type chargeStore struct{ *store }

func (s chargeStore) Create(_ context.Context, c *repository.Charge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.next()
	c.CreatedAt = time.Now()
	cp := *c
	s.charges[c.ID] = &cp
	return nil
}

func (s chargeStore) FindByID(_ context.Context, id int64) (*repository.Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.charges[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (s chargeStore) FindByIDs(_ context.Context, ids []int64) ([]*repository.Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*repository.Charge
	for _, id := range ids {
		if c, ok := s.charges[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s chargeStore) FindByCommittee(_ context.Context, committeeID string, includePrivate bool) ([]*repository.Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*repository.Charge{}
	for _, c := range s.charges {
		if c.CommitteeID == committeeID && (includePrivate || !c.Private) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s chargeStore) FindPublic(context.Context) ([]*repository.Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*repository.Charge{}
	for _, c := range s.charges {
		if !c.Private {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s chargeStore) Update(_ context.Context, c *repository.Charge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.charges[c.ID] = &cp
	return nil
}

func (s chargeStore) AddProgressNote(_ context.Context, n *repository.ProgressNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.next()
	s.progress = append(s.progress, n)
	return nil
}

func (s chargeStore) FindProgressNotes(_ context.Context, chargeID int64) ([]*repository.ProgressNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*repository.ProgressNote
	for _, n := range s.progress {
		if n.ChargeID == chargeID {
			out = append(out, n)
		}
	}
	return out, nil
}

type actionStore struct{ *store }

func (s actionStore) Create(_ context.Context, a *repository.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.next()
	cp := *a
	s.actions[a.ID] = &cp
	return nil
}

func (s actionStore) FindByID(_ context.Context, id int64) (*repository.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.actions[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (s actionStore) FindByCharge(_ context.Context, chargeID int64) ([]*repository.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*repository.Action{}
	for _, a := range s.actions {
		if a.ChargeID == chargeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s actionStore) Update(_ context.Context, a *repository.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.actions[a.ID] = &cp
	return nil
}

type noteStore struct{ *store }

func (s noteStore) Create(_ context.Context, n *repository.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.next()
	cp := *n
	s.notes[n.ID] = &cp
	return nil
}

func (s noteStore) FindByID(_ context.Context, id int64) (*repository.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notes[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, nil
}

func (s noteStore) FindByAction(_ context.Context, actionID int64) ([]*repository.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*repository.Note{}
	for _, n := range s.notes {
		if n.ActionID == actionID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s noteStore) Update(_ context.Context, n *repository.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *n
	s.notes[n.ID] = &cp
	return nil
}

type committeeNoteStore struct{ *store }

func (s committeeNoteStore) Create(_ context.Context, n *repository.CommitteeNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.next()
	cp := *n
	s.cnotes[n.ID] = &cp
	return nil
}

func (s committeeNoteStore) FindByID(_ context.Context, id int64) (*repository.CommitteeNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.cnotes[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, nil
}

func (s committeeNoteStore) FindByCommittee(_ context.Context, committeeID string) ([]*repository.CommitteeNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*repository.CommitteeNote{}
	for _, n := range s.cnotes {
		if n.CommitteeID == committeeID {
			out = append(out, n)
		}
	}
	return out, nil
}

type minuteStore struct{ *store }

func (s minuteStore) Create(_ context.Context, m *repository.Minute, chargeIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.next()
	cp := *m
	s.minutes[m.ID] = &cp
	s.minuteLinks[m.ID] = chargeIDs
	return nil
}

func (s minuteStore) FindByID(_ context.Context, id int64) (*repository.Minute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.minutes[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (s minuteStore) FindByCommittee(_ context.Context, committeeID string, includePrivate bool) ([]*repository.Minute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*repository.Minute{}
	for _, m := range s.minutes {
		if m.CommitteeID == committeeID && (includePrivate || !m.Private) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s minuteStore) Update(_ context.Context, m *repository.Minute, chargeIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.minutes[m.ID] = &cp
	if chargeIDs != nil {
		s.minuteLinks[m.ID] = chargeIDs
	}
	return nil
}

func (s minuteStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.minutes, id)
	delete(s.minuteLinks, id)
	return nil
}

type invitationStore struct{ *store }

func (s invitationStore) Create(_ context.Context, inv *repository.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.invitations {
		if existing.UserName == inv.UserName && existing.CommitteeID == inv.CommitteeID {
			return repository.ErrDuplicate
		}
	}
	inv.ID = s.next()
	inv.CreatedAt = time.Now()
	cp := *inv
	s.invitations[inv.ID] = &cp
	return nil
}

func (s invitationStore) FindByID(_ context.Context, id int64) (*repository.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv, ok := s.invitations[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (s invitationStore) Accept(_ context.Context, inv *repository.Invitation, role types.MemberRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]string{inv.CommitteeID, inv.UserName}
	if _, ok := s.members[key]; !ok {
		s.members[key] = &repository.Member{CommitteeID: inv.CommitteeID, UserID: inv.UserName, Role: role}
	}
	delete(s.invitations, inv.ID)
	return nil
}

func (s invitationStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.invitations, id)
	return nil
}

func (s invitationStore) DeleteOlderThan(_ context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, inv := range s.invitations {
		if inv.CreatedAt.Before(olderThan) {
			delete(s.invitations, id)
			n++
		}
	}
	return n, nil
}

type notificationStore struct{ *store }

func (s notificationStore) Create(_ context.Context, n *repository.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.next()
	n.CreatedAt = time.Now()
	cp := *n
	s.notifications[n.ID] = &cp
	return nil
}

func (s notificationStore) FindByID(_ context.Context, id int64) (*repository.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notifications[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, nil
}

func (s notificationStore) FindByUserID(_ context.Context, userID string) ([]*repository.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*repository.Notification{}
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s notificationStore) MarkViewed(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notifications[id]; ok {
		n.Viewed = true
	}
	return nil
}

func (s notificationStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notifications, id)
	return nil
}

func (s notificationStore) DeleteViewedOlderThan(_ context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, row := range s.notifications {
		if row.Viewed && row.CreatedAt.Before(olderThan) {
			delete(s.notifications, id)
			n++
		}
	}
	return n, nil
}
