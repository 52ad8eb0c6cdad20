// Package events carries the domain events a committed mutation produces.
// Services return them; the transport layer hands them to a Dispatcher after
// acknowledging the caller.
package events

// Event is a fact about committed state.
type Event interface {
	Name() string
}

// CommitteesChanged: the global committee list changed.
type CommitteesChanged struct {
	CommitteeID string
}

// HeadAssigned: UserID became head of the committee (on create or head change).
type HeadAssigned struct {
	CommitteeID    string
	CommitteeTitle string
	UserID         string
}

type MembersChanged struct {
	CommitteeID string
}

// ChargesChanged: the charge list of a committee changed.
type ChargesChanged struct {
	CommitteeID string
}

// ChargeUpdated: a single charge changed. PreviousCommittee is set when the
// charge moved between committees.
type ChargeUpdated struct {
	ChargeID          int64
	CommitteeID       string
	PreviousCommittee string
}

type ProgressNotesChanged struct {
	ChargeID    int64
	CommitteeID string
}

type ActionsChanged struct {
	ChargeID    int64
	CommitteeID string
}

type ActionAssigned struct {
	ActionID    int64
	ActionTitle string
	ChargeID    int64
	UserID      string
}

type NotesChanged struct {
	ActionID    int64
	CommitteeID string
}

// NoteCreated drives the @mention scan.
type NoteCreated struct {
	NoteID      int64
	ActionID    int64
	ActionTitle string
	ChargeID    int64
	AuthorID    string
	Description string
}

type CommitteeNotesChanged struct {
	CommitteeID string
}

type MinutesChanged struct {
	CommitteeID string
}

// JoinRequested: UserID asked to join; the head is notified and emailed.
type JoinRequested struct {
	InvitationID   int64
	CommitteeID    string
	CommitteeTitle string
	HeadID         string
	UserID         string
}

// InviteCreated: a manager invited UserName, who has no account yet.
type InviteCreated struct {
	InvitationID   int64
	CommitteeID    string
	CommitteeTitle string
	HeadID         string
	UserName       string
}

// NotificationsChanged: a user's inbox changed outside the notifier.
type NotificationsChanged struct {
	UserID string
}

func (CommitteesChanged) Name() string     { return "committees_changed" }
func (HeadAssigned) Name() string          { return "head_assigned" }
func (MembersChanged) Name() string        { return "members_changed" }
func (ChargesChanged) Name() string        { return "charges_changed" }
func (ChargeUpdated) Name() string         { return "charge_updated" }
func (ProgressNotesChanged) Name() string  { return "progress_notes_changed" }
func (ActionsChanged) Name() string        { return "actions_changed" }
func (ActionAssigned) Name() string        { return "action_assigned" }
func (NotesChanged) Name() string          { return "notes_changed" }
func (NoteCreated) Name() string           { return "note_created" }
func (CommitteeNotesChanged) Name() string { return "committee_notes_changed" }
func (MinutesChanged) Name() string        { return "minutes_changed" }
func (JoinRequested) Name() string         { return "join_requested" }
func (InviteCreated) Name() string         { return "invite_created" }
func (NotificationsChanged) Name() string  { return "notifications_changed" }
