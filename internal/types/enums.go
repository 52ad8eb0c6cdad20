package types

import "encoding/json"

// Committee member roles, lowest to highest.
type MemberRole string

const (
	NormalMember  MemberRole = "NormalMember"
	ActiveMember  MemberRole = "ActiveMember"
	MinuteTaker   MemberRole = "MinuteTaker"
	CommitteeHead MemberRole = "CommitteeHead"
)

var ValidMemberRoles = []MemberRole{
	NormalMember, ActiveMember, MinuteTaker, CommitteeHead,
}

func (r MemberRole) Valid() bool {
	for _, v := range ValidMemberRoles {
		if v == r {
			return true
		}
	}
	return false
}

// ChargeStatus is stored and sent as its integer value.
type ChargeStatus int

const (
	ChargeUnapproved ChargeStatus = iota
	ChargeFailed
	ChargeInProgress
	ChargeIndefinite
	ChargeUnknown
	ChargeCompleted
	ChargeNotStarted
	ChargeStopped
)

func (s ChargeStatus) Valid() bool {
	return s >= ChargeUnapproved && s <= ChargeStopped
}

func (s ChargeStatus) String() string {
	switch s {
	case ChargeUnapproved:
		return "Unapproved"
	case ChargeFailed:
		return "Failed"
	case ChargeInProgress:
		return "InProgress"
	case ChargeIndefinite:
		return "Indefinite"
	case ChargeUnknown:
		return "Unknown"
	case ChargeCompleted:
		return "Completed"
	case ChargeNotStarted:
		return "NotStarted"
	case ChargeStopped:
		return "Stopped"
	}
	return "Invalid"
}

// Priority levels for charges
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// ActionStatus is stored and sent as its integer value.
type ActionStatus int

const (
	ActionInProgress ActionStatus = iota
	ActionIndefinite
	ActionUnknown
	ActionCompleted
	ActionStopped
	ActionIncompleted
	ActionOnHold
)

func (s ActionStatus) Valid() bool {
	return s >= ActionInProgress && s <= ActionOnHold
}

// Notification types
type NotificationType string

const (
	MentionedInNote   NotificationType = "MentionedInNote"
	AssignedToAction  NotificationType = "AssignedToAction"
	MadeCommitteeHead NotificationType = "MadeCommitteeHead"
	UserRequest       NotificationType = "UserRequest"
)

func (t NotificationType) Valid() bool {
	switch t {
	case MentionedInNote, AssignedToAction, MadeCommitteeHead, UserRequest:
		return true
	}
	return false
}

// ParseInt accepts a JSON number or a numeric string and reports whether
// the value was present and integral.
func ParseInt(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		n = json.Number(s)
	}
	v, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return int(v), true
}
