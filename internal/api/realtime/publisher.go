package realtime

import (
	"context"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/logger"
	"github.com/Marga-Ghale/charge-tracker/internal/models"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
	"github.com/Marga-Ghale/charge-tracker/internal/socket"
)

// Broadcaster sends to rooms. *socket.Hub satisfies it.
type Broadcaster interface {
	SendToRoom(room, msgType string, payload interface{}, excludeUserID string)
}

// Notice tells a room that a list changed. Lists that may hold private rows
// are announced this way so each client re-reads them with its own token.
type Notice struct {
	CommitteeID string `json:"committee_id,omitempty"`
	ChargeID    int64  `json:"charge_id,omitempty"`
	ActionID    int64  `json:"action_id,omitempty"`
}

// Publisher refreshes cached lists and pushes changes to rooms after commit.
type Publisher struct {
	rooms    Broadcaster
	services *service.Services
	cache    service.Cache
}

func NewPublisher(rooms Broadcaster, services *service.Services, cache service.Cache) *Publisher {
	return &Publisher{rooms: rooms, services: services, cache: cache}
}

// Handle implements events.Handler.
func (p *Publisher) Handle(ctx context.Context, e events.Event) error {
	switch ev := e.(type) {
	case events.CommitteesChanged:
		p.invalidate(ctx, service.CacheKeyCommittees)
		committees, err := p.services.Committee.List(ctx)
		if err != nil {
			return err
		}
		p.rooms.SendToRoom(socket.CommitteesRoom, "get_committees", models.NewCommitteeList(committees), "")
		if committee, err := p.services.Committee.Get(ctx, ev.CommitteeID); err == nil {
			p.rooms.SendToRoom(socket.CommitteeRoom(ev.CommitteeID), "get_committee", models.NewCommitteeResponse(committee), "")
		}

	case events.MembersChanged:
		members, err := p.services.Member.List(ctx, ev.CommitteeID)
		if err != nil {
			return err
		}
		p.rooms.SendToRoom(socket.CommitteeRoom(ev.CommitteeID), "get_members", models.NewMembersResponse(ev.CommitteeID, members), "")

	case events.ChargesChanged:
		p.invalidate(ctx, service.CacheKeyPublicCharges)
		charges, err := p.services.Charge.ListPublic(ctx)
		if err != nil {
			return err
		}
		p.rooms.SendToRoom(socket.CommitteesRoom, "get_all_charges", models.NewChargeList(charges), "")
		p.notice(ev, ev.CommitteeID, Notice{CommitteeID: ev.CommitteeID})

	case events.ChargeUpdated:
		n := Notice{CommitteeID: ev.CommitteeID, ChargeID: ev.ChargeID}
		p.notice(ev, ev.CommitteeID, n)
		if ev.PreviousCommittee != "" {
			p.notice(ev, ev.PreviousCommittee, n)
		}

	case events.ProgressNotesChanged:
		p.notice(ev, ev.CommitteeID, Notice{CommitteeID: ev.CommitteeID, ChargeID: ev.ChargeID})

	case events.ActionsChanged:
		p.notice(ev, ev.CommitteeID, Notice{CommitteeID: ev.CommitteeID, ChargeID: ev.ChargeID})

	case events.NotesChanged:
		p.notice(ev, ev.CommitteeID, Notice{CommitteeID: ev.CommitteeID, ActionID: ev.ActionID})

	case events.CommitteeNotesChanged:
		notes, err := p.services.CommitteeNote.ListForCommittee(ctx, ev.CommitteeID)
		if err != nil {
			return err
		}
		p.rooms.SendToRoom(socket.CommitteeRoom(ev.CommitteeID), "get_committee_notes", models.NewCommitteeNoteList(notes), "")

	case events.MinutesChanged:
		p.notice(ev, ev.CommitteeID, Notice{CommitteeID: ev.CommitteeID})
	}
	return nil
}

func (p *Publisher) notice(e events.Event, committeeID string, n Notice) {
	if committeeID == "" {
		return
	}
	p.rooms.SendToRoom(socket.CommitteeRoom(committeeID), e.Name(), n, "")
}

func (p *Publisher) invalidate(ctx context.Context, key string) {
	if p.cache == nil {
		return
	}
	if err := p.cache.InvalidateCache(ctx, key); err != nil {
		logger.Warnf("[Realtime] invalidate %s: %v", key, err)
	}
}
