// Package realtime answers the named events of the real-time channel. Each
// handler decodes its payload, calls one service, replies with a literal
// result or a view and queues the service's domain events for publishing
// after the reply went out.
package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/logger"
	"github.com/Marga-Ghale/charge-tracker/internal/metrics"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
	"github.com/Marga-Ghale/charge-tracker/internal/socket"
	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

type handler func(c *call)

// Router implements socket.Router.
type Router struct {
	services   *service.Services
	dispatcher *events.Dispatcher
	routes     map[string]handler
}

func NewRouter(services *service.Services, dispatcher *events.Dispatcher) *Router {
	r := &Router{services: services, dispatcher: dispatcher}
	r.routes = map[string]handler{
		"auth":        r.auth,
		"verify_auth": r.verifyAuth,

		"get_committees":   r.getCommittees,
		"get_committee":    r.getCommittee,
		"create_committee": r.createCommittee,
		"edit_committee":   r.editCommittee,

		"get_members":                r.getMembers,
		"add_member_committee":       r.addMember,
		"remove_member_committee":    r.removeMember,
		"edit_role_member_committee": r.editMemberRole,

		"create_charge":        r.createCharge,
		"get_charge":           r.getCharge,
		"get_charges":          r.getCharges,
		"get_all_charges":      r.getAllCharges,
		"edit_charge":          r.editCharge,
		"create_progress_note": r.createProgressNote,
		"get_progress_notes":   r.getProgressNotes,

		"create_action": r.createAction,
		"get_actions":   r.getActions,
		"get_action":    r.getAction,
		"edit_action":   r.editAction,

		"create_note": r.createNote,
		"get_note":    r.getNote,
		"get_notes":   r.getNotes,
		"modify_note": r.modifyNote,

		"create_committee_note": r.createCommitteeNote,
		"get_committee_note":    r.getCommitteeNote,
		"get_committee_notes":   r.getCommitteeNotes,

		"get_minute":    r.getMinute,
		"get_minutes":   r.getMinutes,
		"create_minute": r.createMinute,
		"edit_minute":   r.editMinute,
		"delete_minute": r.deleteMinute,

		"get_invitation": r.getInvitation,
		"set_invitation": r.setInvitation,

		"get_notifications":   r.getNotifications,
		"update_notification": r.updateNotification,
		"delete_notification": r.deleteNotification,
	}
	return r
}

// Events lists the registered event names.
func (r *Router) Events() []string {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Router) Route(ctx context.Context, req socket.Request) socket.Response {
	h, ok := r.routes[req.Event]
	if !ok {
		metrics.EventsHandled.WithLabelValues("unknown", "error").Inc()
		return socket.Response{Replies: []socket.Reply{{Event: req.Event, Payload: UnknownEvent}}}
	}

	c := &call{
		ctx:       ctx,
		router:    r,
		event:     req.Event,
		payload:   req.Payload,
		token:     payloadToken(req.Payload, req.Token),
		connToken: req.Token,
		outcome:   "ok",
	}
	h(c)
	metrics.EventsHandled.WithLabelValues(req.Event, c.outcome).Inc()

	resp := socket.Response{Replies: c.replies, UserID: c.userID, Token: c.newToken}
	if len(c.events) > 0 {
		evts := c.events
		resp.Publish = func(ctx context.Context) { r.publish(ctx, evts) }
	}
	return resp
}

func (r *Router) publish(ctx context.Context, evts []events.Event) {
	if r.dispatcher == nil {
		return
	}
	for _, e := range evts {
		failed := r.dispatcher.Dispatch(ctx, []events.Event{e})
		outcome := "ok"
		if failed > 0 {
			outcome = "error"
		}
		metrics.DomainEventsDispatched.WithLabelValues(e.Name(), outcome).Inc()
	}
}

// call is the state of one routed event.
type call struct {
	ctx       context.Context
	router    *Router
	event     string
	payload   json.RawMessage
	token     string
	connToken string

	resolved bool
	caller   *repository.User

	replies  []socket.Reply
	events   []events.Event
	userID   string
	newToken string
	outcome  string
}

func (c *call) svc() *service.Services { return c.router.services }

func (c *call) reply(payload interface{}) {
	c.replyAs(c.event, payload)
}

func (c *call) replyAs(event string, payload interface{}) {
	if res, ok := payload.(Result); ok && res.IsError() {
		c.outcome = "error"
	}
	c.replies = append(c.replies, socket.Reply{Event: event, Payload: payload})
}

// emit queues domain events for publishing after the reply.
func (c *call) emit(evts []events.Event) {
	c.events = append(c.events, evts...)
}

// identify records who the caller is so the connection joins their room.
func (c *call) identify(userID, token string) {
	c.userID = userID
	c.newToken = token
}

// user resolves the caller once. A missing or bad token yields nil.
func (c *call) user() *repository.User {
	if c.resolved {
		return c.caller
	}
	c.resolved = true
	if c.token == "" {
		return nil
	}
	u, err := c.svc().Auth.ResolveToken(c.ctx, c.token)
	if err != nil {
		logger.Debugf("[Realtime] %s: token not resolved: %v", c.event, err)
		return nil
	}
	c.caller = u
	if c.token != c.connToken {
		c.identify(u.ID, c.token)
	}
	return u
}

// bind decodes an object payload into dst and answers DataTypeError otherwise.
func (c *call) bind(dst interface{}) bool {
	if !isObject(c.payload) {
		c.reply(DataTypeError)
		return false
	}
	if err := json.Unmarshal(c.payload, dst); err != nil {
		c.reply(DataTypeError)
		return false
	}
	return true
}

// scalar decodes a bare string or number payload.
func (c *call) scalar() (string, bool) {
	p := bytes.TrimSpace(c.payload)
	var s string
	if err := json.Unmarshal(p, &s); err == nil {
		return s, true
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()
	if err := dec.Decode(&n); err == nil {
		return n.String(), true
	}
	c.reply(DataTypeError)
	return "", false
}

// scalarID decodes a bare integer id.
func (c *call) scalarID() (int64, bool) {
	v, ok := types.ParseInt(c.payload)
	if !ok {
		c.reply(DataTypeError)
		return 0, false
	}
	return int64(v), true
}

// unexpected logs errors no constant covers.
func (c *call) unexpected(err error, known ...error) {
	for _, k := range known {
		if errors.Is(err, k) {
			return
		}
	}
	logger.Errorw("[Realtime] event failed", "event", c.event, "error", err)
}

func isObject(raw json.RawMessage) bool {
	p := bytes.TrimSpace(raw)
	return len(p) > 0 && p[0] == '{'
}

func payloadToken(raw json.RawMessage, fallback string) string {
	if !isObject(raw) {
		return fallback
	}
	var p struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &p); err != nil || p.Token == "" {
		return fallback
	}
	return p.Token
}

// number is an integer sent either as a JSON number or a numeric string.
type number int64

func (n *number) UnmarshalJSON(b []byte) error {
	v, ok := types.ParseInt(b)
	if !ok {
		return errors.New("not an integer")
	}
	*n = number(v)
	return nil
}

func (n *number) value() int64 {
	if n == nil {
		return 0
	}
	return int64(*n)
}

func (n *number) intPtr() *int {
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}

func numbers(ns []number) []int64 {
	if ns == nil {
		return nil
	}
	out := make([]int64, len(ns))
	for i, n := range ns {
		out[i] = int64(n)
	}
	return out
}
