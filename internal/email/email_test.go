package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(&Config{
		Host:     "smtp.example",
		Port:     25,
		From:     "sgnoreply@rit.edu",
		FromName: "SG TigerTracker",
		Domain:   "rit.edu",
	})
}

func TestAddress(t *testing.T) {
	s := newTestService()
	assert.Equal(t, "abc1234@rit.edu", s.Address("abc1234"))
	assert.Equal(t, "someone@else.org", s.Address("someone@else.org"))
}

func TestRenderInvitation(t *testing.T) {
	s := newTestService()
	m, err := s.Render(TemplateInvitation, "You're Invited", []string{"newuser@rit.edu"}, InvitationData{
		UserName:      "newuser",
		CommitteeName: "Technology",
		CommitteeHead: "Jane Doe",
		InviteURL:     "https://tracker.example/invitation/12",
	})
	require.NoError(t, err)

	assert.Equal(t, "SG TigerTracker <sgnoreply@rit.edu>", m.Sender)
	assert.Equal(t, TemplateInvitation, m.Template)
	assert.Contains(t, m.HTML, "Jane Doe has invited you")
	assert.Contains(t, m.HTML, "https://tracker.example/invitation/12")
}

func TestRenderEscapesInput(t *testing.T) {
	s := newTestService()
	m, err := s.Render(TemplateRequest, "Request", []string{"head@rit.edu"}, RequestData{
		UserName:      "<script>x</script>",
		CommitteeName: "Tech",
	})
	require.NoError(t, err)
	assert.NotContains(t, m.HTML, "<script>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := newTestService().Render("nope", "s", nil, nil)
	assert.Error(t, err)
}

func TestSendBuildsMessage(t *testing.T) {
	s := newTestService()
	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody string
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotBody = addr, from, to, string(msg)
		return nil
	}

	err := s.Send(Message{Subject: "Hello", Recipients: []string{"a@rit.edu"}, HTML: "<p>hi</p>"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example:25", gotAddr)
	assert.Equal(t, "sgnoreply@rit.edu", gotFrom)
	assert.Equal(t, []string{"a@rit.edu"}, gotTo)
	assert.True(t, strings.HasPrefix(gotBody, "From: SG TigerTracker <sgnoreply@rit.edu>\r\n"))
	assert.Contains(t, gotBody, "Subject: Hello\r\n")
	assert.True(t, strings.HasSuffix(gotBody, "\r\n\r\n<p>hi</p>"))
}

func TestSendWithoutRecipients(t *testing.T) {
	assert.Error(t, newTestService().Send(Message{Subject: "x"}))
}

func TestSendWithoutHostIsNoop(t *testing.T) {
	s := NewService(&Config{})
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("should not dial")
		return nil
	}
	assert.NoError(t, s.Send(Message{Recipients: []string{"a@b"}}))
}

type flakySender struct {
	failures int
	calls    int
}

func (f *flakySender) Send(Message) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("smtp down")
	}
	return nil
}

func TestSyncQueueRetries(t *testing.T) {
	sender := &flakySender{failures: 2}
	q := NewSyncQueue(sender, 3)
	q.backoff = time.Millisecond

	require.NoError(t, q.Enqueue(context.Background(), Message{Template: TemplateRequest}))
	assert.Equal(t, 3, sender.calls)
}

func TestSyncQueueGivesUp(t *testing.T) {
	sender := &flakySender{failures: 100}
	q := NewSyncQueue(sender, 3)
	q.backoff = time.Millisecond

	assert.Error(t, q.Enqueue(context.Background(), Message{}))
	assert.Equal(t, 4, sender.calls)
}

func TestSyncQueueStopsOnCancel(t *testing.T) {
	sender := &flakySender{failures: 100}
	q := NewSyncQueue(sender, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, q.Enqueue(ctx, Message{}), context.Canceled)
	assert.Equal(t, 1, sender.calls)
}

func TestSendTaskRoundTrip(t *testing.T) {
	m := Message{Template: TemplateInvitation, Subject: "You're Invited", Recipients: []string{"x@rit.edu"}, HTML: "<p/>"}
	task, err := NewSendTask(m)
	require.NoError(t, err)
	assert.Equal(t, TaskTypeSend, task.Type())

	sender := &flakySender{}
	q := &AsynqQueue{sender: sender}
	require.NoError(t, q.handle(context.Background(), task))
	assert.Equal(t, 1, sender.calls)
}

func TestHandleRejectsGarbage(t *testing.T) {
	q := &AsynqQueue{sender: &flakySender{}}
	err := q.handle(context.Background(), asynq.NewTask(TaskTypeSend, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
