package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/accord-hospitals/interview-portal/backend/internal/config"
	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
	"github.com/accord-hospitals/interview-portal/backend/internal/notify"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingTransport struct {
	mu   sync.Mutex
	sent []domain.MailMessage
	err  error
}

func (t *recordingTransport) Deliver(_ context.Context, msg domain.MailMessage) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	t.sent = append(t.sent, msg)
	return nil
}

func newDispatcher(t *testing.T, transport notify.Transport) *notify.Dispatcher {
	t.Helper()
	renderer, err := notify.NewRenderer("Accord Hospitals")
	require.NoError(t, err)
	return notify.NewDispatcher(discard, renderer, transport, "Accord Hospitals")
}

func TestRender_AllTemplates(t *testing.T) {
	renderer, err := notify.NewRenderer("Accord Hospitals")
	require.NoError(t, err)

	cases := map[domain.TemplateID]any{
		domain.TemplateApplicationReceived: domain.ApplicationReceivedMailData{Name: "A. Kumar", Position: "Staff Nurse", SubmittedAt: "2024-03-01 09:00"},
		domain.TemplateNewApplication:      domain.NewApplicationMailData{ApplicationID: 1, Name: "A. Kumar"},
		domain.TemplateHODRegistered:       domain.HODRegisteredMailData{FullName: "Dr. Mehta", Email: "mehta@accord.example"},
		domain.TemplateHODApproved:         domain.HODApprovedMailData{FullName: "Dr. Mehta", Email: "mehta@accord.example"},
		domain.TemplateApplicationAssigned: domain.ApplicationAssignedMailData{HODName: "Dr. Mehta", ApplicationID: 1, Name: "A. Kumar"},
		domain.TemplateOutcomeRecorded:     domain.OutcomeRecordedMailData{Name: "A. Kumar", Status: domain.StatusSelected},
	}

	for id, data := range cases {
		t.Run(string(id), func(t *testing.T) {
			subject, body, err := renderer.Render(id, data)
			require.NoError(t, err)
			assert.NotEmpty(t, subject)
			assert.Contains(t, body, "Accord Hospitals")
		})
	}
}

func TestRender_EscapesCandidateInput(t *testing.T) {
	renderer, err := notify.NewRenderer("Accord Hospitals")
	require.NoError(t, err)

	subject, body, err := renderer.Render(domain.TemplateNewApplication, domain.NewApplicationMailData{Name: "<script>x</script> & Co"})
	require.NoError(t, err)
	assert.Equal(t, "New application: <script>x</script> & Co", subject)
	assert.NotContains(t, body, "<script>")
}

func TestRender_OutcomeSubject(t *testing.T) {
	renderer, err := notify.NewRenderer("Accord Hospitals")
	require.NoError(t, err)

	subject, _, err := renderer.Render(domain.TemplateOutcomeRecorded, domain.OutcomeRecordedMailData{Status: domain.StatusOnHold})
	require.NoError(t, err)
	assert.Equal(t, "Accord Hospitals - Application On Hold", subject)
}

func TestNotify_Delivers(t *testing.T) {
	transport := &recordingTransport{}
	d := newDispatcher(t, transport)

	ok := d.Notify(context.Background(), domain.Notification{
		Template: domain.TemplateHODApproved,
		To:       []string{"mehta@accord.example"},
		Cc:       []string{"hr@accord.example"},
		Data:     domain.HODApprovedMailData{FullName: "Dr. Mehta", Email: "mehta@accord.example"},
	})
	require.True(t, ok)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "HOD account approved", transport.sent[0].Subject)
	assert.Equal(t, []string{"hr@accord.example"}, transport.sent[0].Cc)
}

func TestNotify_TransportFailureIsSwallowed(t *testing.T) {
	d := newDispatcher(t, &recordingTransport{err: errors.New("smtp down")})

	ok := d.Notify(context.Background(), domain.Notification{
		Template: domain.TemplateHODApproved,
		To:       []string{"mehta@accord.example"},
		Data:     domain.HODApprovedMailData{},
	})
	assert.False(t, ok)
}

func TestNotify_RenderFailureUsesFallback(t *testing.T) {
	transport := &recordingTransport{}
	d := newDispatcher(t, transport)

	ok := d.Notify(context.Background(), domain.Notification{
		Template: domain.TemplateOutcomeRecorded,
		To:       []string{"kumar@example.com"},
		Data:     "not the right data",
	})
	require.True(t, ok)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "Accord Hospitals - Application update", transport.sent[0].Subject)
	assert.Contains(t, transport.sent[0].HTML, "Application update")
}

func TestNotify_NoRecipient(t *testing.T) {
	transport := &recordingTransport{}
	d := newDispatcher(t, transport)

	assert.False(t, d.Notify(context.Background(), domain.Notification{Template: domain.TemplateHODApproved}))
	assert.Empty(t, transport.sent)
}

type fakePublisher struct {
	key string
	msg amqp.Publishing
}

func (p *fakePublisher) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	p.key = key
	p.msg = msg
	return nil
}

func TestQueueTransport_PublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	transport := notify.NewQueueTransport(pub, "email_queue", time.Second)

	msg := domain.MailMessage{To: []string{"a@example.com"}, Subject: "s", HTML: "<p>b</p>"}
	require.NoError(t, transport.Deliver(context.Background(), msg))

	assert.Equal(t, "email_queue", pub.key)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)

	var got domain.MailMessage
	require.NoError(t, json.Unmarshal(pub.msg.Body, &got))
	assert.Equal(t, msg, got)
}

type ackRecord struct {
	acked   bool
	nacked  bool
	requeue bool
}

type fakeAcknowledger struct {
	mu      sync.Mutex
	records map[uint64]ackRecord
}

func (a *fakeAcknowledger) update(tag uint64, fn func(r *ackRecord)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.records == nil {
		a.records = map[uint64]ackRecord{}
	}
	r := a.records[tag]
	fn(&r)
	a.records[tag] = r
}

func (a *fakeAcknowledger) record(tag uint64) ackRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.records[tag]
}

func (a *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	a.update(tag, func(r *ackRecord) { r.acked = true })
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	a.update(tag, func(r *ackRecord) {
		r.nacked = true
		r.requeue = requeue
	})
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestConsumer(t *testing.T) {
	good, err := json.Marshal(domain.MailMessage{To: []string{"a@example.com"}, Subject: "s", HTML: "b"})
	require.NoError(t, err)

	ack := &fakeAcknowledger{}
	deliveries := make(chan amqp.Delivery, 2)
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: good}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("{not json")}
	close(deliveries)

	transport := &recordingTransport{}
	notify.NewConsumer(discard, transport).Run(context.Background(), deliveries)

	assert.True(t, ack.record(1).acked)
	assert.True(t, ack.record(2).nacked)
	assert.False(t, ack.record(2).requeue)
	assert.Len(t, transport.sent, 1)
}

func TestConsumer_RequeuesFailedDelivery(t *testing.T) {
	body, err := json.Marshal(domain.MailMessage{To: []string{"a@example.com"}})
	require.NoError(t, err)

	ack := &fakeAcknowledger{}
	deliveries := make(chan amqp.Delivery, 1)
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: body}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		notify.NewConsumer(discard, &recordingTransport{err: errors.New("smtp down")}).Run(ctx, deliveries)
	}()

	require.Eventually(t, func() bool { return ack.record(7).nacked }, time.Second, 10*time.Millisecond)
	cancel()
	<-done

	assert.True(t, ack.record(7).requeue)
}

func TestSMTPTransport_LogsWithoutPassword(t *testing.T) {
	cfg := &config.Config{Environment: "development"}
	cfg.Email.SMTP.Username = "noreply@accord.example"

	transport, err := notify.NewSMTPTransport(cfg, discard)
	require.NoError(t, err)
	defer transport.Close()

	require.NoError(t, transport.Deliver(context.Background(), domain.MailMessage{
		To:      []string{"a@example.com"},
		Subject: "s",
		HTML:    "<p>b</p>",
	}))
}
