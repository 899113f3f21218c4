package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

// Transport delivers one rendered mail.
type Transport interface {
	Deliver(ctx context.Context, msg domain.MailMessage) error
}

var fallbackSubjects = map[domain.TemplateID]string{
	domain.TemplateApplicationReceived: "Application received",
	domain.TemplateNewApplication:      "New application",
	domain.TemplateHODRegistered:       "New HOD registration pending",
	domain.TemplateHODApproved:         "HOD account approved",
	domain.TemplateApplicationAssigned: "Candidate assigned",
	domain.TemplateOutcomeRecorded:     "Application update",
}

// Dispatcher is the only path from a state change to the outside world. A
// failed delivery is logged and reported as false, never as an error.
type Dispatcher struct {
	logger       *slog.Logger
	renderer     *Renderer
	transport    Transport
	organization string
}

func NewDispatcher(logger *slog.Logger, renderer *Renderer, transport Transport, organization string) *Dispatcher {
	return &Dispatcher{
		logger:       logger,
		renderer:     renderer,
		transport:    transport,
		organization: organization,
	}
}

func (d *Dispatcher) Notify(ctx context.Context, n domain.Notification) (delivered bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notification panicked", slog.String("template", string(n.Template)), slog.Any("panic", r))
			delivered = false
		}
	}()

	if len(n.To) == 0 {
		d.logger.Warn("notification has no recipient", slog.String("template", string(n.Template)))
		return false
	}

	subject, body, err := d.renderer.Render(n.Template, n.Data)
	if err != nil {
		d.logger.Warn("mail template failed, using fallback body",
			slog.String("template", string(n.Template)),
			slog.String("error", err.Error()),
		)
		subject, body = d.fallback(n.Template)
	}

	msg := domain.MailMessage{
		To:      n.To,
		Cc:      n.Cc,
		Subject: subject,
		HTML:    body,
	}
	if err := d.transport.Deliver(ctx, msg); err != nil {
		d.logger.Error("mail delivery failed",
			slog.String("template", string(n.Template)),
			slog.String("to", strings.Join(n.To, ",")),
			slog.String("error", err.Error()),
		)
		return false
	}

	return true
}

func (d *Dispatcher) fallback(id domain.TemplateID) (string, string) {
	subject, ok := fallbackSubjects[id]
	if !ok {
		subject = "Notification"
	}
	if d.organization != "" {
		subject = d.organization + " - " + subject
	}
	body := fmt.Sprintf("<p>%s</p><p>Please log in to the portal for details.</p>", html.EscapeString(subject))
	return subject, body
}
