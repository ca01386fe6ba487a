// Package emails renders transactional messages from embedded templates and
// hands them to the background queue for delivery.
package emails

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/scentdesk/scentdesk/jobs"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrUnknownTemplate is returned when a request names a template that does
// not exist.
var ErrUnknownTemplate = errors.New("unknown email template")

// Queue enqueues rendered messages for delivery.
type Queue interface {
	EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) (*asynq.TaskInfo, error)
}

// SendRequest asks for one rendered message to be delivered.
type SendRequest struct {
	To       string         `json:"to" validate:"required,email"`
	Subject  string         `json:"subject" validate:"required,max=200"`
	Template string         `json:"template" validate:"required"`
	Data     map[string]any `json:"data"`
}

// PreviewRequest asks for a rendered template without sending it.
type PreviewRequest struct {
	Template string         `json:"template" validate:"required"`
	Data     map[string]any `json:"data"`
}

// Service renders and queues emails.
type Service struct {
	templates *template.Template
	queue     Queue
}

// NewService parses the embedded templates once at startup.
func NewService(queue Queue) (*Service, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Service{templates: tmpl, queue: queue}, nil
}

// Templates lists the available template names, without the .html suffix.
func (s *Service) Templates() []string {
	var names []string
	for _, t := range s.templates.Templates() {
		name := strings.TrimSuffix(t.Name(), ".html")
		if name != "" && name != t.Name() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Render produces the HTML body for a template.
func (s *Service) Render(name string, data map[string]any) (string, error) {
	t := s.templates.Lookup(name + ".html")
	if t == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %q: %w", name, err)
	}
	return buf.String(), nil
}

// Send renders the template and enqueues the message for delivery.
func (s *Service) Send(ctx context.Context, req SendRequest) error {
	body, err := s.Render(req.Template, req.Data)
	if err != nil {
		return err
	}
	_, err = s.queue.EnqueueSendEmail(ctx, jobs.SendEmailPayload{
		To:      req.To,
		Subject: req.Subject,
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	return nil
}
