// Package notify publishes run-completed events.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
	"git.home.luguber.info/inful/dumpsite/internal/logfields"
)

// RunEvent describes a finished conversion run.
type RunEvent struct {
	RunID     string         `json:"run_id"`
	Site      string         `json:"site"`
	Outcome   string         `json:"outcome"`
	Started   time.Time      `json:"started"`
	Finished  time.Time      `json:"finished"`
	Output    string         `json:"output"`
	Pages     int            `json:"pages"`
	Redirects int            `json:"redirects"`
	Assets    int            `json:"assets"`
	Anomalies map[string]int `json:"anomalies,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Encode returns the wire form of the event.
func (e RunEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers run events.
type Publisher interface {
	Publish(ctx context.Context, event RunEvent) error
	Close()
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, RunEvent) error { return nil }
func (Noop) Close()                                  {}

// NATSPublisher publishes events as JSON on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to url.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	if subject == "" {
		return nil, derrors.NotifyError("notification subject is required").Build()
	}
	conn, err := nats.Connect(url,
		nats.Name("dumpsite"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, derrors.NotifyError("failed to connect to NATS").WithContext("url", url).WithCause(err).Build()
	}
	slog.Info("NATS publisher connected", "url", conn.ConnectedUrlRedacted(), "subject", subject)
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// Publish sends event and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, event RunEvent) error {
	data, err := event.Encode()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}
	slog.Debug("Published run event",
		logfields.Site(event.Site),
		logfields.RunID(event.RunID),
		slog.String("outcome", event.Outcome))
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// New returns a NATS publisher when url is set, Noop otherwise.
func New(url, subject string) (Publisher, error) {
	if url == "" {
		return Noop{}, nil
	}
	return NewNATSPublisher(url, subject)
}
