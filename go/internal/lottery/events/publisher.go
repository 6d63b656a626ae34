package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Publisher delivers lifecycle events to interested listeners
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoOpPublisher drops every event. Used when no bus is configured.
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(ctx context.Context, event Event) error { return nil }
func (NoOpPublisher) Close() error { return nil }

// NATSConfig configures the NATS publisher
type NATSConfig struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
	FlushTimeout  time.Duration
}

// DefaultNATSConfig returns settings for a local NATS server
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		SubjectPrefix: "lottery.events",
		MaxReconnects: 5,
		ReconnectWait: 2 * time.Second,
		FlushTimeout:  2 * time.Second,
	}
}

// Subject returns the subject an event type is published on
func (c NATSConfig) Subject(eventType string) string {
	return strings.TrimSuffix(c.SubjectPrefix, ".") + "." + eventType
}

// NATSPublisher publishes JSON-encoded events on core NATS subjects
type NATSPublisher struct {
	nc     *nats.Conn
	config NATSConfig
}

// NewNATSPublisher connects to the configured NATS server
func NewNATSPublisher(cfg NATSConfig) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("lottery"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSPublisher{nc: nc, config: cfg}, nil
}

// Publish sends the event to <prefix>.<type> and waits for the server to accept it
func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	subject := p.config.Subject(event.Type)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	flushCtx, cancel := context.WithTimeout(ctx, p.config.FlushTimeout)
	defer cancel()
	if err := p.nc.FlushWithContext(flushCtx); err != nil {
		return fmt.Errorf("flush %s: %w", subject, err)
	}

	log.Debug().
		Str("subject", subject).
		Str("run_id", event.RunID).
		Msg("published event")
	return nil
}

// Close drains pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	if err := p.nc.Drain(); err != nil {
		return fmt.Errorf("drain NATS connection: %w", err)
	}
	return nil
}
