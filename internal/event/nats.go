// Package event fans match and message events out over NATS so other local
// consumers (notifiers, analytics sidecars) can react to them.
package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	SubjectMatchCreated  = "dating.match.created"
	SubjectMessageSynced = "dating.message.received"
)

type Publisher interface {
	PublishMatch(ctx context.Context, ev entity.MatchEvent) error
	PublishMessage(ctx context.Context, msg entity.Message) error
	Close() error
}

// Envelope wraps every published payload.
type Envelope struct {
	Type          string    `json:"type"`
	OccurredAt    time.Time `json:"occurredAt"`
	CorrelationID string    `json:"correlationId"`
	Payload       any       `json:"payload"`
}

// noop is used when NATS is not configured or unreachable.
type noop struct{}

func NewNoop() Publisher { return noop{} }

func (noop) PublishMatch(context.Context, entity.MatchEvent) error { return nil }
func (noop) PublishMessage(context.Context, entity.Message) error  { return nil }
func (noop) Close() error                                          { return nil }

type natsPub struct {
	nc  *nats.Conn
	log logrus.FieldLogger
}

// NewPublisher connects to url. An empty url or a failed connection yields a
// noop publisher so the runtime keeps working without a broker.
func NewPublisher(url string, log logrus.FieldLogger) Publisher {
	if url == "" {
		return noop{}
	}
	nc, err := nats.Connect(url,
		nats.Name("dating-client"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("nats disconnected")
			}
		}),
	)
	if err != nil {
		log.WithError(err).Warn("nats connect failed, using noop publisher")
		return noop{}
	}
	return &natsPub{nc: nc, log: log}
}

func (p *natsPub) publish(subject string, payload any) error {
	b, err := json.Marshal(Envelope{
		Type:          subject,
		OccurredAt:    time.Now().UTC(),
		CorrelationID: uuid.NewString(),
		Payload:       payload,
	})
	if err != nil {
		return errors.Wrap(err, "event.publish.Marshal: ")
	}
	if err := p.nc.Publish(subject, b); err != nil {
		return errors.Wrap(err, "event.publish: ")
	}
	return nil
}

func (p *natsPub) PublishMatch(_ context.Context, ev entity.MatchEvent) error {
	return p.publish(SubjectMatchCreated, ev)
}

func (p *natsPub) PublishMessage(_ context.Context, msg entity.Message) error {
	return p.publish(SubjectMessageSynced, msg)
}

func (p *natsPub) Close() error {
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
		return errors.Wrap(err, "event.Close: ")
	}
	return nil
}
