package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"aoba/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// EventStreamName is the JetStream stream holding forwarded events
const EventStreamName = "AOBA_EVENTS"

const sourceService = "aoba"

// MessagePublisher sends raw payloads to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventEnvelope wraps a forwarded event payload
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// EventSubjectMapper maps event types to NATS subjects
type EventSubjectMapper struct {
	subjects map[events.EventType]string
}

// NewEventSubjectMapper creates the mapper for every forwarded event type
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{
		subjects: map[events.EventType]string{
			events.EventTypeGuildsReconciled:     "guilds.reconciled",
			events.EventTypeCustomCommandAdded:   "commands.custom.added",
			events.EventTypeCustomCommandDeleted: "commands.custom.deleted",
			events.EventTypeBalanceChange:        "users.balance_changed",
			events.EventTypeBetSettled:           "bets.settled",
		},
	}
}

// MapEventToSubject returns the subject of an event type, or "" if it is not forwarded
func (m *EventSubjectMapper) MapEventToSubject(eventType events.EventType) string {
	return m.subjects[eventType]
}

// Subjects lists every mapped subject
func (m *EventSubjectMapper) Subjects() []string {
	subjects := make([]string, 0, len(m.subjects))
	for _, s := range m.subjects {
		subjects = append(subjects, s)
	}
	return subjects
}

// EventForwarder republishes bus events to NATS
type EventForwarder struct {
	publisher MessagePublisher
	mapper    *EventSubjectMapper
	now       func() time.Time
}

// NewEventForwarder creates a forwarder writing to publisher
func NewEventForwarder(publisher MessagePublisher, mapper *EventSubjectMapper) *EventForwarder {
	return &EventForwarder{
		publisher: publisher,
		mapper:    mapper,
		now:       time.Now,
	}
}

// Attach subscribes the forwarder to every event of the bus
func (f *EventForwarder) Attach(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		if err := f.Forward(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to forward event")
		}
	})
}

// Forward wraps the event in an envelope and publishes it
func (f *EventForwarder) Forward(ctx context.Context, event events.Event) error {
	subject := f.mapper.MapEventToSubject(event.Type())
	if subject == "" {
		log.WithField("eventType", event.Type()).Debug("No subject for event, skipping")
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     f.now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	return f.publisher.Publish(ctx, subject, data)
}
