package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/invoicing"
	"github.com/erp/contable/internal/domain/shared"
)

// EventSerializer turns domain events into outbox payloads and back
type EventSerializer struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewEventSerializer creates an empty serializer
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{types: make(map[string]reflect.Type)}
}

// NewDomainEventSerializer creates a serializer that knows every event the
// accounting core emits.
func NewDomainEventSerializer() *EventSerializer {
	s := NewEventSerializer()
	s.Register(invoicing.EventTypeFacturaEmitida, &invoicing.FacturaEmitidaEvent{})
	s.Register(invoicing.EventTypeFacturaAnulada, &invoicing.FacturaAnuladaEvent{})
	s.Register(invoicing.EventTypeTalonarioAgotado, &invoicing.TalonarioAgotadoEvent{})
	s.Register(accounting.EventTypeAsientoRegistrado, &accounting.AsientoRegistradoEvent{})
	s.Register(shared.EventTypeEntityDeactivated, &shared.DeactivatedEvent{})
	return s
}

// Register maps eventType to the concrete type of instance
func (s *EventSerializer) Register(eventType string, instance shared.DomainEvent) {
	t := reflect.TypeOf(instance)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	s.mu.Lock()
	s.types[eventType] = t
	s.mu.Unlock()
}

// Serialize encodes event as JSON
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", event.EventType(), err)
	}
	return data, nil
}

// Deserialize decodes a payload of a registered event type
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	t, ok := s.types[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	ptr := reflect.New(t).Interface()
	if err := json.Unmarshal(data, ptr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", eventType, err)
	}
	event, ok := ptr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("%s does not implement DomainEvent", t)
	}
	return event, nil
}

// IsRegistered checks if an event type is registered
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.types[eventType]
	return ok
}
