package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventStudentAdded   EventType = "student_added"
	EventCourseAdded    EventType = "course_added"
	EventTeacherAdded   EventType = "teacher_added"
	EventSecretaryAdded EventType = "secretary_added"
	EventDataSaved      EventType = "data_saved"
	EventSaveFailed     EventType = "save_failed"
)

// Event represents something that happened to the registry
type Event struct {
	Type    EventType         `json:"type"`
	Payload map[string]string `json:"payload,omitempty"`
}

// EventBus fans events out to subscribers
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers without blocking
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
