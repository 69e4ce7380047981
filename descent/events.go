package descent

import (
	"sync"
	"time"
)

// EventType represents the type of parse event.
type EventType string

const (
	// Input events
	EventLineRead EventType = "line_read"

	// Rule lifecycle events
	EventRuleEntered  EventType = "rule_entered"
	EventRuleMatched  EventType = "rule_matched"
	EventRuleRejected EventType = "rule_rejected"
	EventRuleFailed   EventType = "rule_failed"

	// Token events
	EventTokenConsumed EventType = "token_consumed"
	EventBacktracked   EventType = "backtracked"

	// Parse lifecycle events
	EventParseCompleted EventType = "parse_completed"
	EventParseFailed    EventType = "parse_failed"
)

// Event represents an observable parse event with typed data.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// EventEmitter manages event listeners and dispatches events.
type EventEmitter struct {
	mu        sync.RWMutex
	listeners []func(Event)
}

// NewEventEmitter creates a new EventEmitter.
func NewEventEmitter() *EventEmitter {
	return &EventEmitter{
		listeners: make([]func(Event), 0),
	}
}

// On registers a listener function to receive events.
// Listeners are called synchronously in registration order.
func (e *EventEmitter) On(listener func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, listener)
}

// Emit dispatches an event to all registered listeners.
// A nil emitter drops the event.
func (e *EventEmitter) Emit(event Event) {
	if e == nil {
		return
	}
	e.mu.RLock()
	listeners := make([]func(Event), len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// ListenerCount returns the number of registered listeners.
func (e *EventEmitter) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}

// LineReadEvent creates a line_read event.
func LineReadEvent(lineNo int, text string) Event {
	return Event{
		Type:      EventLineRead,
		Timestamp: time.Now(),
		Data: map[string]any{
			"line": lineNo,
			"text": text,
		},
	}
}

// RuleEvent creates a rule lifecycle event of the given type.
func RuleEvent(typ EventType, rule Rule, depth int, tok Token) Event {
	return Event{
		Type:      typ,
		Timestamp: time.Now(),
		Data: map[string]any{
			"rule":  rule.String(),
			"depth": depth,
			"token": tok.Literal,
		},
	}
}

// TokenConsumedEvent creates a token_consumed event.
func TokenConsumedEvent(tok Token, depth int) Event {
	return Event{
		Type:      EventTokenConsumed,
		Timestamp: time.Now(),
		Data: map[string]any{
			"token": tok.Literal,
			"kind":  tok.Kind.String(),
			"line":  tok.Pos.Line,
			"depth": depth,
		},
	}
}

// BacktrackedEvent creates a backtracked event. tok is the lookahead the
// parser rewound to.
func BacktrackedEvent(rule Rule, tok Token, depth int) Event {
	return Event{
		Type:      EventBacktracked,
		Timestamp: time.Now(),
		Data: map[string]any{
			"rule":  rule.String(),
			"token": tok.Literal,
			"depth": depth,
		},
	}
}

// ParseCompletedEvent creates a parse_completed event.
func ParseCompletedEvent(res *Result, duration time.Duration) Event {
	return Event{
		Type:      EventParseCompleted,
		Timestamp: time.Now(),
		Data: map[string]any{
			"assignments":   res.Assignments,
			"variable_refs": res.VariableRefs,
			"lines":         res.Lines,
			"duration_ms":   duration.Milliseconds(),
		},
	}
}

// ParseFailedEvent creates a parse_failed event.
func ParseFailedEvent(err error, duration time.Duration) Event {
	return Event{
		Type:      EventParseFailed,
		Timestamp: time.Now(),
		Data: map[string]any{
			"error":       err.Error(),
			"code":        ExitCode(err),
			"duration_ms": duration.Milliseconds(),
		},
	}
}
