package descent

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventEmitter_RegistersAndCallsListeners(t *testing.T) {
	emitter := NewEventEmitter()

	var received []Event
	emitter.On(func(e Event) {
		received = append(received, e)
	})

	emitter.Emit(Event{
		Type:      EventRuleEntered,
		Timestamp: time.Now(),
		Data:      map[string]any{"rule": "block", "depth": 1},
	})

	require.Len(t, received, 1)
	assert.Equal(t, EventRuleEntered, received[0].Type)
	assert.Equal(t, "block", received[0].Data["rule"])
	assert.Equal(t, 1, received[0].Data["depth"])
}

func TestEventEmitter_MultipleListeners(t *testing.T) {
	emitter := NewEventEmitter()

	var count1, count2 int
	emitter.On(func(e Event) { count1++ })
	emitter.On(func(e Event) { count2++ })

	emitter.Emit(Event{Type: EventRuleEntered, Timestamp: time.Now()})
	emitter.Emit(Event{Type: EventRuleMatched, Timestamp: time.Now()})

	assert.Equal(t, 2, count1)
	assert.Equal(t, 2, count2)
	assert.Equal(t, 2, emitter.ListenerCount())
}

func TestEventEmitter_NilEmitterDropsEvents(t *testing.T) {
	var emitter *EventEmitter
	assert.NotPanics(t, func() {
		emitter.Emit(Event{Type: EventParseCompleted})
	})
}

func TestEventEmitter_ConcurrentRegistration(t *testing.T) {
	emitter := NewEventEmitter()

	var mu sync.Mutex
	var received int

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			emitter.On(func(e Event) {
				mu.Lock()
				received++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	emitter.Emit(Event{Type: EventLineRead, Timestamp: time.Now()})
	assert.Equal(t, 10, received)
}

func recordEvents(opts *Options) *[]Event {
	events := []Event{}
	opts.Events = NewEventEmitter()
	opts.Events.On(func(e Event) { events = append(events, e) })
	return &events
}

func eventsOfType(events []Event, typ EventType) []Event {
	var out []Event
	for _, e := range events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func TestParseEmitsLineAndTokenEvents(t *testing.T) {
	var opts Options
	events := recordEvents(&opts)

	_, err := Parse(NewSliceSource("program", "", "begin a = 0 end."), opts)
	require.NoError(t, err)

	lines := eventsOfType(*events, EventLineRead)
	require.Len(t, lines, 3)
	assert.Equal(t, 1, lines[0].Data["line"])
	assert.Equal(t, "program", lines[0].Data["text"])
	assert.Equal(t, "", lines[1].Data["text"])

	var consumed []string
	for _, e := range eventsOfType(*events, EventTokenConsumed) {
		consumed = append(consumed, e.Data["token"].(string))
	}
	assert.Equal(t, []string{"program", "begin", "a", "=", "0"}, consumed)

	completed := eventsOfType(*events, EventParseCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, 1, completed[0].Data["assignments"])
	assert.Equal(t, 1, completed[0].Data["variable_refs"])
	assert.Equal(t, 3, completed[0].Data["lines"])
}

func TestParseEmitsRuleLifecycle(t *testing.T) {
	var opts Options
	events := recordEvents(&opts)

	_, err := ParseString("program begin if a <= 1 then b = 0 else c = 2 end.", opts)
	require.NoError(t, err)

	entered := eventsOfType(*events, EventRuleEntered)
	require.NotEmpty(t, entered)
	assert.Equal(t, "program", entered[0].Data["rule"])
	assert.Equal(t, 1, entered[0].Data["depth"])

	// Inside stmt, assign is tried and rejected on "if" before ifstmt matches.
	var rejected []string
	for _, e := range eventsOfType(*events, EventRuleRejected) {
		rejected = append(rejected, e.Data["rule"].(string))
	}
	assert.Contains(t, rejected, "assign")

	var matched []string
	for _, e := range eventsOfType(*events, EventRuleMatched) {
		matched = append(matched, e.Data["rule"].(string))
	}
	assert.Contains(t, matched, "ifstmt")
	assert.Equal(t, "program", matched[len(matched)-1])
}

func TestParseEmitsBacktrackAndFailure(t *testing.T) {
	var opts Options
	events := recordEvents(&opts)

	_, err := ParseString("program begin a 0 end.", opts)
	requireSyntaxError(t, err, RuleStmt)

	backtracked := eventsOfType(*events, EventBacktracked)
	require.Len(t, backtracked, 1)
	assert.Equal(t, "assign", backtracked[0].Data["rule"])
	assert.Equal(t, "a", backtracked[0].Data["token"])

	failed := eventsOfType(*events, EventRuleFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, "stmt", failed[0].Data["rule"])

	parseFailed := eventsOfType(*events, EventParseFailed)
	require.Len(t, parseFailed, 1)
	assert.Equal(t, 104, parseFailed[0].Data["code"])
	assert.Empty(t, eventsOfType(*events, EventParseCompleted))
}
