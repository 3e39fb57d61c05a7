// internal/events/emitter.go
package events

import (
	"sync"

	"github.com/google/uuid"
)

// Handler receives the arguments the emitter was fired with.
type Handler func(args ...any)

// Emitter is a generic pub/sub keyed by string event name. Both the
// DataManager bus and the embedded editor's native emitter are Emitters;
// external plugin code only ever sees the bus side.
type Emitter struct {
	mu       sync.RWMutex
	handlers map[string]map[string]Handler
}

// NewEmitter creates an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{handlers: make(map[string]map[string]Handler)}
}

// On subscribes a handler to the event and returns a token for Off.
func (e *Emitter) On(event string, h Handler) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	subs, ok := e.handlers[event]
	if !ok {
		subs = make(map[string]Handler)
		e.handlers[event] = subs
	}
	token := uuid.New().String()
	subs[token] = h
	return token
}

// Off removes the subscription identified by token.
func (e *Emitter) Off(event, token string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if subs, ok := e.handlers[event]; ok {
		delete(subs, token)
		if len(subs) == 0 {
			delete(e.handlers, event)
		}
	}
}

// Clear drops every registered handler.
func (e *Emitter) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = make(map[string]map[string]Handler)
}

// Emit fires every handler subscribed to the event. Handlers run
// synchronously on the calling goroutine, matching the cooperative
// single-threaded model the callbacks assume.
func (e *Emitter) Emit(event string, args ...any) {
	e.mu.RLock()
	subs := make([]Handler, 0, len(e.handlers[event]))
	for _, h := range e.handlers[event] {
		subs = append(subs, h)
	}
	e.mu.RUnlock()
	for _, h := range subs {
		h(args...)
	}
}

// HasListeners reports whether any handler is subscribed to the event.
func (e *Emitter) HasListeners(event string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers[event]) > 0
}
