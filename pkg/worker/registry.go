package worker

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/openpermit/openpermit/pkg/domain"
)

// Handler implements one action. The returned value is marshalled into the reply.
type Handler func(ctx context.Context, payload json.RawMessage) (any, error)

// Registry maps action names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler for action.
// If one already exists, it is overwritten.
func (r *Registry) Register(action string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[action] = h
}

// Has reports whether action is registered.
func (r *Registry) Has(action string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[action]
	return ok
}

// Actions lists the registered action names in order.
func (r *Registry) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Execute looks up the handler for action and runs it.
// Returns a *domain.UnknownActionError if the action is not registered.
func (r *Registry) Execute(ctx context.Context, action string, payload json.RawMessage) (any, error) {
	r.mu.RLock()
	h, ok := r.handlers[action]
	r.mu.RUnlock()

	if !ok {
		return nil, &domain.UnknownActionError{Action: action}
	}
	return h(ctx, payload)
}
