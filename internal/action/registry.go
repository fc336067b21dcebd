package action

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/synapse-ops/synapse/internal/types"
)

// Handler is an atomic, stateless operation invokable through the
// registry. Handlers decode the normalized parameter bag into their own
// typed input struct and always return the uniform Result envelope.
type Handler interface {
	// Name returns the unique identifier for this action
	Name() string

	// Description returns a human-readable description of what this action does
	Description() string

	// Execute runs the action. A returned error is converted by the
	// registry into a StatusError result; handlers should prefer
	// returning a Result with StatusError themselves for business faults.
	Execute(ctx context.Context, params Params) (Result, error)
}

// Descriptor contains action metadata for discovery and prompting.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// handlerFunc adapts a plain function to the Handler interface.
type handlerFunc struct {
	name        string
	description string
	fn          func(ctx context.Context, params Params) (Result, error)
}

func (h *handlerFunc) Name() string        { return h.name }
func (h *handlerFunc) Description() string { return h.description }
func (h *handlerFunc) Execute(ctx context.Context, params Params) (Result, error) {
	return h.fn(ctx, params)
}

// NewHandler wraps a function as a named Handler.
func NewHandler(name, description string, fn func(ctx context.Context, params Params) (Result, error)) Handler {
	return &handlerFunc{name: name, description: description, fn: fn}
}

// Registry maps action names to validated handlers with thread-safe
// registration, uniform dispatch, per-action metrics, and an optional
// per-call wall-clock budget.
type Registry struct {
	mu         sync.RWMutex
	handlers   map[string]Handler
	metrics    map[string]*Metrics
	callBudget time.Duration
	logger     *slog.Logger
}

// RegistryOption is a functional option for configuring the Registry.
type RegistryOption func(*Registry)

// WithCallBudget bounds how long a single handler may run.
// Default: 0 (unbounded; callers may wrap Invoke with their own timeout).
func WithCallBudget(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.callBudget = d
		}
	}
}

// WithLogger sets the logger for registry operations.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry(options ...RegistryOption) *Registry {
	r := &Registry{
		handlers: make(map[string]Handler),
		metrics:  make(map[string]*Metrics),
		logger:   slog.Default(),
	}

	for _, opt := range options {
		opt(r)
	}

	return r
}

// Register adds a handler to the registry.
// Returns ACTION_ALREADY_EXISTS if the name is already taken.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return types.NewError(types.ACTION_INVALID_PARAM, "handler cannot be nil")
	}

	name := h.Name()
	if name == "" {
		return types.NewError(types.ACTION_INVALID_PARAM, "handler name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return types.NewError(types.ACTION_ALREADY_EXISTS, fmt.Sprintf("action %q already registered", name))
	}

	r.handlers[name] = h
	r.metrics[name] = &Metrics{}

	return nil
}

// Has reports whether an action name resolves in the registry.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// Names returns all registered action names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns descriptors for all registered actions, sorted by name.
func (r *Registry) Describe() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]Descriptor, 0, len(r.handlers))
	for _, h := range r.handlers {
		descriptors = append(descriptors, Descriptor{Name: h.Name(), Description: h.Description()})
	}
	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].Name < descriptors[j].Name })
	return descriptors
}

// Invoke dispatches an action by name and always returns one Result.
// An unknown name, an invalid parameter bag, a handler error, a handler
// panic, or an exceeded call budget all produce StatusError results;
// Invoke never propagates a fault to the loop.
func (r *Registry) Invoke(ctx context.Context, name string, params Params) Result {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		return Error(name, types.ACTION_NOT_FOUND, fmt.Sprintf("unknown action: %s", name))
	}

	if params == nil {
		params = Params{}
	}

	if r.callBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.callBudget)
		defer cancel()
	}

	start := time.Now()
	result := r.execute(ctx, h, name, params)
	duration := time.Since(start)

	r.mu.Lock()
	if m, exists := r.metrics[name]; exists {
		if result.IsError() {
			m.RecordFailure(duration)
		} else {
			m.RecordSuccess(duration)
		}
	}
	r.mu.Unlock()

	if result.IsError() {
		r.logger.Debug("action failed",
			"action", name,
			"code", result.ErrorCode,
			"message", result.Message,
			"duration_ms", duration.Milliseconds(),
		)
	}

	return result
}

// execute runs the handler on a worker goroutine so the call budget can
// be enforced. On timeout the worker is abandoned, not killed; handlers
// are assumed idempotent-safe, and the registry itself never retries.
func (r *Registry) execute(ctx context.Context, h Handler, name string, params Params) Result {
	done := make(chan Result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- Error(name, types.ACTION_INTERNAL, fmt.Sprintf("handler panic: %v", rec))
			}
		}()

		res, err := h.Execute(ctx, params)
		if err != nil {
			code := types.CodeOf(err)
			if code == "" {
				code = types.ACTION_INTERNAL
			}
			done <- Error(name, code, err.Error())
			return
		}

		if res.Action == "" {
			res.Action = name
		}
		done <- res
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return Error(name, types.ACTION_TIMEOUT, fmt.Sprintf("action %s exceeded call budget", name))
		}
		return Error(name, types.ACTION_TIMEOUT, fmt.Sprintf("action %s cancelled: %v", name, ctx.Err()))
	}
}

// Metrics returns a copy of the execution metrics for a specific action.
func (r *Registry) Metrics(name string) (Metrics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.metrics[name]
	if !exists {
		return Metrics{}, types.NewError(types.ACTION_NOT_FOUND, fmt.Sprintf("action %q not found", name))
	}

	return *m, nil
}
