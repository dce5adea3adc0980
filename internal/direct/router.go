package direct

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	ErrActionNotFound = errors.New("action not found")
	ErrInvalidParams  = errors.New("invalid params")
)

// Handler decodes raw JSON params, runs the action and returns its result
type Handler func(raw []byte) (any, error)

/**
 * Registration table mapping action names to typed handlers
 * @description
 * - Independent of any web framework, controllers feed it the request body
 * - Input structs are validated with `validate` struct tags
 */
type Router struct {
	mu       sync.RWMutex
	actions  map[string]Handler
	validate *validator.Validate
}

func NewRouter() *Router {
	return &Router{
		actions:  make(map[string]Handler),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

/**
 * Register a typed action
 * @param {*Router} r - Router
 * @param {string} name - Action name, e.g. "getModuleDetails"
 * @param {func(In) (Out, error)} fn - Action implementation
 * @description
 * - Empty body decodes as {}
 * - Registering the same name twice panics
 * @example
 * direct.Register(r, "check", func(p models.ModuleParams) (models.CheckResponse, error) { ... })
 */
func Register[In any, Out any](r *Router, name string, fn func(In) (Out, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.actions[name]; exists {
		panic(fmt.Sprintf("direct: action '%s' registered twice", name))
	}
	r.actions[name] = func(raw []byte) (any, error) {
		var in In
		if err := decodeParams(raw, &in); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		if err := r.validateParams(in); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		return fn(in)
	}
}

func decodeParams(raw []byte, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	return json.Unmarshal(raw, out)
}

func (r *Router) validateParams(in any) error {
	err := r.validate.Struct(in)
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		// not a struct, nothing to validate
		return nil
	}
	return err
}

/**
 * Run a registered action
 * @param {string} name - Action name
 * @param {[]byte} raw - JSON params
 * @returns {any} Action result
 * @throws
 * - ErrActionNotFound for unknown names
 * - ErrInvalidParams for undecodable or invalid params
 * - Any error returned by the action itself
 */
func (r *Router) Dispatch(name string, raw []byte) (any, error) {
	r.mu.RLock()
	h, ok := r.actions[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrActionNotFound, name)
	}
	return h(raw)
}

// Actions lists registered action names sorted alphabetically
func (r *Router) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
