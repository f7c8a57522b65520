package lua

import (
	"fmt"
	"sync"

	rt "github.com/arnodel/golua/runtime"
)

// HookType names a callback a state-machine script may define.
type HookType int

const (
	// HookInvalid represents an invalid or unknown hook type.
	HookInvalid HookType = iota

	// HookAdvance is called every tick with the elapsed seconds.
	HookAdvance

	// HookPointerDown is called with the artboard-space press position.
	HookPointerDown

	// HookPointerMove is called with the artboard-space pointer position.
	HookPointerMove

	// HookPointerUp is called with the artboard-space release position.
	HookPointerUp
)

var allHooks = []HookType{HookAdvance, HookPointerDown, HookPointerMove, HookPointerUp}

// String returns the string representation of a HookType.
func (h HookType) String() string {
	switch h {
	case HookAdvance:
		return "advance"
	case HookPointerDown:
		return "pointer_down"
	case HookPointerMove:
		return "pointer_move"
	case HookPointerUp:
		return "pointer_up"
	case HookInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// LuaFunctionName returns the global function name a script defines for
// the hook.
func (h HookType) LuaFunctionName() string {
	return h.String()
}

// ParseHookType parses a string into a HookType.
func ParseHookType(s string) (HookType, error) {
	for _, h := range allHooks {
		if h.String() == s {
			return h, nil
		}
	}
	return HookInvalid, fmt.Errorf("unknown hook type: %s", s)
}

// HookManager tracks which hooks a script defines and calls them.
// It is safe for concurrent use.
type HookManager struct {
	runtime *Runtime
	hooks   map[HookType]string // hook type to Lua function name
	mu      sync.RWMutex
}

// NewHookManager creates a new HookManager for the given runtime.
func NewHookManager(runtime *Runtime) (*HookManager, error) {
	if runtime == nil {
		return nil, ErrNilRuntime
	}

	return &HookManager{
		runtime: runtime,
		hooks:   make(map[HookType]string),
	}, nil
}

// RegisterHook binds hookType to the global Lua function funcName.
func (hm *HookManager) RegisterHook(hookType HookType, funcName string) error {
	fn := hm.runtime.GetGlobal(funcName)
	if fn == rt.NilValue {
		return fmt.Errorf("%w: %s", ErrFunctionNotFound, funcName)
	}
	if fn.Type() != rt.FunctionType {
		return fmt.Errorf("%w: %s (type: %v)", ErrNotFunction, funcName, fn.Type())
	}

	hm.mu.Lock()
	hm.hooks[hookType] = funcName
	hm.mu.Unlock()
	return nil
}

// UnregisterHook removes a hook registration.
func (hm *HookManager) UnregisterHook(hookType HookType) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	delete(hm.hooks, hookType)
}

// IsRegistered returns true if a hook is registered for the given type.
func (hm *HookManager) IsRegistered(hookType HookType) bool {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	_, ok := hm.hooks[hookType]
	return ok
}

// Call invokes the function registered for hookType. It returns nil when
// no hook is registered.
func (hm *HookManager) Call(hookType HookType, args ...rt.Value) (rt.Value, error) {
	hm.mu.RLock()
	funcName, ok := hm.hooks[hookType]
	hm.mu.RUnlock()

	if !ok {
		return rt.NilValue, nil
	}

	result, err := hm.runtime.CallFunction(funcName, args...)
	if err != nil {
		return rt.NilValue, fmt.Errorf("hook %s: %w", hookType, err)
	}
	return result, nil
}

// CallNumbers is Call with float arguments, the shape every script hook
// takes.
func (hm *HookManager) CallNumbers(hookType HookType, args ...float64) error {
	values := make([]rt.Value, len(args))
	for i, a := range args {
		values[i] = rt.FloatValue(a)
	}
	_, err := hm.Call(hookType, values...)
	return err
}

// AutoRegisterHooks registers every hook whose conventional function is
// defined and returns the hooks found.
func (hm *HookManager) AutoRegisterHooks() []HookType {
	found := make([]HookType, 0, len(allHooks))
	for _, h := range allHooks {
		if hm.runtime.HasFunction(h.LuaFunctionName()) {
			found = append(found, h)
		}
	}

	hm.mu.Lock()
	for _, h := range found {
		hm.hooks[h] = h.LuaFunctionName()
	}
	hm.mu.Unlock()

	return found
}

// RegisteredHooks returns all registered hook types in declaration order.
func (hm *HookManager) RegisteredHooks() []HookType {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	hooks := make([]HookType, 0, len(hm.hooks))
	for _, h := range allHooks {
		if _, ok := hm.hooks[h]; ok {
			hooks = append(hooks, h)
		}
	}
	return hooks
}

// Clear removes all hook registrations.
func (hm *HookManager) Clear() {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	hm.hooks = make(map[HookType]string)
}
