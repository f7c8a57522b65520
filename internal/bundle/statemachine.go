package bundle

import (
	"fmt"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-tessplay/internal/lua"
	"github.com/opd-ai/go-tessplay/internal/vg"
)

// Trigger is the event that fires a transition.
type Trigger int

const (
	TriggerPointerDown Trigger = iota
	TriggerPointerUp
	// TriggerEnd fires when the state's oneShot animation has ended.
	TriggerEnd
)

var triggerNames = []string{"pointerDown", "pointerUp", "end"}

// String implements fmt.Stringer.
func (t Trigger) String() string {
	if t < 0 || int(t) >= len(triggerNames) {
		return "unknown"
	}
	return triggerNames[t]
}

// ParseTrigger converts a trigger name to a Trigger.
func ParseTrigger(s string) (Trigger, error) {
	for i, name := range triggerNames {
		if name == s {
			return Trigger(i), nil
		}
	}
	return 0, fmt.Errorf("unknown trigger: %q", s)
}

// anyState is the from index of transitions declared with from: any.
const anyState = -1

// State plays an optional animation while the machine is in it.
type State struct {
	name      string
	animation *Animation
}

// Name returns the state's name.
func (s *State) Name() string { return s.name }

// Animation returns the played animation, or nil.
func (s *State) Animation() *Animation { return s.animation }

type transition struct {
	from   int
	to     int
	on     Trigger
	target *Shape
}

// StateMachine is the definition of a state machine. Instance starts a
// playback.
type StateMachine struct {
	name        string
	artboard    *Artboard
	states      []State
	transitions []transition
	initial     int
	script      string
}

// Name returns the state machine's name.
func (sm *StateMachine) Name() string { return sm.name }

// StateCount returns the number of states.
func (sm *StateMachine) StateCount() int { return len(sm.states) }

// State returns state i, or nil when i is out of range.
func (sm *StateMachine) State(i int) *State {
	if i < 0 || i >= len(sm.states) {
		return nil
	}
	return &sm.states[i]
}

func (sm *StateMachine) stateIndex(name string) int {
	for i := range sm.states {
		if sm.states[i].name == name {
			return i
		}
	}
	return -1
}

// Instance starts a playback in the initial state. When the machine has a
// script, a fresh Lua runtime runs it and its hooks are registered.
func (sm *StateMachine) Instance() (*MachineInstance, error) {
	m := &MachineInstance{machine: sm}
	m.enter(sm.initial)
	if sm.script == "" {
		return m, nil
	}
	if err := m.startScript(); err != nil {
		m.Close()
		return nil, fmt.Errorf("state machine %q script: %w", sm.name, err)
	}
	return m, nil
}

// MachineInstance is a running state machine. It is not safe for
// concurrent use.
type MachineInstance struct {
	machine *StateMachine
	current int
	playing *Instance

	runtime *lua.Runtime
	hooks   *lua.HookManager
	onError func(error)
}

// Name returns the state machine's name.
func (m *MachineInstance) Name() string { return m.machine.name }

// CurrentState returns the name of the active state.
func (m *MachineInstance) CurrentState() string { return m.machine.states[m.current].name }

// Playing returns the active state's animation playback, or nil.
func (m *MachineInstance) Playing() *Instance { return m.playing }

// SetErrorHandler receives script errors raised by hooks. Without a
// handler they are dropped.
func (m *MachineInstance) SetErrorHandler(fn func(error)) { m.onError = fn }

// Play switches to the named state.
func (m *MachineInstance) Play(state string) error {
	i := m.machine.stateIndex(state)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownState, state)
	}
	m.enter(i)
	return nil
}

func (m *MachineInstance) enter(i int) {
	m.current = i
	m.playing = nil
	if anim := m.machine.states[i].animation; anim != nil {
		m.playing = anim.Instance()
	}
}

// Advance runs the script's advance hook, plays the active state's
// animation and advances the artboard. It reports whether an animation is
// still playing.
func (m *MachineInstance) Advance(dt float32) bool {
	m.callHook(lua.HookAdvance, dt)
	running := false
	if m.playing != nil {
		running = m.playing.Advance(dt)
		m.playing.Apply(1)
		if m.playing.Ended() {
			m.fire(TriggerEnd, nil)
		}
	}
	m.machine.artboard.Advance(dt)
	return running
}

// PointerDown handles a press at an artboard-space point.
func (m *MachineInstance) PointerDown(p vg.Vec2) {
	m.callHook(lua.HookPointerDown, p.X, p.Y)
	m.fire(TriggerPointerDown, &p)
}

// PointerMove handles pointer motion at an artboard-space point.
func (m *MachineInstance) PointerMove(p vg.Vec2) {
	m.callHook(lua.HookPointerMove, p.X, p.Y)
}

// PointerUp handles a release at an artboard-space point.
func (m *MachineInstance) PointerUp(p vg.Vec2) {
	m.callHook(lua.HookPointerUp, p.X, p.Y)
	m.fire(TriggerPointerUp, &p)
}

// fire takes the first matching transition. Transitions from any state
// never re-enter the active state.
func (m *MachineInstance) fire(on Trigger, p *vg.Vec2) {
	for _, t := range m.machine.transitions {
		if t.on != on {
			continue
		}
		if t.from != anyState && t.from != m.current {
			continue
		}
		if t.from == anyState && t.to == m.current {
			continue
		}
		if t.target != nil && (p == nil || !t.target.Contains(*p)) {
			continue
		}
		m.enter(t.to)
		return
	}
}

// Close releases the script runtime.
func (m *MachineInstance) Close() error {
	if m.runtime == nil {
		return nil
	}
	err := m.runtime.Close()
	m.runtime, m.hooks = nil, nil
	return err
}

func (m *MachineInstance) callHook(h lua.HookType, args ...float32) {
	if m.hooks == nil {
		return
	}
	values := make([]float64, len(args))
	for i, a := range args {
		values[i] = float64(a)
	}
	if err := m.hooks.CallNumbers(h, values...); err != nil && m.onError != nil {
		m.onError(fmt.Errorf("state machine %q: %w", m.machine.name, err))
	}
}

func (m *MachineInstance) startScript() error {
	runtime, err := lua.New(lua.ScriptConfig())
	if err != nil {
		return err
	}
	m.runtime = runtime

	ab := m.machine.artboard
	info := rt.NewTable()
	info.Set(rt.StringValue("name"), rt.StringValue(ab.name))
	info.Set(rt.StringValue("width"), rt.FloatValue(float64(ab.width)))
	info.Set(rt.StringValue("height"), rt.FloatValue(float64(ab.height)))
	runtime.SetGlobal("artboard", rt.TableValue(info))

	runtime.SetGoFunction("play", m.luaPlay, 1, false)
	runtime.SetGoFunction("state", m.luaState, 0, false)
	runtime.SetGoFunction("get", m.luaGet, 2, false)
	runtime.SetGoFunction("set", m.luaSet, 3, false)

	if _, err := runtime.ExecuteString(m.machine.name, m.machine.script); err != nil {
		return err
	}
	hooks, err := lua.NewHookManager(runtime)
	if err != nil {
		return err
	}
	hooks.AutoRegisterHooks()
	m.hooks = hooks
	return nil
}

// luaPlay implements play(state).
func (m *MachineInstance) luaPlay(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	name, err := c.StringArg(0)
	if err != nil {
		return nil, err
	}
	if err := m.Play(name); err != nil {
		return nil, err
	}
	return c.Next(), nil
}

// luaState implements state(), returning the active state's name.
func (m *MachineInstance) luaState(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	return c.PushingNext1(t.Runtime, rt.StringValue(m.CurrentState())), nil
}

func (m *MachineInstance) shapeProperty(c *rt.GoCont) (*Shape, Property, error) {
	name, err := c.StringArg(0)
	if err != nil {
		return nil, 0, err
	}
	propName, err := c.StringArg(1)
	if err != nil {
		return nil, 0, err
	}
	s := m.machine.artboard.ShapeByName(name)
	if s == nil {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
	}
	prop, ok := ParseProperty(propName)
	if !ok {
		return nil, 0, fmt.Errorf("unknown property: %q", propName)
	}
	return s, prop, nil
}

// luaGet implements get(shape, property).
func (m *MachineInstance) luaGet(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	s, prop, err := m.shapeProperty(c)
	if err != nil {
		return nil, err
	}
	return c.PushingNext1(t.Runtime, rt.FloatValue(float64(s.Get(prop)))), nil
}

// luaSet implements set(shape, property, value).
func (m *MachineInstance) luaSet(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	s, prop, err := m.shapeProperty(c)
	if err != nil {
		return nil, err
	}
	v, err := c.FloatArg(2)
	if err != nil {
		return nil, err
	}
	s.Set(prop, float32(v))
	return c.Next(), nil
}
