package lua

import (
	"errors"
	"reflect"
	"testing"

	rt "github.com/arnodel/golua/runtime"
)

const testScript = `
	events = {}
	function advance(dt)
		events[#events + 1] = "advance " .. dt
	end
	function pointer_down(x, y)
		events[#events + 1] = "down " .. x .. "," .. y
	end
	function fails()
		error("broken")
	end
	pointer_up = 7
`

func newHookManager(t *testing.T) (*HookManager, *Runtime) {
	t.Helper()
	runtime := newTestRuntime(t)
	if _, err := runtime.ExecuteString("script", testScript); err != nil {
		t.Fatalf("failed to load script: %v", err)
	}
	hm, err := NewHookManager(runtime)
	if err != nil {
		t.Fatalf("NewHookManager() error = %v", err)
	}
	return hm, runtime
}

func events(t *testing.T, runtime *Runtime) []string {
	t.Helper()
	tbl, ok := runtime.GetGlobal("events").TryTable()
	if !ok {
		t.Fatal("events is not a table")
	}
	var out []string
	for i := int64(1); ; i++ {
		v := tbl.Get(rt.IntValue(i))
		if v == rt.NilValue {
			return out
		}
		s, _ := v.TryString()
		out = append(out, s)
	}
}

func TestHookTypeString(t *testing.T) {
	tests := []struct {
		hook HookType
		want string
	}{
		{HookAdvance, "advance"},
		{HookPointerDown, "pointer_down"},
		{HookPointerMove, "pointer_move"},
		{HookPointerUp, "pointer_up"},
		{HookInvalid, "invalid"},
		{HookType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.hook.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.hook, got, tt.want)
		}
		if tt.hook != HookInvalid && tt.hook != HookType(99) {
			parsed, err := ParseHookType(tt.want)
			if err != nil || parsed != tt.hook {
				t.Errorf("ParseHookType(%q) = %v, %v", tt.want, parsed, err)
			}
		}
	}
	if _, err := ParseHookType("draw_post"); err == nil {
		t.Error("ParseHookType(draw_post) should fail")
	}
}

func TestNewHookManagerWithNilRuntime(t *testing.T) {
	if _, err := NewHookManager(nil); !errors.Is(err, ErrNilRuntime) {
		t.Errorf("NewHookManager(nil) error = %v", err)
	}
}

func TestAutoRegisterHooks(t *testing.T) {
	hm, runtime := newHookManager(t)

	found := hm.AutoRegisterHooks()
	want := []HookType{HookAdvance, HookPointerDown}
	if !reflect.DeepEqual(found, want) {
		t.Errorf("AutoRegisterHooks() = %v, want %v", found, want)
	}
	if !reflect.DeepEqual(hm.RegisteredHooks(), want) {
		t.Errorf("RegisteredHooks() = %v", hm.RegisteredHooks())
	}

	if err := hm.CallNumbers(HookAdvance, 0.5); err != nil {
		t.Fatalf("CallNumbers(advance) error = %v", err)
	}
	if err := hm.CallNumbers(HookPointerDown, 3, 4); err != nil {
		t.Fatalf("CallNumbers(pointer_down) error = %v", err)
	}
	// Unregistered hooks are silently skipped.
	if err := hm.CallNumbers(HookPointerMove, 1, 1); err != nil {
		t.Errorf("CallNumbers(pointer_move) error = %v", err)
	}

	got := events(t, runtime)
	wantEvents := []string{"advance 0.5", "down 3.0,4.0"}
	if !reflect.DeepEqual(got, wantEvents) {
		t.Errorf("events = %q, want %q", got, wantEvents)
	}
}

func TestRegisterHook(t *testing.T) {
	hm, _ := newHookManager(t)

	tests := []struct {
		name    string
		fn      string
		wantErr error
	}{
		{"function", "advance", nil},
		{"missing", "nope", ErrFunctionNotFound},
		{"not a function", "pointer_up", ErrNotFunction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hm.RegisterHook(HookPointerMove, tt.fn)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RegisterHook(%q) error = %v, want %v", tt.fn, err, tt.wantErr)
			}
		})
	}
	if !hm.IsRegistered(HookPointerMove) {
		t.Error("pointer_move should be registered to advance")
	}
	hm.UnregisterHook(HookPointerMove)
	if hm.IsRegistered(HookPointerMove) {
		t.Error("UnregisterHook did not remove the hook")
	}
}

func TestCallHookError(t *testing.T) {
	hm, _ := newHookManager(t)
	if err := hm.RegisterHook(HookAdvance, "fails"); err != nil {
		t.Fatal(err)
	}
	if err := hm.CallNumbers(HookAdvance, 1); err == nil {
		t.Error("expected error from failing hook")
	}

	hm.Clear()
	if len(hm.RegisteredHooks()) != 0 {
		t.Error("Clear() left hooks registered")
	}
	if v, err := hm.Call(HookAdvance); err != nil || v != rt.NilValue {
		t.Errorf("Call() after Clear = %v, %v", v, err)
	}
}
