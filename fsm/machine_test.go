package fsm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	log     []string
	allowed bool
}

func newTestMachine(t *testing.T) *Machine[*recorder] {
	t.Helper()
	m := NewMachine[*recorder]()
	m.RegisterAction("Log", func(r *recorder, args map[string]any) {
		r.log = append(r.log, args["msg"].(string))
	})
	m.RegisterGuard("Allowed", func(r *recorder) bool { return r.allowed })
	return m
}

const graph = `
initial = "Idle"

[states.Idle]
on_enter = [{ action = "Log", args = { msg = "enter idle" } }]
on_exit = [{ action = "Log", args = { msg = "exit idle" } }]
transitions = [
    { trigger = "Go", target = "Busy", actions = [{ action = "Log", args = { msg = "go" } }] },
]

[states.Busy]
on_enter = [{ action = "Log", args = { msg = "enter busy" } }]
on_update = [{ action = "Log", args = { msg = "update busy" } }]
on_exit = [{ action = "Log", args = { msg = "exit busy" } }]
transitions = [
    { trigger = "Go", target = "Busy", actions = [{ action = "Log", args = { msg = "again" } }] },
    { trigger = "Tick", target = "Idle", guard = "Allowed" },
]
`

func TestLoadAndInit(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.LoadConfig([]byte(graph)))

	r := &recorder{}
	require.NoError(t, m.Init(r))
	assert.Equal(t, "Idle", m.ActiveName())
	assert.Equal(t, []string{"enter idle"}, r.log)

	id, ok := m.GetStateID("Busy")
	require.True(t, ok)
	assert.NotEqual(t, StateNone, id)
}

func TestTransitionOrder(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.LoadConfig([]byte(graph)))
	r := &recorder{}
	require.NoError(t, m.Init(r))
	r.log = nil

	var seen []string
	m.OnTransition = func(from, to, trigger string) {
		seen = append(seen, from+">"+to+":"+trigger)
	}

	assert.True(t, m.HandleEvent(r, "Go"))
	assert.Equal(t, "Busy", m.ActiveName())
	assert.Equal(t, []string{"exit idle", "go", "enter busy"}, r.log)
	assert.Equal(t, []string{"Idle>Busy:Go"}, seen)
}

func TestInternalTransitionRunsOnlyActions(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.LoadConfig([]byte(graph)))
	r := &recorder{}
	require.NoError(t, m.Init(r))
	require.True(t, m.HandleEvent(r, "Go"))
	m.Update(r, 100*time.Millisecond)
	r.log = nil

	assert.True(t, m.HandleEvent(r, "Go"))
	assert.Equal(t, "Busy", m.ActiveName())
	assert.Equal(t, []string{"again"}, r.log)
	assert.Equal(t, 100*time.Millisecond, m.TimeInState(), "internal transition keeps state time")
}

func TestTickTransitionGuard(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.LoadConfig([]byte(graph)))
	r := &recorder{}
	require.NoError(t, m.Init(r))
	require.True(t, m.HandleEvent(r, "Go"))
	r.log = nil

	m.Update(r, time.Millisecond)
	assert.Equal(t, "Busy", m.ActiveName())
	assert.Equal(t, []string{"update busy"}, r.log)

	r.allowed = true
	r.log = nil
	m.Update(r, time.Millisecond)
	assert.Equal(t, "Idle", m.ActiveName())
	assert.Equal(t, []string{"update busy", "exit busy", "enter idle"}, r.log)
	assert.Equal(t, time.Duration(0), m.TimeInState())
}

func TestUnhandledAndTickEvents(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.LoadConfig([]byte(graph)))
	r := &recorder{}
	require.NoError(t, m.Init(r))

	assert.False(t, m.HandleEvent(r, "Unknown"))
	assert.False(t, m.HandleEvent(r, TriggerTick))
	assert.Equal(t, "Idle", m.ActiveName())
}

func TestHierarchyBubbling(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.LoadConfig([]byte(`
initial = "Child"

[states.Parent]
on_exit = [{ action = "Log", args = { msg = "exit parent" } }]
transitions = [{ trigger = "Stop", target = "Stopped" }]

[states.Child]
parent = "Parent"
on_exit = [{ action = "Log", args = { msg = "exit child" } }]

[states.Stopped]
on_enter = [{ action = "Log", args = { msg = "enter stopped" } }]
`)))
	r := &recorder{}
	require.NoError(t, m.Init(r))
	assert.True(t, m.IsIn("Parent"))
	assert.True(t, m.IsIn("Child"))

	require.True(t, m.HandleEvent(r, "Stop"))
	assert.Equal(t, "Stopped", m.ActiveName())
	assert.Equal(t, []string{"exit child", "exit parent", "enter stopped"}, r.log)
	assert.False(t, m.IsIn("Parent"))
}

func TestStateTimeExceeds(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.LoadConfig([]byte(`
initial = "Wait"

[states.Wait]
transitions = [{ trigger = "Tick", target = "Done", guard = "StateTimeExceeds", guard_args = { ms = 50 } }]

[states.Done]
`)))
	r := &recorder{}
	require.NoError(t, m.Init(r))

	m.Update(r, 30*time.Millisecond)
	assert.Equal(t, "Wait", m.ActiveName())
	m.Update(r, 30*time.Millisecond)
	assert.Equal(t, "Done", m.ActiveName())
}

func TestReset(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.LoadConfig([]byte(graph)))
	r := &recorder{}
	require.NoError(t, m.Init(r))
	require.True(t, m.HandleEvent(r, "Go"))
	r.log = nil

	require.NoError(t, m.Reset(r))
	assert.Equal(t, "Idle", m.ActiveName())
	assert.Equal(t, []string{"exit busy", "enter idle"}, r.log)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad toml", "initial = "},
		{"missing initial", "initial = \"Nope\"\n[states.A]\n"},
		{"unknown action", "initial = \"A\"\n[states.A]\non_enter = [{ action = \"Missing\" }]\n"},
		{"unknown guard", "initial = \"A\"\n[states.A]\ntransitions = [{ trigger = \"Tick\", target = \"A\", guard = \"Missing\" }]\n"},
		{"unknown target", "initial = \"A\"\n[states.A]\ntransitions = [{ trigger = \"Go\", target = \"B\" }]\n"},
		{"unknown parent", "initial = \"A\"\n[states.A]\nparent = \"B\"\n"},
		{"empty trigger", "initial = \"A\"\n[states.A]\ntransitions = [{ target = \"A\" }]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			assert.Error(t, m.LoadConfig([]byte(tt.data)))
		})
	}
}

func TestInitWithoutGraph(t *testing.T) {
	m := newTestMachine(t)
	assert.Error(t, m.Init(&recorder{}))
}

func TestBuildProgrammatically(t *testing.T) {
	m := NewMachine[*recorder]()
	m.AddState(StateRoot, "Root", StateNone)
	m.AddState(2, "Open", StateRoot)
	m.AddState(3, "Shut", StateRoot)
	require.NoError(t, m.AddTransition(2, Transition[*recorder]{TargetID: 3, Trigger: "Close"}))
	assert.Error(t, m.AddTransition(99, Transition[*recorder]{TargetID: 2, Trigger: "Open"}))
	require.NoError(t, m.CompilePaths())
	m.InitialStateID = 2

	r := &recorder{}
	require.NoError(t, m.Init(r))
	assert.True(t, m.IsIn("Root"))
	assert.True(t, m.HandleEvent(r, "Close"))
	assert.Equal(t, "Shut", m.ActiveName())
	assert.False(t, m.HandleEvent(r, "Close"))
}

func TestCompilePathsRejectsBadParents(t *testing.T) {
	m := NewMachine[*recorder]()
	m.AddState(2, "A", 3)
	m.AddState(3, "B", 2)
	assert.ErrorContains(t, m.CompilePaths(), "cycle")

	m = NewMachine[*recorder]()
	m.AddState(2, "Orphan", 7)
	assert.ErrorContains(t, m.CompilePaths(), "missing parent")
}
