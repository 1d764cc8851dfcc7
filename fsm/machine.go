package fsm

import (
	"fmt"
	"time"
)

// NewMachine creates a new FSM instance
func NewMachine[T any]() *Machine[T] {
	m := &Machine[T]{
		nodes:           make(map[StateID]*Node[T]),
		nameToID:        make(map[string]StateID),
		guardReg:        make(map[string]GuardFunc[T]),
		guardFactoryReg: make(map[string]GuardFactoryFunc[T]),
		actionReg:       make(map[string]ActionFunc[T]),
		activePath:      make([]StateID, 0, 4),
	}
	m.RegisterGuardFactory("StateTimeExceeds", stateTimeExceeds[T])
	return m
}

// RegisterGuard adds a predicate function to the registry
func (m *Machine[T]) RegisterGuard(name string, fn GuardFunc[T]) {
	m.guardReg[name] = fn
}

// RegisterGuardFactory adds a parameterized guard factory to the registry
func (m *Machine[T]) RegisterGuardFactory(name string, factory GuardFactoryFunc[T]) {
	m.guardFactoryReg[name] = factory
}

// RegisterAction adds a side-effect function to the registry
func (m *Machine[T]) RegisterAction(name string, fn ActionFunc[T]) {
	m.actionReg[name] = fn
}

// Init enters the initial state, running OnEnter from Root down
func (m *Machine[T]) Init(ctx T) error {
	node, ok := m.nodes[m.InitialStateID]
	if !ok || m.InitialStateID == StateNone {
		return fmt.Errorf("initial state ID %d not found", m.InitialStateID)
	}

	m.activeStateID = m.InitialStateID
	m.timeInState = 0
	m.activePath = append(m.activePath[:0], node.Path...)

	for _, id := range m.activePath {
		if n, exists := m.nodes[id]; exists {
			runActions(ctx, n.OnEnter)
		}
	}
	return nil
}

// Update advances the FSM by delta time, running OnUpdate then Tick transitions
func (m *Machine[T]) Update(ctx T, dt time.Duration) {
	if m.activeStateID == StateNone {
		return
	}

	m.timeInState += dt

	leaf := m.nodes[m.activeStateID]
	runActions(ctx, leaf.OnUpdate)

	m.fire(ctx, TriggerTick)
}

// HandleEvent routes a named trigger, bubbling from leaf to root
// Returns true if a transition was taken
func (m *Machine[T]) HandleEvent(ctx T, trigger string) bool {
	if m.activeStateID == StateNone || trigger == TriggerTick {
		return false
	}
	return m.fire(ctx, trigger)
}

func (m *Machine[T]) fire(ctx T, trigger string) bool {
	currID := m.activeStateID
	for currID != StateNone {
		node := m.nodes[currID]
		for i := range node.Transitions {
			trans := &node.Transitions[i]
			if trans.Trigger != trigger {
				continue
			}
			if trans.Guard == nil || trans.Guard(ctx) {
				m.transition(ctx, trans)
				return true
			}
		}
		currID = node.ParentID
	}
	return false
}

// transition performs the state change, internal when the target is already active
func (m *Machine[T]) transition(ctx T, trans *Transition[T]) {
	targetID := trans.TargetID
	if m.activeStateID == targetID {
		runActions(ctx, trans.Actions)
		return
	}

	targetNode, ok := m.nodes[targetID]
	if !ok {
		panic(fmt.Sprintf("FSM: Attempted transition to unknown state ID %d", targetID))
	}
	fromName := m.nodes[m.activeStateID].Name

	// Find LCA
	lcaIndex := -1
	currentPath := m.activePath
	targetPath := targetNode.Path

	minLen := min(len(currentPath), len(targetPath))
	for i := 0; i < minLen; i++ {
		if currentPath[i] == targetPath[i] {
			lcaIndex = i
		} else {
			break
		}
	}

	// Exit Phase: walk UP from current leaf to LCA (exclusive)
	for i := len(currentPath) - 1; i > lcaIndex; i-- {
		if node, exists := m.nodes[currentPath[i]]; exists {
			runActions(ctx, node.OnExit)
		}
	}

	runActions(ctx, trans.Actions)

	// Commit before entering so enter actions observe the new state
	m.activeStateID = targetID
	m.timeInState = 0
	m.activePath = append(m.activePath[:0], targetPath...)

	// Enter Phase: walk DOWN from LCA (exclusive) to target leaf
	for i := lcaIndex + 1; i < len(targetPath); i++ {
		if node, exists := m.nodes[targetPath[i]]; exists {
			runActions(ctx, node.OnEnter)
		}
	}

	if m.OnTransition != nil {
		m.OnTransition(fromName, targetNode.Name, trans.Trigger)
	}
}

// Reset exits the active path and re-enters the initial state
func (m *Machine[T]) Reset(ctx T) error {
	for i := len(m.activePath) - 1; i >= 0; i-- {
		if node, ok := m.nodes[m.activePath[i]]; ok {
			runActions(ctx, node.OnExit)
		}
	}
	m.activeStateID = StateNone
	m.activePath = m.activePath[:0]
	return m.Init(ctx)
}

// ActiveState returns the active leaf ID
func (m *Machine[T]) ActiveState() StateID {
	return m.activeStateID
}

// ActiveName returns the active leaf name, empty before Init
func (m *Machine[T]) ActiveName() string {
	if node, ok := m.nodes[m.activeStateID]; ok {
		return node.Name
	}
	return ""
}

// IsIn reports whether name is on the active path
func (m *Machine[T]) IsIn(name string) bool {
	id, ok := m.nameToID[name]
	if !ok {
		return false
	}
	for _, p := range m.activePath {
		if p == id {
			return true
		}
	}
	return false
}

// TimeInState returns time spent in the current state
func (m *Machine[T]) TimeInState() time.Duration {
	return m.timeInState
}

func runActions[T any](ctx T, actions []Action[T]) {
	for _, action := range actions {
		action.Func(ctx, action.Args)
	}
}

// stateTimeExceeds builds a guard true once the active state has lasted guard_args.ms
func stateTimeExceeds[T any](m *Machine[T], args map[string]any) GuardFunc[T] {
	var limit time.Duration
	switch v := args["ms"].(type) {
	case float64:
		limit = time.Duration(v * float64(time.Millisecond))
	case int64:
		limit = time.Duration(v) * time.Millisecond
	case int:
		limit = time.Duration(v) * time.Millisecond
	}
	return func(T) bool {
		return m.timeInState >= limit
	}
}
