package fsm

import (
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// LoadConfig parses a TOML byte slice and populates the Machine
// Validates all references (states, guards, actions)
// Clears existing graph data before loading
func (m *Machine[T]) LoadConfig(data []byte) error {
	// 1. Decode TOML into intermediate config
	var config RootConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to unmarshal FSM config: %w", err)
	}
	if config.States == nil {
		config.States = make(map[string]*StateConfig)
	}

	// 2. Clear existing graph
	m.nodes = make(map[StateID]*Node[T])
	m.nameToID = make(map[string]StateID)
	m.activeStateID = StateNone
	m.activePath = m.activePath[:0]
	m.timeInState = 0

	// 3. Root node, then IDs for the rest in sorted order for determinism
	m.AddState(StateRoot, "Root", StateNone)
	if _, ok := config.States["Root"]; !ok {
		config.States["Root"] = &StateConfig{}
	}

	stateNames := make([]string, 0, len(config.States))
	for name := range config.States {
		if name != "Root" {
			stateNames = append(stateNames, name)
		}
	}
	sort.Strings(stateNames)

	ids := make(map[string]StateID, len(config.States))
	ids["Root"] = StateRoot
	for i, name := range stateNames {
		ids[name] = StateID(i + 2)
	}

	// 4. Build nodes and resolve relationships
	for _, name := range append([]string{"Root"}, stateNames...) {
		cfg := config.States[name]
		if cfg == nil {
			cfg = &StateConfig{}
		}
		id := ids[name]

		var node *Node[T]
		if id == StateRoot {
			node = m.nodes[StateRoot]
		} else {
			pName := cfg.Parent
			if pName == "" {
				pName = "Root"
			}
			parentID, ok := ids[pName]
			if !ok {
				return fmt.Errorf("state '%s' references unknown parent '%s'", name, pName)
			}
			node = m.AddState(id, name, parentID)
		}

		var err error
		if node.OnEnter, err = m.compileActions(cfg.OnEnter); err != nil {
			return fmt.Errorf("state '%s' OnEnter: %w", name, err)
		}
		if node.OnUpdate, err = m.compileActions(cfg.OnUpdate); err != nil {
			return fmt.Errorf("state '%s' OnUpdate: %w", name, err)
		}
		if node.OnExit, err = m.compileActions(cfg.OnExit); err != nil {
			return fmt.Errorf("state '%s' OnExit: %w", name, err)
		}

		if err := m.compileTransitions(node, cfg.Transitions, ids); err != nil {
			return fmt.Errorf("state '%s' transitions: %w", name, err)
		}
	}

	// 5. Finalize: Compile Paths for LCA
	if err := m.CompilePaths(); err != nil {
		return err
	}

	// 6. Validate initial state
	initialID, ok := ids[config.InitialState]
	if !ok || initialID == StateRoot {
		return fmt.Errorf("initial state '%s' not found", config.InitialState)
	}
	m.InitialStateID = initialID

	return nil
}

// GetStateID resolves a state name to ID
func (m *Machine[T]) GetStateID(name string) (StateID, bool) {
	id, ok := m.nameToID[name]
	return id, ok
}

func (m *Machine[T]) compileActions(configs []ActionConfig) ([]Action[T], error) {
	actions := make([]Action[T], 0, len(configs))
	for _, cfg := range configs {
		fn, ok := m.actionReg[cfg.Action]
		if !ok {
			return nil, fmt.Errorf("unknown action function '%s'", cfg.Action)
		}
		actions = append(actions, Action[T]{
			Name: cfg.Action,
			Func: fn,
			Args: cfg.Args,
		})
	}
	return actions, nil
}

func (m *Machine[T]) compileTransitions(node *Node[T], configs []TransitionConfig, ids map[string]StateID) error {
	for _, cfg := range configs {
		targetID, ok := ids[cfg.Target]
		if !ok || targetID == StateRoot {
			return fmt.Errorf("transition references unknown target '%s'", cfg.Target)
		}
		if cfg.Trigger == "" {
			return fmt.Errorf("transition to '%s' has no trigger", cfg.Target)
		}

		var guard GuardFunc[T]
		if cfg.Guard != "" {
			// Check factory first
			if factory, ok := m.guardFactoryReg[cfg.Guard]; ok {
				guard = factory(m, cfg.GuardArgs)
			} else if g, ok := m.guardReg[cfg.Guard]; ok {
				guard = g
			} else {
				return fmt.Errorf("unknown guard '%s'", cfg.Guard)
			}
		}

		actions, err := m.compileActions(cfg.Actions)
		if err != nil {
			return fmt.Errorf("transition to '%s': %w", cfg.Target, err)
		}

		err = m.AddTransition(node.ID, Transition[T]{
			TargetID: targetID,
			Trigger:  cfg.Trigger,
			Guard:    guard,
			Actions:  actions,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
