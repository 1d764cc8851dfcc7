package fsm

import "fmt"

// AddState registers a node under parentID, replacing any node with the same id
func (m *Machine[T]) AddState(id StateID, name string, parentID StateID) *Node[T] {
	node := &Node[T]{ID: id, Name: name, ParentID: parentID}
	m.nodes[id] = node
	m.nameToID[name] = id
	return node
}

// AddTransition appends t to the source node, unknown sources are reported
func (m *Machine[T]) AddTransition(sourceID StateID, t Transition[T]) error {
	node, ok := m.nodes[sourceID]
	if !ok {
		return fmt.Errorf("transition from unknown state %d", sourceID)
	}
	node.Transitions = append(node.Transitions, t)
	return nil
}

// CompilePaths fills every node's root-to-leaf Path, run after the graph is complete
func (m *Machine[T]) CompilePaths() error {
	for id, node := range m.nodes {
		var chain []StateID
		for curr := node; ; {
			chain = append(chain, curr.ID)
			if len(chain) > len(m.nodes) {
				return fmt.Errorf("node %d has a parent cycle", id)
			}
			if curr.ParentID == StateNone {
				break
			}
			parent, ok := m.nodes[curr.ParentID]
			if !ok {
				return fmt.Errorf("node %d references missing parent %d", id, curr.ParentID)
			}
			curr = parent
		}

		path := make([]StateID, len(chain))
		for i, sid := range chain {
			path[len(chain)-1-i] = sid
		}
		node.Path = path
	}
	return nil
}
