package workflow

import (
	"fmt"

	"github.com/google/uuid"
)

// NewWorkflowGraph creates a new workflow graph
func NewWorkflowGraph() *WorkflowGraph {
	return &WorkflowGraph{
		Nodes: make(map[string]*WorkflowNode),
		Edges: make(map[string][]string),
	}
}

// AddNode adds a new node to the graph in a thread-safe manner
func (g *WorkflowGraph) AddNode(step Step) *WorkflowNode {
	g.Lock()
	defer g.Unlock()

	node := &WorkflowNode{
		ID:       uuid.New().String(),
		Index:    len(g.order),
		Step:     step,
		Status:   NodeStatusPending,
		Outputs:  make(map[string]string),
		Metadata: make(map[string]interface{}),
	}
	g.Nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return node
}

// AddEdge adds a directed edge between two nodes in a thread-safe manner.
// Duplicate edges are ignored.
func (g *WorkflowGraph) AddEdge(fromID, toID string) error {
	g.Lock()
	defer g.Unlock()

	if _, exists := g.Nodes[fromID]; !exists {
		return fmt.Errorf("source node %s does not exist", fromID)
	}
	if _, exists := g.Nodes[toID]; !exists {
		return fmt.Errorf("destination node %s does not exist", toID)
	}
	if fromID == toID {
		return fmt.Errorf("step %s cannot depend on itself", g.Nodes[fromID].Step.Name)
	}

	for _, existing := range g.Edges[fromID] {
		if existing == toID {
			return nil
		}
	}
	g.Edges[fromID] = append(g.Edges[fromID], toID)
	return nil
}

// TopologicalSort returns node ids in dependency order. Among nodes that are
// ready at the same time, the one declared first runs first.
func (g *WorkflowGraph) TopologicalSort() ([]string, error) {
	g.RLock()
	defer g.RUnlock()

	inDegree := make(map[string]int, len(g.Nodes))
	for _, targets := range g.Edges {
		for _, to := range targets {
			inDegree[to]++
		}
	}

	done := make(map[string]bool, len(g.Nodes))
	order := make([]string, 0, len(g.Nodes))
	for len(order) < len(g.order) {
		next := ""
		for _, id := range g.order {
			if !done[id] && inDegree[id] == 0 {
				next = id
				break
			}
		}
		if next == "" {
			return nil, fmt.Errorf("cycle detected in workflow graph")
		}
		done[next] = true
		order = append(order, next)
		for _, to := range g.Edges[next] {
			inDegree[to]--
		}
	}

	return order, nil
}

// GetNodeDependencies returns all nodes that must complete before the given
// node, in declaration order
func (g *WorkflowGraph) GetNodeDependencies(nodeID string) []string {
	g.RLock()
	defer g.RUnlock()
	return g.dependencies(nodeID)
}

func (g *WorkflowGraph) dependencies(nodeID string) []string {
	deps := make([]string, 0)
	for _, fromID := range g.order {
		for _, toID := range g.Edges[fromID] {
			if toID == nodeID {
				deps = append(deps, fromID)
			}
		}
	}
	return deps
}

// CanExecuteNode checks if every dependency of a node has completed
func (g *WorkflowGraph) CanExecuteNode(nodeID string) bool {
	g.RLock()
	defer g.RUnlock()

	for _, depID := range g.dependencies(nodeID) {
		if g.Nodes[depID].Status != NodeStatusComplete {
			return false
		}
	}
	return true
}

// NodesInOrder returns the nodes in declaration order
func (g *WorkflowGraph) NodesInOrder() []*WorkflowNode {
	g.RLock()
	defer g.RUnlock()

	nodes := make([]*WorkflowNode, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.Nodes[id])
	}
	return nodes
}
