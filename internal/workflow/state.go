package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// StateFile is the name of the run summary written into the project.
const StateFile = ".ytkit-run.yaml"

// AddEvent records an event in the workflow history in a thread-safe manner
func (s *WorkflowState) AddEvent(node *WorkflowNode, kind EventType, message string, data map[string]interface{}) {
	s.Lock()
	defer s.Unlock()
	s.History = append(s.History, WorkflowEvent{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Step:      node.Step.Name,
		Type:      kind,
		Message:   message,
		Data:      data,
	})
}

// UpdateNodeStatus updates a node's status in a thread-safe manner
func (s *WorkflowState) UpdateNodeStatus(nodeID string, status NodeStatus) {
	s.Lock()
	defer s.Unlock()
	if node, exists := s.Graph.Nodes[nodeID]; exists {
		node.Status = status
	}
}

// GetNodeStatus gets a node's status in a thread-safe manner
func (s *WorkflowState) GetNodeStatus(nodeID string) NodeStatus {
	s.RLock()
	defer s.RUnlock()
	if node, exists := s.Graph.Nodes[nodeID]; exists {
		return node.Status
	}
	return NodeStatusPending
}

// RunSummary is the persisted form of a WorkflowState
type RunSummary struct {
	ID        string          `yaml:"id"`
	Name      string          `yaml:"name"`
	Project   string          `yaml:"project"`
	Status    WorkflowStatus  `yaml:"status"`
	StartTime time.Time       `yaml:"startTime"`
	EndTime   time.Time       `yaml:"endTime"`
	Steps     []StepSummary   `yaml:"steps"`
	Events    []WorkflowEvent `yaml:"events"`
}

// StepSummary is the persisted form of one node
type StepSummary struct {
	Name     string                 `yaml:"name"`
	Module   string                 `yaml:"module"`
	Status   NodeStatus             `yaml:"status"`
	Outputs  map[string]string      `yaml:"outputs,omitempty"`
	Metadata map[string]interface{} `yaml:"metadata,omitempty"`
	Error    string                 `yaml:"error,omitempty"`
}

// Summary snapshots the state for persistence
func (s *WorkflowState) Summary() RunSummary {
	s.RLock()
	defer s.RUnlock()

	summary := RunSummary{
		ID:        s.ID,
		Name:      s.Name,
		Project:   s.Project,
		Status:    s.Status,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Events:    append([]WorkflowEvent(nil), s.History...),
	}
	if s.Graph != nil {
		for _, node := range s.Graph.NodesInOrder() {
			summary.Steps = append(summary.Steps, StepSummary{
				Name:     node.Step.Name,
				Module:   node.Step.Module,
				Status:   node.Status,
				Outputs:  node.Outputs,
				Metadata: node.Metadata,
				Error:    node.Error,
			})
		}
	}
	return summary
}

// SaveWorkflowState writes the run summary as YAML
func SaveWorkflowState(state *WorkflowState, outputPath string) error {
	data, err := yaml.Marshal(state.Summary())
	if err != nil {
		return fmt.Errorf("failed to marshal workflow state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write workflow state: %w", err)
	}

	return nil
}

// LoadWorkflowState reads a run summary written by SaveWorkflowState
func LoadWorkflowState(inputPath string) (*RunSummary, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow state: %w", err)
	}

	var summary RunSummary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse workflow state: %w", err)
	}
	return &summary, nil
}
