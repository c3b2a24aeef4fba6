// Package workflow runs ytkit stages as a dependency-ordered pipeline
package workflow

import (
	"sync"
	"time"

	"github.com/ytkit/ytkit/internal/mod"
)

// Core workflow types

// Workflow is a named list of steps run against one project
type Workflow struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Project     string `yaml:"project,omitempty"`
	Steps       []Step `yaml:"steps"`

	// Registry holds all available modules
	registry *mod.ModuleRegistry
}

// Step represents a single processing step in a workflow
type Step struct {
	Name       string                 `yaml:"name"`
	Module     string                 `yaml:"module"`
	Parameters map[string]interface{} `yaml:"parameters,omitempty"`
	DependsOn  []string               `yaml:"dependsOn,omitempty"`
}

// Graph-related types

// WorkflowGraph represents the directed acyclic graph of workflow steps
type WorkflowGraph struct {
	sync.RWMutex // Protects all fields below
	Nodes        map[string]*WorkflowNode
	Edges        map[string][]string
	order        []string // node ids in insertion order
}

// WorkflowNode represents a single node in the workflow graph
type WorkflowNode struct {
	ID       string
	Index    int
	Step     Step
	Status   NodeStatus
	Outputs  map[string]string
	Metadata map[string]interface{}
	Error    string
}

// State-related types

// WorkflowState represents the current state of a workflow execution
type WorkflowState struct {
	sync.RWMutex // Protects all fields below

	ID          string
	Name        string
	Project     string
	Graph       *WorkflowGraph
	StartTime   time.Time
	EndTime     time.Time
	Status      WorkflowStatus
	CurrentNode string
	History     []WorkflowEvent
}

// WorkflowEvent represents an event that occurred during workflow execution
type WorkflowEvent struct {
	ID        string                 `yaml:"id"`
	Timestamp time.Time              `yaml:"timestamp"`
	Step      string                 `yaml:"step"`
	Type      EventType              `yaml:"type"`
	Message   string                 `yaml:"message"`
	Data      map[string]interface{} `yaml:"data,omitempty"`
}

// EventType classifies a workflow event
type EventType string

const (
	EventStarted   EventType = "started"
	EventCompleted EventType = "completed"
	EventSkipped   EventType = "skipped"
	EventFailed    EventType = "failed"
)

// Status types

// NodeStatus represents the current status of a workflow node
type NodeStatus string

const (
	NodeStatusPending  NodeStatus = "pending"
	NodeStatusRunning  NodeStatus = "running"
	NodeStatusComplete NodeStatus = "complete"
	NodeStatusFailed   NodeStatus = "failed"
	NodeStatusSkipped  NodeStatus = "skipped"
)

// WorkflowStatus represents the current status of the workflow
type WorkflowStatus string

const (
	WorkflowStatusPending  WorkflowStatus = "pending"
	WorkflowStatusRunning  WorkflowStatus = "running"
	WorkflowStatusComplete WorkflowStatus = "complete"
	WorkflowStatusFailed   WorkflowStatus = "failed"
)
