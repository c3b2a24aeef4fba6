package workflow

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ytkit/ytkit/internal/mod"
	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/utils"
)

// Placeholders expanded in string parameters.
const (
	PlaceholderProject = "${project}"
	PlaceholderID      = "${id}"
)

// LoadFromFile loads a workflow from a YAML file
func LoadFromFile(path string, registry *mod.ModuleRegistry) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}
	return Parse(data, registry)
}

// Parse decodes a YAML workflow and checks it against the registry
func Parse(data []byte, registry *mod.ModuleRegistry) (*Workflow, error) {
	var workflow Workflow
	if err := yaml.Unmarshal(data, &workflow); err != nil {
		return nil, fmt.Errorf("failed to parse workflow file: %w", err)
	}
	if err := workflow.init(registry); err != nil {
		return nil, err
	}
	return &workflow, nil
}

// New builds a workflow in code, as the single-stage commands do
func New(name, projectDir string, steps []Step, registry *mod.ModuleRegistry) (*Workflow, error) {
	workflow := &Workflow{Name: name, Project: projectDir, Steps: steps}
	if err := workflow.init(registry); err != nil {
		return nil, err
	}
	return workflow, nil
}

// SetProject overrides the project directory named in the file
func (w *Workflow) SetProject(dir string) {
	w.Project = dir
}

func (w *Workflow) init(registry *mod.ModuleRegistry) error {
	if registry == nil {
		return fmt.Errorf("workflow %q has no module registry", w.Name)
	}
	w.registry = registry

	if w.Name == "" {
		w.Name = "workflow"
	}
	if len(w.Steps) == 0 {
		return fmt.Errorf("workflow %q has no steps", w.Name)
	}

	seen := make(map[string]bool, len(w.Steps))
	for i := range w.Steps {
		step := &w.Steps[i]
		if step.Module == "" {
			return fmt.Errorf("step %d of workflow %q has no module", i+1, w.Name)
		}
		if step.Name == "" {
			step.Name = step.Module
		}
		if seen[step.Name] {
			return fmt.Errorf("duplicate step name %q in workflow %q", step.Name, w.Name)
		}
		seen[step.Name] = true

		if _, err := registry.Get(step.Module); err != nil {
			return fmt.Errorf("step %s: %w", step.Name, err)
		}
	}

	for _, step := range w.Steps {
		for _, dep := range step.DependsOn {
			if !seen[dep] {
				return fmt.Errorf("step %s depends on unknown step %q", step.Name, dep)
			}
		}
	}
	return nil
}

// Execute opens and locks the project, runs every step and saves the run
// summary into the project directory. The state is returned even on failure.
func (w *Workflow) Execute(ctx context.Context) (*WorkflowState, error) {
	dir := w.Project
	if dir == "" {
		dir = "."
	}
	if err := utils.ValidateProjectDir(dir); err != nil {
		return nil, err
	}
	p, err := project.Open(dir)
	if err != nil {
		return nil, err
	}

	unlock, err := p.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	state, runErr := w.ExecuteWithState(ctx, p)
	if state != nil {
		if err := SaveWorkflowState(state, p.Path(StateFile)); err != nil {
			utils.LogWarning("Failed to save workflow state: %v", err)
		}
	}
	return state, runErr
}

// ExecuteWithState runs the steps in dependency order and stops at the first
// failure; steps that never ran are marked skipped.
func (w *Workflow) ExecuteWithState(ctx context.Context, p *project.Project) (*WorkflowState, error) {
	state := &WorkflowState{
		ID:        uuid.New().String(),
		Name:      w.Name,
		Project:   p.Dir,
		StartTime: time.Now(),
		Status:    WorkflowStatusRunning,
		History:   make([]WorkflowEvent, 0),
	}

	graph := NewWorkflowGraph()
	state.Graph = graph

	nodeMap := make(map[string]*WorkflowNode)
	for _, step := range w.Steps {
		nodeMap[step.Name] = graph.AddNode(step)
	}

	if err := w.buildDependencyEdges(graph, nodeMap); err != nil {
		return w.finish(state, err)
	}

	order, err := graph.TopologicalSort()
	if err != nil {
		return w.finish(state, fmt.Errorf("failed to determine execution order: %w", err))
	}

	utils.LogVerbose("Workflow %s (run %s): %d steps", w.Name, state.ID, len(order))

	for _, nodeID := range order {
		node := graph.Nodes[nodeID]

		if err := ctx.Err(); err != nil {
			return w.abort(state, order, fmt.Errorf("step %s: %w", node.Step.Name, err))
		}
		if !graph.CanExecuteNode(nodeID) {
			return w.abort(state, order, fmt.Errorf("step %s: dependencies did not complete", node.Step.Name))
		}

		if err := w.runNode(ctx, state, node, p); err != nil {
			return w.abort(state, order, fmt.Errorf("step %s: %w", node.Step.Name, err))
		}
	}

	return w.finish(state, nil)
}

func (w *Workflow) runNode(ctx context.Context, state *WorkflowState, node *WorkflowNode, p *project.Project) error {
	state.Lock()
	state.CurrentNode = node.ID
	state.Unlock()
	state.UpdateNodeStatus(node.ID, NodeStatusRunning)
	state.AddEvent(node, EventStarted, fmt.Sprintf("Started executing %s", node.Step.Name), nil)

	module, err := w.registry.Get(node.Step.Module)
	if err != nil {
		return w.fail(state, node, err)
	}

	params := resolveParams(node.Step.Parameters, p)
	if err := module.Validate(params); err != nil {
		return w.fail(state, node, err)
	}

	utils.LogInfo("Step %s (%s)", node.Step.Name, node.Step.Module)
	started := time.Now()
	result, err := module.Execute(ctx, params)
	if err != nil {
		return w.fail(state, node, err)
	}

	state.Lock()
	node.Outputs = result.Outputs
	node.Metadata = result.Metadata
	state.Unlock()
	state.UpdateNodeStatus(node.ID, NodeStatusComplete)

	if result.Skipped() {
		state.AddEvent(node, EventSkipped, fmt.Sprintf("Outputs of %s already exist", node.Step.Name), nil)
		utils.LogInfo("Step %s: outputs already exist, skipping (use --force to regenerate)", node.Step.Name)
		return nil
	}

	state.AddEvent(node, EventCompleted, fmt.Sprintf("Completed executing %s", node.Step.Name), result.Statistics)
	utils.LogSuccess("Step %s completed in %s", node.Step.Name, time.Since(started).Round(time.Millisecond))
	if len(result.NextModules) > 0 {
		utils.LogVerbose("Next: %s", strings.Join(result.NextModules, ", "))
	}
	return nil
}

func (w *Workflow) fail(state *WorkflowState, node *WorkflowNode, err error) error {
	state.Lock()
	node.Error = err.Error()
	state.Unlock()
	state.UpdateNodeStatus(node.ID, NodeStatusFailed)
	state.AddEvent(node, EventFailed, fmt.Sprintf("Failed executing %s: %v", node.Step.Name, err),
		map[string]interface{}{"error": err.Error()})
	return err
}

// abort marks every step that has not run as skipped and fails the run
func (w *Workflow) abort(state *WorkflowState, order []string, err error) (*WorkflowState, error) {
	for _, nodeID := range order {
		if state.GetNodeStatus(nodeID) != NodeStatusPending {
			continue
		}
		node := state.Graph.Nodes[nodeID]
		state.UpdateNodeStatus(nodeID, NodeStatusSkipped)
		state.AddEvent(node, EventSkipped, fmt.Sprintf("Skipped %s after an earlier failure", node.Step.Name), nil)
	}
	return w.finish(state, err)
}

func (w *Workflow) finish(state *WorkflowState, err error) (*WorkflowState, error) {
	state.Lock()
	defer state.Unlock()
	state.EndTime = time.Now()
	if err != nil {
		state.Status = WorkflowStatusFailed
		return state, err
	}
	state.Status = WorkflowStatusComplete
	return state, nil
}

// buildDependencyEdges adds edges for explicit dependsOn entries and for every
// earlier step that produces an artifact a later step requires
func (w *Workflow) buildDependencyEdges(graph *WorkflowGraph, nodeMap map[string]*WorkflowNode) error {
	for _, step := range w.Steps {
		for _, dep := range step.DependsOn {
			if err := graph.AddEdge(nodeMap[dep].ID, nodeMap[step.Name].ID); err != nil {
				return fmt.Errorf("failed to add dependency edge: %w", err)
			}
		}
	}

	for i, step := range w.Steps {
		module, err := w.registry.Get(step.Module)
		if err != nil {
			return fmt.Errorf("failed to get module %s: %w", step.Module, err)
		}

		for _, input := range module.GetIO().RequiredInputs {
			// An explicit parameter replaces the upstream artifact
			if _, hasParam := step.Parameters[input.Name]; hasParam {
				continue
			}

			for _, prevStep := range w.Steps[:i] {
				prevModule, err := w.registry.Get(prevStep.Module)
				if err != nil {
					continue
				}

				for _, output := range prevModule.GetIO().ProducedOutputs {
					if matchesIOPattern(input, output) {
						if err := graph.AddEdge(nodeMap[prevStep.Name].ID, nodeMap[step.Name].ID); err != nil {
							return fmt.Errorf("failed to add dependency edge: %w", err)
						}
						break
					}
				}
			}
		}
	}

	return nil
}

// matchesIOPattern checks if an input matches an output's pattern
func matchesIOPattern(input mod.ModuleInput, output mod.ModuleOutput) bool {
	if input.Type != output.Type {
		return false
	}

	for _, inPattern := range input.Patterns {
		for _, outPattern := range output.Patterns {
			if inPattern == outPattern {
				return true
			}
		}
	}

	return false
}

// resolveParams copies the step parameters, expands placeholders and sets
// the project directory unless the step names one itself
func resolveParams(params map[string]interface{}, p *project.Project) map[string]interface{} {
	replacer := strings.NewReplacer(PlaceholderProject, p.Dir, PlaceholderID, p.VideoID)

	resolved := make(map[string]interface{}, len(params)+1)
	for k, v := range params {
		resolved[k] = resolveValue(v, replacer)
	}
	if dir, ok := resolved["project"].(string); !ok || dir == "" {
		resolved["project"] = p.Dir
	}
	return resolved
}

func resolveValue(v interface{}, replacer *strings.Replacer) interface{} {
	switch val := v.(type) {
	case string:
		return replacer.Replace(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = resolveValue(item, replacer)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = resolveValue(item, replacer)
		}
		return out
	default:
		return v
	}
}
