// Package mod defines the pipeline step contract shared by every stage and
// the registry the workflow runner resolves steps from.
package mod

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Module is one pipeline stage.
type Module interface {
	// Name returns the module's unique identifier
	Name() string

	// GetIO describes the project artifacts the module reads and writes
	GetIO() ModuleIO

	// Validate checks the parameters without touching the network
	Validate(params map[string]interface{}) error

	// Execute runs the stage against a project
	Execute(ctx context.Context, params map[string]interface{}) (ModuleResult, error)
}

// ModuleIO lists the artifacts a module consumes and produces.
type ModuleIO struct {
	RequiredInputs  []ModuleInput
	ProducedOutputs []ModuleOutput
	OptionalInputs  []ModuleInput
}

// ModuleInput is an artifact a module reads.
type ModuleInput struct {
	Name        string   // logical name, e.g. "subtitles"
	Description string   // what the input is used for
	Patterns    []string // file name suffixes inside the project, e.g. ".en.vtt"
	Type        string   // file, directory or data
}

// ModuleOutput is an artifact a module writes.
type ModuleOutput struct {
	Name        string
	Description string
	Patterns    []string
	Type        string
}

// ModuleResult is what a stage reports back to the runner.
type ModuleResult struct {
	Outputs     map[string]string      // output name to file path
	Metadata    map[string]interface{} // e.g. "skipped": true
	Statistics  map[string]interface{} // counts and timings
	NextModules []string               // suggested follow-up stages
}

// Skipped reports whether the stage found its outputs already present.
func (r ModuleResult) Skipped() bool {
	skipped, _ := r.Metadata[MetaSkipped].(bool)
	return skipped
}

// InputType is the kind of a module input.
type InputType string

const (
	InputTypeFile      InputType = "file"
	InputTypeDirectory InputType = "directory"
	InputTypeData      InputType = "data"
)

// OutputType is the kind of a module output.
type OutputType string

const (
	OutputTypeFile      OutputType = "file"
	OutputTypeDirectory OutputType = "directory"
	OutputTypeData      OutputType = "data"
)

// ModuleRegistry stores the available modules.
type ModuleRegistry struct {
	modules map[string]Module
	sync.RWMutex
}

// NewModuleRegistry creates an empty registry.
func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{
		modules: make(map[string]Module),
	}
}

// ValidateIO checks that a module's I/O description is well formed.
func ValidateIO(io ModuleIO) error {
	for i, input := range io.RequiredInputs {
		if err := validateInput("required", i, input); err != nil {
			return err
		}
	}
	for i, input := range io.OptionalInputs {
		if err := validateInput("optional", i, input); err != nil {
			return err
		}
	}

	for i, output := range io.ProducedOutputs {
		if output.Name == "" {
			return fmt.Errorf("output %d has empty name", i)
		}
		if !isValidOutputType(output.Type) {
			return fmt.Errorf("output %s has invalid type: %q", output.Name, output.Type)
		}
		if len(output.Patterns) == 0 {
			return fmt.Errorf("output %s has no patterns defined", output.Name)
		}
	}

	return nil
}

func validateInput(kind string, i int, input ModuleInput) error {
	if input.Name == "" {
		return fmt.Errorf("%s input %d has empty name", kind, i)
	}
	if !isValidInputType(input.Type) {
		return fmt.Errorf("%s input %s has invalid type: %q", kind, input.Name, input.Type)
	}
	return nil
}

func isValidInputType(t string) bool {
	switch InputType(t) {
	case InputTypeFile, InputTypeDirectory, InputTypeData:
		return true
	default:
		return false
	}
}

func isValidOutputType(t string) bool {
	switch OutputType(t) {
	case OutputTypeFile, OutputTypeDirectory, OutputTypeData:
		return true
	default:
		return false
	}
}

// Register adds a module to the registry.
func (r *ModuleRegistry) Register(m Module) error {
	if m == nil {
		return fmt.Errorf("cannot register nil module")
	}

	name := m.Name()
	if name == "" {
		return fmt.Errorf("module name cannot be empty")
	}

	if err := ValidateIO(m.GetIO()); err != nil {
		return fmt.Errorf("invalid I/O specification for module %s: %w", name, err)
	}

	r.Lock()
	defer r.Unlock()

	if _, exists := r.modules[name]; exists {
		return fmt.Errorf("module %s is already registered", name)
	}

	r.modules[name] = m
	return nil
}

// Get retrieves a module by name.
func (r *ModuleRegistry) Get(name string) (Module, error) {
	if name == "" {
		return nil, fmt.Errorf("module name cannot be empty")
	}

	r.RLock()
	defer r.RUnlock()

	module, exists := r.modules[name]
	if !exists {
		return nil, fmt.Errorf("module %s not found", name)
	}
	return module, nil
}

// ListModules returns the registered modules sorted by name.
func (r *ModuleRegistry) ListModules() []Module {
	r.RLock()
	defer r.RUnlock()

	modules := make([]Module, 0, len(r.modules))
	for _, module := range r.modules {
		modules = append(modules, module)
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Name() < modules[j].Name() })
	return modules
}

// ParseParams converts a generic parameter map into a module's Params struct.
func ParseParams(params map[string]interface{}, target interface{}) error {
	if params == nil {
		return fmt.Errorf("params cannot be nil")
	}
	if target == nil {
		return fmt.Errorf("target cannot be nil")
	}

	if reflect.ValueOf(target).Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer to a struct")
	}
	if reflect.ValueOf(target).Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to a struct")
	}

	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("error marshaling params: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("error unmarshaling params: %w", err)
	}

	return nil
}
