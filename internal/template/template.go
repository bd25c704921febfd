// Package template builds CloudFormation templates from declared resources.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	nightshift "github.com/opsforge/nightshift"
	"github.com/opsforge/nightshift/internal/serialize"
)

// FormatVersion is the CloudFormation template format version emitted by
// the builder.
const FormatVersion = "2010-09-09"

// Builder constructs a CloudFormation template from declared resources.
// Resources are added under their logical ID; dependencies between them are
// declared explicitly and checked for referential integrity.
type Builder struct {
	description string
	resources   map[string]nightshift.Resource
	deps        map[string][]string
	parameters  map[string]nightshift.Parameter
	outputs     map[string]nightshift.Output
}

// NewBuilder creates an empty template builder.
func NewBuilder() *Builder {
	return &Builder{
		resources:  make(map[string]nightshift.Resource),
		deps:       make(map[string][]string),
		parameters: make(map[string]nightshift.Parameter),
		outputs:    make(map[string]nightshift.Output),
	}
}

// SetDescription sets the template description.
func (b *Builder) SetDescription(desc string) {
	b.description = desc
}

// AddResource registers a resource under its logical ID.
// deps are logical IDs of resources this one references; they are used for
// validation and deterministic ordering, not emitted as DependsOn.
func (b *Builder) AddResource(name string, res nightshift.Resource, deps ...string) error {
	if name == "" {
		return errors.New("resource logical ID must not be empty")
	}
	if _, exists := b.resources[name]; exists {
		return fmt.Errorf("duplicate resource logical ID: %s", name)
	}
	b.resources[name] = res
	b.deps[name] = deps
	return nil
}

// AddParameter registers a template parameter.
func (b *Builder) AddParameter(name string, param nightshift.Parameter) {
	b.parameters[name] = param
}

// AddOutput registers a template output.
func (b *Builder) AddOutput(name string, out nightshift.Output) {
	b.outputs[name] = out
}

// Build constructs the CloudFormation template.
// Dependencies are validated (every referenced logical ID must exist, no
// cycles) and resources are serialized in deterministic order.
func (b *Builder) Build() (*nightshift.Template, error) {
	order, err := b.topologicalSort()
	if err != nil {
		return nil, err
	}

	tmpl := &nightshift.Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              b.description,
		Resources:                make(map[string]nightshift.ResourceDef),
	}

	if len(b.parameters) > 0 {
		tmpl.Parameters = make(map[string]nightshift.Parameter)
		for name, param := range b.parameters {
			tmpl.Parameters[name] = param
		}
	}

	for _, name := range order {
		res := b.resources[name]

		props, err := serialize.Resource(res)
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", name, err)
		}

		tmpl.Resources[name] = nightshift.ResourceDef{
			Type:       res.ResourceType(),
			Properties: props,
		}
	}

	if len(b.outputs) > 0 {
		tmpl.Outputs = make(map[string]nightshift.Output)
		for name, out := range b.outputs {
			val, err := serialize.Value(out.Value)
			if err != nil {
				return nil, fmt.Errorf("serializing output %s: %w", name, err)
			}
			out.Value = val
			tmpl.Outputs[name] = out
		}
	}

	return tmpl, nil
}

// topologicalSort returns resources in dependency order using Kahn's
// algorithm, with lexical tie-breaking for determinism.
func (b *Builder) topologicalSort() ([]string, error) {
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range b.resources {
		graph[name] = nil
		inDegree[name] = 0
	}

	for name, deps := range b.deps {
		for _, dep := range deps {
			if _, exists := b.resources[dep]; !exists {
				return nil, fmt.Errorf("resource %s references undefined resource %s", name, dep)
			}
			graph[dep] = append(graph[dep], name)
			inDegree[name]++
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range graph[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(b.resources) {
		return nil, b.cycleError()
	}

	return result, nil
}

// cycleError reports a dependency cycle among the declared resources.
func (b *Builder) cycleError() error {
	visited := make(map[string]bool)
	path := make(map[string]bool)

	var cycle []string
	var findCycle func(node string) bool
	findCycle = func(node string) bool {
		visited[node] = true
		path[node] = true

		for _, dep := range b.deps[node] {
			if _, exists := b.resources[dep]; !exists {
				continue
			}
			if !visited[dep] {
				if findCycle(dep) {
					cycle = append([]string{node}, cycle...)
					return true
				}
			} else if path[dep] {
				cycle = append([]string{dep, node}, cycle...)
				return true
			}
		}

		path[node] = false
		return false
	}

	var names []string
	for name := range b.resources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !visited[name] {
			if findCycle(name) {
				break
			}
		}
	}

	if len(cycle) > 0 {
		msg := "circular dependency detected:"
		for i, name := range cycle {
			msg += " " + name
			if i < len(cycle)-1 {
				msg += " ->"
			}
		}
		return errors.New(msg)
	}

	return errors.New("circular dependency detected")
}

// ToJSON serializes the template to indented JSON.
func ToJSON(t *nightshift.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *nightshift.Template) ([]byte, error) {
	return yaml.Marshal(t)
}
