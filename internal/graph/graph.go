// Package graph renders DOT and Mermaid dependency graphs from a
// synthesized CloudFormation template.
//
// Edges are discovered by walking resource properties for Ref and
// Fn::GetAtt references, so the rule→function binding and the permission's
// references show up without any extra bookkeeping.
package graph

import (
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	nightshift "github.com/opsforge/nightshift"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from a template.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format
}

// Generate renders the template's dependency graph to w.
func (g *Generator) Generate(tmpl *nightshift.Template, w io.Writer) error {
	graph := g.buildGraph(tmpl)

	format := g.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := w.Write([]byte(output))
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(tmpl *nightshift.Template) (string, error) {
	var sb strings.Builder
	if err := g.Generate(tmpl, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// buildGraph creates the dot.Graph structure from the template.
func (g *Generator) buildGraph(tmpl *nightshift.Template) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})

	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	names := make([]string, 0, len(tmpl.Resources))
	for name := range tmpl.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		n := graph.Node(name)
		n.Label(name + "\\n[" + tmpl.Resources[name].Type + "]")
	}

	for _, name := range names {
		refs := collectRefs(tmpl.Resources[name].Properties)
		for _, dep := range refs {
			if _, exists := tmpl.Resources[dep]; !exists {
				// Parameters and pseudo-parameters are not graph nodes.
				continue
			}
			if dep == name {
				continue
			}
			graph.Edge(graph.Node(name), graph.Node(dep))
		}
	}

	return graph
}

// collectRefs walks serialized properties and returns the logical IDs
// referenced through Ref or Fn::GetAtt, sorted and deduplicated.
func collectRefs(v any) []string {
	seen := make(map[string]bool)
	walkRefs(v, seen)

	refs := make([]string, 0, len(seen))
	for name := range seen {
		refs = append(refs, name)
	}
	sort.Strings(refs)
	return refs
}

func walkRefs(v any, seen map[string]bool) {
	switch val := v.(type) {
	case map[string]any:
		if ref, ok := val["Ref"].(string); ok && len(val) == 1 {
			seen[ref] = true
			return
		}
		if att, ok := val["Fn::GetAtt"]; ok && len(val) == 1 {
			if parts, ok := att.([]any); ok && len(parts) > 0 {
				if name, ok := parts[0].(string); ok {
					seen[name] = true
				}
			}
			return
		}
		for _, child := range val {
			walkRefs(child, seen)
		}
	case []any:
		for _, child := range val {
			walkRefs(child, seen)
		}
	}
}
