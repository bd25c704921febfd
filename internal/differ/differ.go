// Package differ provides semantic comparison of CloudFormation templates.
//
// It is used to review drift between a freshly synthesized template and a
// previously written one before redeploying.
package differ

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	nightshift "github.com/opsforge/nightshift"
)

// Result contains the difference between two templates.
type Result struct {
	Diff    nightshift.TemplateDiff
	Summary nightshift.DiffSummary
}

// Compare compares two CloudFormation templates resource by resource.
// Both templates are normalized through a JSON round trip first, so a
// freshly synthesized template compares cleanly against one loaded from
// disk.
func Compare(template1, template2 *nightshift.Template) (*Result, error) {
	res1, err := normalizeResources(template1.Resources)
	if err != nil {
		return nil, err
	}
	res2, err := normalizeResources(template2.Resources)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	// Added: in template2 but not in template1.
	for name, def := range res2 {
		if _, exists := res1[name]; !exists {
			result.Diff.Added = append(result.Diff.Added, nightshift.DiffEntry{
				Resource: name,
				Type:     def.Type,
			})
		}
	}

	// Removed: in template1 but not in template2.
	for name, def := range res1 {
		if _, exists := res2[name]; !exists {
			result.Diff.Removed = append(result.Diff.Removed, nightshift.DiffEntry{
				Resource: name,
				Type:     def.Type,
			})
		}
	}

	// Modified: present in both with differing definitions.
	for name, def1 := range res1 {
		def2, exists := res2[name]
		if !exists {
			continue
		}
		changes := compareResources(def1, def2)
		if len(changes) > 0 {
			result.Diff.Modified = append(result.Diff.Modified, nightshift.DiffEntry{
				Resource: name,
				Type:     def1.Type,
				Changes:  changes,
			})
		}
	}

	sortEntries(result.Diff.Added)
	sortEntries(result.Diff.Removed)
	sortEntries(result.Diff.Modified)

	result.Summary = nightshift.DiffSummary{
		Added:    len(result.Diff.Added),
		Removed:  len(result.Diff.Removed),
		Modified: len(result.Diff.Modified),
	}
	result.Summary.Total = result.Summary.Added + result.Summary.Removed + result.Summary.Modified

	return result, nil
}

// CompareFiles compares two template files.
func CompareFiles(file1, file2 string) (*Result, error) {
	t1, err := LoadTemplate(file1)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file1, err)
	}

	t2, err := LoadTemplate(file2)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file2, err)
	}

	return Compare(t1, t2)
}

// LoadTemplate loads a CloudFormation template from a JSON or YAML file.
func LoadTemplate(path string) (*nightshift.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var template nightshift.Template

	if err := json.Unmarshal(data, &template); err != nil {
		if err := yaml.Unmarshal(data, &template); err != nil {
			return nil, fmt.Errorf("failed to parse as JSON or YAML: %w", err)
		}
	}

	return &template, nil
}

// normalizeResources round-trips resource definitions through JSON so
// value types (int64 vs float64, typed vs untyped maps) compare equal.
func normalizeResources(resources map[string]nightshift.ResourceDef) (map[string]nightshift.ResourceDef, error) {
	data, err := json.Marshal(resources)
	if err != nil {
		return nil, err
	}

	var normalized map[string]nightshift.ResourceDef
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// compareResources compares two resource definitions and returns changes.
func compareResources(def1, def2 nightshift.ResourceDef) []nightshift.Change {
	var changes []nightshift.Change

	if def1.Type != def2.Type {
		changes = append(changes, nightshift.Change{
			Path: "Type",
			Old:  def1.Type,
			New:  def2.Type,
		})
	}

	changes = append(changes, compareProperties("", def1.Properties, def2.Properties)...)
	return changes
}

// compareProperties recursively compares property maps.
func compareProperties(prefix string, props1, props2 map[string]any) []nightshift.Change {
	var changes []nightshift.Change

	join := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}

	for key, val2 := range props2 {
		val1, exists := props1[key]
		if !exists {
			changes = append(changes, nightshift.Change{Path: join(key), New: val2})
			continue
		}
		if reflect.DeepEqual(val1, val2) {
			continue
		}
		// Descend into nested maps for a precise path; anything else is a
		// leaf change.
		m1, ok1 := val1.(map[string]any)
		m2, ok2 := val2.(map[string]any)
		if ok1 && ok2 {
			changes = append(changes, compareProperties(join(key), m1, m2)...)
		} else {
			changes = append(changes, nightshift.Change{Path: join(key), Old: val1, New: val2})
		}
	}

	for key, val1 := range props1 {
		if _, exists := props2[key]; !exists {
			changes = append(changes, nightshift.Change{Path: join(key), Old: val1})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})
	return changes
}

// sortEntries sorts diff entries by resource name.
func sortEntries(entries []nightshift.DiffEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Resource < entries[j].Resource
	})
}
