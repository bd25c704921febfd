package differ

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nightshift "github.com/opsforge/nightshift"
)

func fnDef(timeout int) nightshift.ResourceDef {
	return nightshift.ResourceDef{
		Type: "AWS::Lambda::Function",
		Properties: map[string]any{
			"Runtime": "python3.13",
			"Timeout": timeout,
		},
	}
}

func tmpl(resources map[string]nightshift.ResourceDef) *nightshift.Template {
	return &nightshift.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Resources:                resources,
	}
}

func TestCompare_Identical(t *testing.T) {
	a := tmpl(map[string]nightshift.ResourceDef{"Fn": fnDef(60)})
	b := tmpl(map[string]nightshift.ResourceDef{"Fn": fnDef(60)})

	result, err := Compare(a, b)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Summary.Total)
	assert.Empty(t, result.Diff.Added)
	assert.Empty(t, result.Diff.Removed)
	assert.Empty(t, result.Diff.Modified)
}

func TestCompare_AddedAndRemoved(t *testing.T) {
	a := tmpl(map[string]nightshift.ResourceDef{
		"Fn": fnDef(60),
		"OldRule": {
			Type: "AWS::Events::Rule",
		},
	})
	b := tmpl(map[string]nightshift.ResourceDef{
		"Fn": fnDef(60),
		"NewRule": {
			Type: "AWS::Events::Rule",
		},
	})

	result, err := Compare(a, b)
	require.NoError(t, err)

	require.Len(t, result.Diff.Added, 1)
	assert.Equal(t, "NewRule", result.Diff.Added[0].Resource)
	require.Len(t, result.Diff.Removed, 1)
	assert.Equal(t, "OldRule", result.Diff.Removed[0].Resource)
	assert.Equal(t, 2, result.Summary.Total)
}

func TestCompare_Modified(t *testing.T) {
	a := tmpl(map[string]nightshift.ResourceDef{"Fn": fnDef(60)})
	b := tmpl(map[string]nightshift.ResourceDef{"Fn": fnDef(120)})

	result, err := Compare(a, b)
	require.NoError(t, err)

	require.Len(t, result.Diff.Modified, 1)
	entry := result.Diff.Modified[0]
	assert.Equal(t, "Fn", entry.Resource)
	require.Len(t, entry.Changes, 1)
	assert.Equal(t, "Timeout", entry.Changes[0].Path)
}

func TestCompare_NormalizesNumericTypes(t *testing.T) {
	// A synthesized template carries int values; one loaded from JSON
	// carries float64. They must compare equal.
	a := tmpl(map[string]nightshift.ResourceDef{
		"Fn": {
			Type:       "AWS::Lambda::Function",
			Properties: map[string]any{"Timeout": int64(60)},
		},
	})
	b := tmpl(map[string]nightshift.ResourceDef{
		"Fn": {
			Type:       "AWS::Lambda::Function",
			Properties: map[string]any{"Timeout": float64(60)},
		},
	})

	result, err := Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Summary.Total)
}

func TestCompare_NestedPropertyPath(t *testing.T) {
	a := tmpl(map[string]nightshift.ResourceDef{
		"Fn": {
			Type: "AWS::Lambda::Function",
			Properties: map[string]any{
				"Code": map[string]any{"S3Key": "v1.zip"},
			},
		},
	})
	b := tmpl(map[string]nightshift.ResourceDef{
		"Fn": {
			Type: "AWS::Lambda::Function",
			Properties: map[string]any{
				"Code": map[string]any{"S3Key": "v2.zip"},
			},
		},
	})

	result, err := Compare(a, b)
	require.NoError(t, err)

	require.Len(t, result.Diff.Modified, 1)
	require.Len(t, result.Diff.Modified[0].Changes, 1)
	assert.Equal(t, "Code.S3Key", result.Diff.Modified[0].Changes[0].Path)
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "template.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"AWSTemplateFormatVersion": "2010-09-09",
		"Resources": {"Fn": {"Type": "AWS::Lambda::Function"}}
	}`), 0644))

	yamlPath := filepath.Join(dir, "template.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`AWSTemplateFormatVersion: "2010-09-09"
Resources:
  Fn:
    Type: AWS::Lambda::Function
`), 0644))

	for _, path := range []string{jsonPath, yamlPath} {
		loaded, err := LoadTemplate(path)
		require.NoError(t, err, path)
		assert.Equal(t, "2010-09-09", loaded.AWSTemplateFormatVersion)
		assert.Contains(t, loaded.Resources, "Fn")
	}
}

func TestLoadTemplate_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.txt")
	require.NoError(t, os.WriteFile(path, []byte("{not valid"), 0644))

	_, err := LoadTemplate(path)
	require.Error(t, err)
}
