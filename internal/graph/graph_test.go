package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nightshift "github.com/opsforge/nightshift"
)

func testTemplate() *nightshift.Template {
	return &nightshift.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Resources: map[string]nightshift.ResourceDef{
			"ShutdownFunction": {
				Type:       "AWS::Lambda::Function",
				Properties: map[string]any{"Runtime": "python3.13"},
			},
			"DailyRule": {
				Type: "AWS::Events::Rule",
				Properties: map[string]any{
					"Targets": []any{
						map[string]any{
							"Arn": map[string]any{"Fn::GetAtt": []any{"ShutdownFunction", "Arn"}},
							"Id":  "ShutdownFunction",
						},
					},
				},
			},
			"RulePermission": {
				Type: "AWS::Lambda::Permission",
				Properties: map[string]any{
					"FunctionName": map[string]any{"Fn::GetAtt": []any{"ShutdownFunction", "Arn"}},
					"SourceArn":    map[string]any{"Fn::GetAtt": []any{"DailyRule", "Arn"}},
				},
			},
		},
	}
}

func TestGenerator_DOT(t *testing.T) {
	gen := &Generator{Format: FormatDOT}

	out, err := gen.GenerateString(testTemplate())
	require.NoError(t, err)

	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "ShutdownFunction")
	assert.Contains(t, out, "DailyRule")
	assert.Contains(t, out, "AWS::Lambda::Function")
	// Rule targets the function.
	assert.Contains(t, out, "->")
}

func TestGenerator_Mermaid(t *testing.T) {
	gen := &Generator{Format: FormatMermaid}

	out, err := gen.GenerateString(testTemplate())
	require.NoError(t, err)

	assert.Contains(t, out, "graph")
	assert.Contains(t, out, "ShutdownFunction")
}

func TestGenerator_DefaultsToDOT(t *testing.T) {
	gen := &Generator{}

	out, err := gen.GenerateString(testTemplate())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "digraph"))
}

func TestCollectRefs(t *testing.T) {
	refs := collectRefs(map[string]any{
		"A": map[string]any{"Ref": "CodeBucket"},
		"B": map[string]any{"Fn::GetAtt": []any{"ShutdownFunction", "Arn"}},
		"C": []any{
			map[string]any{"Fn::GetAtt": []any{"DailyRule", "Arn"}},
		},
		"D": "plain string",
	})

	assert.Equal(t, []string{"CodeBucket", "DailyRule", "ShutdownFunction"}, refs)
}

func TestCollectRefs_IgnoresNonReferenceMaps(t *testing.T) {
	refs := collectRefs(map[string]any{
		"Env": map[string]any{"Variables": map[string]any{"REGION": "us-east-1"}},
	})
	assert.Empty(t, refs)
}
