package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nightshift "github.com/opsforge/nightshift"
	"github.com/opsforge/nightshift/resources/events"
	"github.com/opsforge/nightshift/resources/lambda"
)

func TestBuilder_Build_SimpleResource(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddResource("ShutdownFunction", lambda.Function{
		Runtime: "python3.13",
		Handler: "handler.lambda_handler",
		Timeout: 60,
		Code:    lambda.Function_Code{S3Bucket: "artifacts", S3Key: "shutdown.zip"},
	}))

	tmpl, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, FormatVersion, tmpl.AWSTemplateFormatVersion)
	assert.Len(t, tmpl.Resources, 1)

	fn := tmpl.Resources["ShutdownFunction"]
	assert.Equal(t, "AWS::Lambda::Function", fn.Type)
	assert.Equal(t, "python3.13", fn.Properties["Runtime"])
	assert.Equal(t, int64(60), fn.Properties["Timeout"])
}

func TestBuilder_Build_WithDependencies(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddResource("Fn", lambda.Function{Runtime: "python3.13"}))
	require.NoError(t, b.AddResource("Rule", events.Rule{
		ScheduleExpression: "cron(0 18 * * ? *)",
		Targets: []events.Rule_Target{
			{Arn: nightshift.AttrRef{Resource: "Fn", Attribute: "Arn"}, Id: "Fn"},
		},
	}, "Fn"))

	tmpl, err := b.Build()
	require.NoError(t, err)

	assert.Len(t, tmpl.Resources, 2)

	rule := tmpl.Resources["Rule"]
	targets := rule.Properties["Targets"].([]any)
	require.Len(t, targets, 1)
	target := targets[0].(map[string]any)
	assert.Contains(t, target["Arn"], "Fn::GetAtt")
}

func TestBuilder_DuplicateLogicalID(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddResource("Fn", lambda.Function{}))

	err := b.AddResource("Fn", lambda.Function{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestBuilder_UndefinedDependency(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddResource("Rule", events.Rule{}, "MissingFn"))

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined resource MissingFn")
}

func TestBuilder_DetectCycle(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddResource("A", lambda.Function{}, "B"))
	require.NoError(t, b.AddResource("B", lambda.Function{}, "A"))

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency")
}

func TestBuilder_ParametersAndOutputs(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddResource("Fn", lambda.Function{Runtime: "python3.13"}))
	b.AddParameter("CodeBucket", nightshift.Parameter{Type: "String"})
	b.AddOutput("FunctionArn", nightshift.Output{
		Value: nightshift.AttrRef{Resource: "Fn", Attribute: "Arn"},
	})

	tmpl, err := b.Build()
	require.NoError(t, err)

	require.Contains(t, tmpl.Parameters, "CodeBucket")
	assert.Equal(t, "String", tmpl.Parameters["CodeBucket"].Type)

	// Output values are serialized; an AttrRef becomes a plain Fn::GetAtt
	// map so JSON and YAML render it the same way.
	require.Contains(t, tmpl.Outputs, "FunctionArn")
	assert.Equal(t,
		map[string]any{"Fn::GetAtt": []any{"Fn", "Arn"}},
		tmpl.Outputs["FunctionArn"].Value)
}

func TestBuilder_DeterministicRendering(t *testing.T) {
	build := func() []byte {
		b := NewBuilder()
		require.NoError(t, b.AddResource("Fn", lambda.Function{Runtime: "python3.13", Timeout: 60}))
		require.NoError(t, b.AddResource("Rule", events.Rule{
			ScheduleExpression: "cron(0 18 * * ? *)",
			Targets: []events.Rule_Target{
				{Arn: nightshift.AttrRef{Resource: "Fn", Attribute: "Arn"}, Id: "Fn"},
			},
		}, "Fn"))

		tmpl, err := b.Build()
		require.NoError(t, err)

		data, err := ToJSON(tmpl)
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, string(build()), string(build()))
}

func TestToYAML_ParametersAndOutputs(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddResource("Fn", lambda.Function{Runtime: "python3.13"}))
	b.AddParameter("ExecutionRoleArn", nightshift.Parameter{
		Type:        "String",
		Description: "ARN of the function's execution role",
	})
	b.AddOutput("FunctionArn", nightshift.Output{
		Description: "ARN of the shutdown function",
		Value:       nightshift.AttrRef{Resource: "Fn", Attribute: "Arn"},
	})

	tmpl, err := b.Build()
	require.NoError(t, err)

	data, err := ToYAML(tmpl)
	require.NoError(t, err)

	// CloudFormation section keys are case sensitive; lowercase renderings
	// of Parameters/Outputs fields are not deployable.
	out := string(data)
	assert.Contains(t, out, "Parameters:")
	assert.Contains(t, out, "Type: String")
	assert.Contains(t, out, "Outputs:")
	assert.Contains(t, out, "Value:")
	assert.Contains(t, out, "Fn::GetAtt")
	assert.NotContains(t, out, "value:")
	assert.NotContains(t, out, "description:")
	assert.NotContains(t, out, "allowedvalues")
	assert.NotContains(t, out, "export:")
}

func TestToYAML(t *testing.T) {
	b := NewBuilder()
	b.SetDescription("shutdown stack")
	require.NoError(t, b.AddResource("Fn", lambda.Function{Runtime: "python3.13"}))

	tmpl, err := b.Build()
	require.NoError(t, err)

	data, err := ToYAML(tmpl)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "AWSTemplateFormatVersion:")
	assert.Contains(t, out, "Description: shutdown stack")
	assert.Contains(t, out, "AWS::Lambda::Function")
}
