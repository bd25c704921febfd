package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsforge/nightshift/internal/serialize"
)

func TestRule_ResourceType(t *testing.T) {
	assert.Equal(t, "AWS::Events::Rule", Rule{}.ResourceType())
}

func TestRule_Serialization(t *testing.T) {
	rule := Rule{
		ScheduleExpression: "cron(0 18 * * ? *)",
		State:              StateEnabled,
		Targets: []Rule_Target{
			{Arn: "arn:aws:lambda:us-east-1:123456789012:function:shutdown", Id: "ShutdownTarget"},
		},
	}

	props, err := serialize.Resource(rule)
	require.NoError(t, err)

	assert.Equal(t, "cron(0 18 * * ? *)", props["ScheduleExpression"])
	assert.Equal(t, "ENABLED", props["State"])

	targets := props["Targets"].([]any)
	require.Len(t, targets, 1)
	target := targets[0].(map[string]any)
	assert.Equal(t, "ShutdownTarget", target["Id"])

	// Unset fields stay out of the template.
	assert.NotContains(t, props, "Name")
	assert.NotContains(t, props, "Description")
}
