package nightshift

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttrRef_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		ref      AttrRef
		expected string
	}{
		{
			name:     "function arn",
			ref:      AttrRef{Resource: "Ec2AutoShutdownFunction", Attribute: "Arn"},
			expected: `{"Fn::GetAtt":["Ec2AutoShutdownFunction","Arn"]}`,
		},
		{
			name:     "rule arn",
			ref:      AttrRef{Resource: "DailyShutdownRule", Attribute: "Arn"},
			expected: `{"Fn::GetAtt":["DailyShutdownRule","Arn"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ref)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestAttrRef_IsZero(t *testing.T) {
	tests := []struct {
		name     string
		ref      AttrRef
		expected bool
	}{
		{name: "empty", ref: AttrRef{}, expected: true},
		{name: "with resource", ref: AttrRef{Resource: "Fn"}, expected: false},
		{name: "with attribute", ref: AttrRef{Attribute: "Arn"}, expected: false},
		{name: "fully populated", ref: AttrRef{Resource: "Fn", Attribute: "Arn"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.ref.IsZero())
		})
	}
}

func TestTemplate_MarshalJSON(t *testing.T) {
	tmpl := Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Resources: map[string]ResourceDef{
			"ShutdownFunction": {
				Type: "AWS::Lambda::Function",
				Properties: map[string]any{
					"Timeout": 60,
				},
			},
		},
	}

	data, err := json.Marshal(tmpl)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "2010-09-09", parsed["AWSTemplateFormatVersion"])
	assert.NotContains(t, parsed, "Parameters")
	assert.NotContains(t, parsed, "Outputs")
	assert.NotContains(t, parsed, "Description")

	resources := parsed["Resources"].(map[string]any)
	require.Len(t, resources, 1)
	fn := resources["ShutdownFunction"].(map[string]any)
	assert.Equal(t, "AWS::Lambda::Function", fn["Type"])
}
