// Package intrinsics provides CloudFormation intrinsic functions.
//
// This package re-exports the core intrinsic types from
// cloudformation-schema-go so stack declarations can reference resources
// and pseudo-parameters without writing raw maps.
//
// Core intrinsic functions:
//
//	Ref{"ShutdownFunction"} → {"Ref": "ShutdownFunction"}
//	Sub{"${AWS::StackName}-shutdown"} → {"Fn::Sub": "${AWS::StackName}-shutdown"}
//	Join{":", []any{"a", "b"}} → {"Fn::Join": [":", ["a", "b"]]}
package intrinsics

import (
	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

// Re-export core intrinsic types from the shared schema package.
type (
	// Ref represents a CloudFormation Ref intrinsic function.
	Ref = intrinsics.Ref

	// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
	GetAtt = intrinsics.GetAtt

	// Sub represents a CloudFormation Fn::Sub intrinsic function.
	Sub = intrinsics.Sub

	// Join represents a CloudFormation Fn::Join intrinsic function.
	Join = intrinsics.Join

	// Tag represents a CloudFormation resource tag.
	Tag = intrinsics.Tag
)

// Param creates a Ref for a CloudFormation parameter.
// Re-exported from the shared package.
var Param = intrinsics.Param
