// Package stack declares the EC2 auto-shutdown stack: one Lambda function,
// one EventBridge rule firing daily, and the permission binding them.
//
// The declaration is a flat set of configuration objects handed to a
// template builder; synthesizing the same Config twice yields identical
// templates.
package stack

import (
	"fmt"

	nightshift "github.com/opsforge/nightshift"
	"github.com/opsforge/nightshift/intrinsics"
	"github.com/opsforge/nightshift/internal/template"
	"github.com/opsforge/nightshift/resources/events"
	"github.com/opsforge/nightshift/resources/lambda"
)

// Template parameter names. The execution role is always a parameter;
// designing its policy is out of scope here, so the ARN comes from
// whoever deploys the template. The code location parameters appear only
// when no bucket is pinned in config.
const (
	RoleParam       = "ExecutionRoleArn"
	CodeBucketParam = "CodeBucket"
	CodeKeyParam    = "CodeKey"
)

// permissionSuffix derives the permission's logical ID from the rule's.
const permissionSuffix = "Permission"

// Resources is the declared resource set for one stack configuration.
// Logical IDs accompany each declaration; the rule's single target and the
// invoke permission both reference the function by those IDs.
type Resources struct {
	FunctionID string
	Function   lambda.Function

	RuleID string
	Rule   events.Rule

	PermissionID string
	Permission   lambda.Permission

	// Parameters always carries the execution role; it also carries the
	// code location when no pinned S3 location is configured.
	Parameters map[string]nightshift.Parameter
}

// Declare produces the stack's resource declarations for a configuration.
func Declare(cfg Config) (Resources, error) {
	if err := cfg.Validate(); err != nil {
		return Resources{}, err
	}

	res := Resources{
		FunctionID:   cfg.Function.Name,
		RuleID:       cfg.Rule.Name,
		PermissionID: cfg.Rule.Name + permissionSuffix,
	}

	res.Parameters = map[string]nightshift.Parameter{
		RoleParam: {
			Type:        "String",
			Description: "ARN of the function's execution role",
		},
	}

	code := lambda.Function_Code{}
	if cfg.Function.Code.Bucket != "" {
		code.S3Bucket = cfg.Function.Code.Bucket
		code.S3Key = cfg.Function.Code.Key
	} else {
		code.S3Bucket = intrinsics.Param(CodeBucketParam)
		code.S3Key = intrinsics.Param(CodeKeyParam)
		res.Parameters[CodeBucketParam] = nightshift.Parameter{
			Type:        "String",
			Description: "S3 bucket holding the shutdown function artifact",
		}
		res.Parameters[CodeKeyParam] = nightshift.Parameter{
			Type:        "String",
			Description: "S3 key of the shutdown function artifact",
			Default:     cfg.Function.Code.Key,
		}
	}

	res.Function = lambda.Function{
		Description: cfg.Function.Description,
		Runtime:     cfg.Function.Runtime,
		Handler:     cfg.Function.Handler,
		Code:        code,
		Role:        intrinsics.Param(RoleParam),
		Timeout:     cfg.Function.Timeout,
	}

	state := events.StateEnabled
	if cfg.Rule.Disabled {
		state = events.StateDisabled
	}

	res.Rule = events.Rule{
		Description:        cfg.Rule.Description,
		ScheduleExpression: cfg.Schedule().String(),
		State:              state,
		Targets: []events.Rule_Target{
			{
				Arn: nightshift.AttrRef{Resource: res.FunctionID, Attribute: "Arn"},
				Id:  res.FunctionID,
			},
		},
	}

	res.Permission = lambda.Permission{
		FunctionName: nightshift.AttrRef{Resource: res.FunctionID, Attribute: "Arn"},
		Action:       "lambda:InvokeFunction",
		Principal:    "events.amazonaws.com",
		SourceArn:    nightshift.AttrRef{Resource: res.RuleID, Attribute: "Arn"},
	}

	return res, nil
}

// Synth declares the stack and builds its CloudFormation template.
func Synth(cfg Config) (*nightshift.Template, error) {
	res, err := Declare(cfg)
	if err != nil {
		return nil, err
	}

	b := template.NewBuilder()
	b.SetDescription(cfg.Description)

	if err := b.AddResource(res.FunctionID, res.Function); err != nil {
		return nil, err
	}
	if err := b.AddResource(res.RuleID, res.Rule, res.FunctionID); err != nil {
		return nil, err
	}
	if err := b.AddResource(res.PermissionID, res.Permission, res.FunctionID, res.RuleID); err != nil {
		return nil, err
	}

	for name, param := range res.Parameters {
		b.AddParameter(name, param)
	}

	b.AddOutput("FunctionArn", nightshift.Output{
		Description: "ARN of the shutdown function",
		Value:       nightshift.AttrRef{Resource: res.FunctionID, Attribute: "Arn"},
	})
	b.AddOutput("RuleArn", nightshift.Output{
		Description: "ARN of the daily shutdown rule",
		Value:       nightshift.AttrRef{Resource: res.RuleID, Attribute: "Arn"},
	})

	tmpl, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("building template: %w", err)
	}
	return tmpl, nil
}
