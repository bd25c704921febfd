// Package events provides AWS::Events CloudFormation resource types.
package events

// Rule represents an AWS::Events::Rule resource.
//
// Example:
//
//	var DailyShutdownRule = events.Rule{
//	    ScheduleExpression: "cron(0 18 * * ? *)",
//	    Targets: []Rule_Target{
//	        {Arn: shutdownFunctionArn, Id: "ShutdownFunctionTarget"},
//	    },
//	}
type Rule struct {
	Name               any           `json:"Name,omitempty"`
	Description        string        `json:"Description,omitempty"`
	ScheduleExpression string        `json:"ScheduleExpression,omitempty"`
	State              string        `json:"State,omitempty"`
	Targets            []Rule_Target `json:"Targets,omitempty"`
}

// ResourceType returns the CloudFormation type for Rule.
func (Rule) ResourceType() string { return "AWS::Events::Rule" }

// Rule states accepted by AWS::Events::Rule.
const (
	StateEnabled  = "ENABLED"
	StateDisabled = "DISABLED"
)

// Rule_Target is a single entry in a rule's Targets list.
type Rule_Target struct {
	Arn   any    `json:"Arn,omitempty"`
	Id    string `json:"Id,omitempty"`
	Input string `json:"Input,omitempty"`
}
