// Package lambda provides AWS::Lambda CloudFormation resource types.
package lambda

// Function represents an AWS::Lambda::Function resource.
//
// Example:
//
//	var ShutdownFunction = lambda.Function{
//	    Runtime: "python3.13",
//	    Handler: "handler.lambda_handler",
//	    Code:    lambda.Function_Code{S3Bucket: "artifacts", S3Key: "shutdown.zip"},
//	    Timeout: 60,
//	}
type Function struct {
	FunctionName any                   `json:"FunctionName,omitempty"`
	Description  string                `json:"Description,omitempty"`
	Runtime      string                `json:"Runtime,omitempty"`
	Handler      string                `json:"Handler,omitempty"`
	Code         Function_Code         `json:"Code,omitempty"`
	Role         any                   `json:"Role,omitempty"`
	Timeout      int                   `json:"Timeout,omitempty"`
	MemorySize   int                   `json:"MemorySize,omitempty"`
	Environment  *Function_Environment `json:"Environment,omitempty"`
	Tags         []any                 `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type for Function.
func (Function) ResourceType() string { return "AWS::Lambda::Function" }

// Function_Code is the Code property of AWS::Lambda::Function.
// Exactly one of ZipFile or the S3 location fields should be set.
type Function_Code struct {
	ZipFile         string `json:"ZipFile,omitempty"`
	S3Bucket        any    `json:"S3Bucket,omitempty"`
	S3Key           any    `json:"S3Key,omitempty"`
	S3ObjectVersion string `json:"S3ObjectVersion,omitempty"`
}

// IsZero returns true if no code location has been populated.
func (c Function_Code) IsZero() bool {
	return c.ZipFile == "" && c.S3Bucket == nil && c.S3Key == nil && c.S3ObjectVersion == ""
}

// Function_Environment is the Environment property of AWS::Lambda::Function.
type Function_Environment struct {
	Variables map[string]any `json:"Variables,omitempty"`
}

// Permission represents an AWS::Lambda::Permission resource.
// It grants another AWS principal (e.g. events.amazonaws.com) the right to
// invoke the function.
type Permission struct {
	FunctionName any    `json:"FunctionName,omitempty"`
	Action       string `json:"Action,omitempty"`
	Principal    string `json:"Principal,omitempty"`
	SourceArn    any    `json:"SourceArn,omitempty"`
}

// ResourceType returns the CloudFormation type for Permission.
func (Permission) ResourceType() string { return "AWS::Lambda::Permission" }
