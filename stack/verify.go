package stack

import (
	"fmt"

	nightshift "github.com/opsforge/nightshift"
)

// CloudFormation types the stack is allowed to contain.
const (
	functionType   = "AWS::Lambda::Function"
	ruleType       = "AWS::Events::Rule"
	permissionType = "AWS::Lambda::Permission"
)

// Verify checks a synthesized template against its configuration:
// exactly one function and one rule, the declared timeout and schedule,
// and a single target binding with intact references. The returned result
// carries every violation found, not just the first.
func Verify(cfg Config, tmpl *nightshift.Template) *nightshift.ValidateResult {
	result := &nightshift.ValidateResult{
		Resources: len(tmpl.Resources),
	}
	fail := func(format string, args ...any) {
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
	}

	var functions, rules, permissions []string
	for name, def := range tmpl.Resources {
		switch def.Type {
		case functionType:
			functions = append(functions, name)
		case ruleType:
			rules = append(rules, name)
		case permissionType:
			permissions = append(permissions, name)
		default:
			fail("unexpected resource %s of type %s", name, def.Type)
		}
	}

	if len(functions) != 1 {
		fail("expected exactly one %s, found %d", functionType, len(functions))
	}
	if len(rules) != 1 {
		fail("expected exactly one %s, found %d", ruleType, len(rules))
	}
	if len(functions) != 1 || len(rules) != 1 {
		result.Success = false
		return result
	}

	fnID, ruleID := functions[0], rules[0]
	fn := tmpl.Resources[fnID]
	rule := tmpl.Resources[ruleID]

	if timeout, ok := asInt(fn.Properties["Timeout"]); !ok {
		fail("function %s has no timeout", fnID)
	} else if timeout != cfg.Function.Timeout {
		fail("function %s timeout is %d, want %d", fnID, timeout, cfg.Function.Timeout)
	}

	if runtime, _ := fn.Properties["Runtime"].(string); runtime != cfg.Function.Runtime {
		fail("function %s runtime is %q, want %q", fnID, fn.Properties["Runtime"], cfg.Function.Runtime)
	}
	if handler, _ := fn.Properties["Handler"].(string); handler != cfg.Function.Handler {
		fail("function %s handler is %q, want %q", fnID, fn.Properties["Handler"], cfg.Function.Handler)
	}

	wantExpr := cfg.Schedule().String()
	if expr, _ := rule.Properties["ScheduleExpression"].(string); expr != wantExpr {
		fail("rule %s schedule is %q, want %q", ruleID, rule.Properties["ScheduleExpression"], wantExpr)
	}

	targets, _ := rule.Properties["Targets"].([]any)
	if len(targets) != 1 {
		fail("rule %s has %d targets, want exactly 1", ruleID, len(targets))
	} else if ref, ok := getAttResource(index(targets[0], "Arn")); !ok {
		fail("rule %s target Arn is not a Fn::GetAtt reference", ruleID)
	} else if ref != fnID {
		fail("rule %s targets %s, want %s", ruleID, ref, fnID)
	}

	switch len(permissions) {
	case 0:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("rule %s has no invoke permission for %s", ruleID, fnID))
	case 1:
		perm := tmpl.Resources[permissions[0]]
		if ref, ok := getAttResource(perm.Properties["FunctionName"]); !ok || ref != fnID {
			fail("permission %s does not reference function %s", permissions[0], fnID)
		}
		if ref, ok := getAttResource(perm.Properties["SourceArn"]); !ok || ref != ruleID {
			fail("permission %s does not reference rule %s", permissions[0], ruleID)
		}
	default:
		fail("expected at most one %s, found %d", permissionType, len(permissions))
	}

	result.Success = len(result.Errors) == 0
	return result
}

// asInt normalizes numeric property values. Freshly synthesized templates
// carry int64; templates reloaded from JSON carry float64.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// index looks up a key in a serialized property map.
func index(v any, key string) any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

// getAttResource extracts the referenced logical ID from a serialized
// Fn::GetAtt value.
func getAttResource(v any) (string, bool) {
	att := index(v, "Fn::GetAtt")
	parts, ok := att.([]any)
	if !ok || len(parts) != 2 {
		return "", false
	}
	name, ok := parts[0].(string)
	return name, ok
}
