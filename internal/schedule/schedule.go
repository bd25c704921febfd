// Package schedule builds and validates EventBridge schedule expressions.
//
// EventBridge cron expressions have six fields (minute hour day-of-month
// month day-of-week year). This package covers the subset the shutdown
// rule uses: fixed minute and hour, every day. Expressions are evaluated
// in UTC, matching the provider.
package schedule

import (
	"fmt"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

// Expression is a daily cron schedule with fixed minute and hour fields.
// The day, month and weekday fields are implicitly "every".
type Expression struct {
	Minute string
	Hour   string
}

// Daily returns the expression for a fixed time of day.
func Daily(minute, hour string) Expression {
	return Expression{Minute: minute, Hour: hour}
}

// String renders the EventBridge six-field cron form, e.g.
// "cron(0 18 * * ? *)".
func (e Expression) String() string {
	return fmt.Sprintf("cron(%s %s * * ? *)", e.Minute, e.Hour)
}

// Validate checks the minute and hour fields. The provider rejects
// malformed expressions at deployment time; validating here surfaces the
// same failure before any template leaves the machine.
func (e Expression) Validate() error {
	if err := validateField("minute", e.Minute, 59); err != nil {
		return err
	}
	return validateField("hour", e.Hour, 23)
}

func validateField(name, value string, max int) error {
	if value == "" {
		return fmt.Errorf("%s field must not be empty", name)
	}
	if value == "*" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s field %q is not a number or *", name, value)
	}
	if n < 0 || n > max {
		return fmt.Errorf("%s field %d out of range 0-%d", name, n, max)
	}
	return nil
}

// parser handles the translated five-field standard cron form.
var parser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// Next returns the next n fire times after the given instant, in UTC.
func (e Expression) Next(after time.Time, n int) ([]time.Time, error) {
	if n <= 0 {
		return nil, fmt.Errorf("fire time count must be positive, got %d", n)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	// Translate to standard cron: drop the year field, "?" becomes "*".
	sched, err := parser.Parse(fmt.Sprintf("%s %s * * *", e.Minute, e.Hour))
	if err != nil {
		return nil, fmt.Errorf("parsing cron expression: %w", err)
	}

	times := make([]time.Time, 0, n)
	t := after.UTC()
	for i := 0; i < n; i++ {
		t = sched.Next(t)
		times = append(times, t)
	}
	return times, nil
}
