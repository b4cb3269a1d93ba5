package rules

import "classlint/internal/jvmfmt"

// Violation is one rule failure attributed to a method. Kind is
// KindRuleCheckFailed for genuine violations and the resolution failure's
// kind otherwise.
type Violation struct {
	Method  string
	Message string
	Kind    jvmfmt.Kind
}

// Result is the outcome of one rule on one file. It succeeded when
// Violations is empty; otherwise Violations are in method-table order.
// output.ToJSON gives its serialized form.
type Result struct {
	File       string
	Rule       Rule
	Violations []Violation
}

// OK reports whether the rule passed.
func (r Result) OK() bool { return len(r.Violations) == 0 }
