// Package rules defines the closed rule catalog, rule construction from a
// configuration mapping, and one evaluator per rule.
package rules

import "fmt"

// Kind identifies a rule.
type Kind int

const (
	NoBinaryInNames Kind = iota
	TooManyArguments
	CheckNoVoid
)

// All returns every Kind in catalog order. Reports are emitted in this
// order whatever the order of keys in the configuration.
func All() []Kind {
	return []Kind{NoBinaryInNames, TooManyArguments, CheckNoVoid}
}

// Key returns the canonical configuration key.
func (k Kind) Key() string {
	switch k {
	case NoBinaryInNames:
		return "no_binary_in_names"
	case TooManyArguments:
		return "too_many_arguments"
	case CheckNoVoid:
		return "check_no_void"
	default:
		return fmt.Sprintf("rule_%d", int(k))
	}
}

// String returns the display name used in reports.
func (k Kind) String() string {
	switch k {
	case NoBinaryInNames:
		return "No Binary Operator In Method Names"
	case TooManyArguments:
		return "Too Many Arguments"
	case CheckNoVoid:
		return "No Void Method Allowed"
	default:
		return fmt.Sprintf("Unknown Rule(%d)", int(k))
	}
}

// Description returns a one-line explanation of the rule.
func (k Kind) Description() string {
	switch k {
	case NoBinaryInNames:
		return "Method names must not join two actions with and/or (readAndWrite, is_or_has)."
	case TooManyArguments:
		return "Methods must not declare more parameters than the configured maximum."
	case CheckNoVoid:
		return "Methods other than constructors, static initializers and main must return a value."
	default:
		return ""
	}
}

// KindForKey returns the Kind whose canonical key is key.
func KindForKey(key string) (Kind, bool) {
	for _, k := range All() {
		if k.Key() == key {
			return k, true
		}
	}
	return 0, false
}
