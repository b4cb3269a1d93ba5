package rules

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoRulesSelected reports a configuration that activates no rule.
var ErrNoRulesSelected = errors.New("rules: no rules selected")

// Rule is an active rule and its parameter. The parameter is the maximum
// parameter count for TooManyArguments and is ignored by the other kinds.
type Rule struct {
	kind  Kind
	param uint8
}

// New returns a Rule.
func New(kind Kind, param uint8) Rule {
	return Rule{kind: kind, param: param}
}

func (r Rule) Kind() Kind { return r.kind }

func (r Rule) Param() uint8 { return r.param }

// Name returns the display name of the rule's kind.
func (r Rule) Name() string { return r.kind.String() }

func (r Rule) String() string { return fmt.Sprintf("%s=%d", r.kind.Key(), r.param) }

// Select builds the active rules from a decoded configuration mapping, in
// catalog order. For each canonical key:
//
//	true           active, parameter 0
//	integer > 0    active, parameter = value (capped at 255)
//	anything else  inactive (false, integer <= 0, string, array, table, absent)
//
// Unknown keys are ignored. When nothing is active the result is empty and
// the error is ErrNoRulesSelected.
func Select(cfg map[string]any) ([]Rule, error) {
	var out []Rule
	for _, k := range All() {
		v, ok := cfg[k.Key()]
		if !ok {
			continue
		}
		if param, active := activation(v); active {
			out = append(out, New(k, param))
		}
	}
	if len(out) == 0 {
		return nil, ErrNoRulesSelected
	}
	return out, nil
}

func activation(v any) (uint8, bool) {
	switch x := v.(type) {
	case bool:
		return 0, x
	case int:
		return fromInt(int64(x))
	case int8:
		return fromInt(int64(x))
	case int16:
		return fromInt(int64(x))
	case int32:
		return fromInt(int64(x))
	case int64:
		return fromInt(x)
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return fromUint(uint64(x))
	case uint16:
		return fromUint(uint64(x))
	case uint32:
		return fromUint(uint64(x))
	case uint64:
		return fromUint(x)
	default:
		return 0, false
	}
}

func fromInt(n int64) (uint8, bool) {
	if n <= 0 {
		return 0, false
	}
	return fromUint(uint64(n))
}

func fromUint(n uint64) (uint8, bool) {
	if n == 0 {
		return 0, false
	}
	if n > math.MaxUint8 {
		return math.MaxUint8, true
	}
	return uint8(n), true
}
