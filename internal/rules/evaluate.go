package rules

import (
	"errors"
	"fmt"
	"regexp"

	"classlint/internal/classfile"
	"classlint/internal/descriptor"
	"classlint/internal/jvmfmt"
)

// Evaluator checks one decoded class against a rule parameter. It returns
// violations in method-table order and must not modify cf.
type Evaluator func(cf *classfile.ClassFile, param uint8) []Violation

var evaluators = map[string]Evaluator{
	NoBinaryInNames.Key():  noBinaryInNames,
	TooManyArguments.Key(): tooManyArguments,
	CheckNoVoid.Key():      checkNoVoid,
}

// Lookup returns the evaluator for k.
func Lookup(k Kind) (Evaluator, bool) {
	ev, ok := evaluators[k.Key()]
	return ev, ok
}

// Evaluate runs r against cf and attributes the result to file.
func Evaluate(file string, cf *classfile.ClassFile, r Rule) Result {
	res := Result{File: file, Rule: r}
	ev, ok := Lookup(r.Kind())
	if !ok {
		res.Violations = []Violation{{
			Method:  classfile.NoMethod,
			Message: fmt.Sprintf("no evaluator for rule %s", r.Kind().Key()),
			Kind:    jvmfmt.KindOther,
		}}
		return res
	}
	res.Violations = ev(cf, r.Param())
	return res
}

// resolutionFailure turns a name or descriptor lookup failure into a
// violation carrying the failure's own kind.
func resolutionFailure(err error) Violation {
	method := classfile.NoMethod
	var me *classfile.MethodError
	if errors.As(err, &me) {
		method = me.Method
	}
	return Violation{Method: method, Message: jvmfmt.Message(err), Kind: jvmfmt.KindOf(err)}
}

func failed(method, format string, args ...any) Violation {
	return Violation{Method: method, Message: fmt.Sprintf(format, args...), Kind: jvmfmt.KindRuleCheckFailed}
}

// checkNoVoid flags every method returning void other than constructors,
// static initializers and main.
func checkNoVoid(cf *classfile.ClassFile, _ uint8) []Violation {
	var out []Violation
	for _, m := range cf.Methods {
		name, err := cf.MethodName(m)
		if err != nil {
			out = append(out, resolutionFailure(err))
			continue
		}
		if name == classfile.InitName || name == classfile.ClinitName || name == classfile.MainName {
			continue
		}
		desc, err := cf.Pool.UTF8(m.DescriptorIndex)
		if err != nil {
			out = append(out, resolutionFailure(&classfile.MethodError{Method: name, Err: err}))
			continue
		}
		if descriptor.ReturnsVoid(desc) {
			out = append(out, failed(name, "method %s%s returns void", name, desc))
		}
	}
	return out
}

// binaryName matches names joining two actions:
//
//	and_then, _orElse, get_AND_set   leading or '_'-prefixed and/or/AND/OR
//	readAndWrite, isOrHas            camel-case And/Or after a lowercase letter
var binaryName = regexp.MustCompile(`^(_?|.*_)(and|or|AND|OR)([A-Z]|_).+|[a-z](And|Or)[A-Z]`)

// IsBinaryName reports whether a method name joins two actions with and/or.
func IsBinaryName(name string) bool { return binaryName.MatchString(name) }

func noBinaryInNames(cf *classfile.ClassFile, _ uint8) []Violation {
	var out []Violation
	for _, m := range cf.Methods {
		name, err := cf.MethodName(m)
		if err != nil {
			out = append(out, resolutionFailure(err))
			continue
		}
		if IsBinaryName(name) {
			out = append(out, failed(name, "method name %q contains a binary operator", name))
		}
	}
	return out
}

func tooManyArguments(cf *classfile.ClassFile, limit uint8) []Violation {
	var out []Violation
	for _, m := range cf.Methods {
		name, desc, err := cf.ResolveMethod(m)
		if err != nil {
			out = append(out, resolutionFailure(err))
			continue
		}
		n, err := descriptor.ParamCount(desc)
		if err != nil {
			out = append(out, Violation{Method: name, Message: err.Error(), Kind: jvmfmt.KindInvalidDescriptor})
			continue
		}
		if n > int(limit) {
			out = append(out, failed(name, "method takes %d parameters, maximum is %d", n, limit))
		}
	}
	return out
}
