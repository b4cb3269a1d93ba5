// Package output writes lint results as report lines or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"classlint/internal/jvmfmt"
	"classlint/internal/lint"
	"classlint/internal/rules"
)

var (
	colorOK   = lipgloss.Color("42")
	colorFail = lipgloss.Color("196")
)

// Reporter writes one line per passing (file, rule) pair and one line per
// violation:
//
//	[OK] (file: <path>), Rule: <display name>
//	[FAIL] (file: <path>), Rule: <display name>, (method: <name>) - error: <kind>, trace: <message>
//
// Only the bracketed tag is colored; with color off the lines are exactly
// as above.
type Reporter struct {
	w    io.Writer
	ok   lipgloss.Style
	fail lipgloss.Style
}

// NewReporter returns a Reporter writing to w.
func NewReporter(w io.Writer, color bool) *Reporter {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Reporter{
		w:    w,
		ok:   r.NewStyle().Foreground(colorOK),
		fail: r.NewStyle().Foreground(colorFail).Bold(true),
	}
}

// Result writes the lines for one result.
func (p *Reporter) Result(res rules.Result) error {
	if res.OK() {
		_, err := fmt.Fprintf(p.w, "%s (file: %s), Rule: %s\n", p.ok.Render("[OK]"), res.File, res.Rule.Name())
		return err
	}
	for _, v := range res.Violations {
		_, err := fmt.Fprintf(p.w, "%s (file: %s), Rule: %s, (method: %s) - error: %s, trace: %s\n",
			p.fail.Render("[FAIL]"), res.File, res.Rule.Name(), v.Method, v.Kind, v.Message)
		if err != nil {
			return err
		}
	}
	return nil
}

// Report writes every result in order.
func (p *Reporter) Report(rep *lint.Report) error {
	for _, res := range rep.Results {
		if err := p.Result(res); err != nil {
			return err
		}
	}
	return nil
}

// JSONViolation is the JSON form of rules.Violation.
type JSONViolation struct {
	Method  string `json:"method"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// JSONResult is the JSON form of rules.Result.
type JSONResult struct {
	File       string          `json:"file"`
	Rule       string          `json:"rule"`
	Name       string          `json:"name"`
	Param      uint8           `json:"param,omitempty"`
	OK         bool            `json:"ok"`
	Violations []JSONViolation `json:"violations,omitempty"`
}

// JSONFailure is the JSON form of lint.Failure.
type JSONFailure struct {
	File    string `json:"file"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// JSONReport is the JSON form of lint.Report.
type JSONReport struct {
	OK         bool          `json:"ok"`
	Files      int           `json:"files"`
	Violations int           `json:"violations"`
	Results    []JSONResult  `json:"results"`
	Failures   []JSONFailure `json:"failures,omitempty"`
}

// ToJSON converts a report to its JSON form.
func ToJSON(rep *lint.Report) JSONReport {
	out := JSONReport{
		OK:         rep.OK(),
		Files:      rep.Files,
		Violations: rep.Violations(),
		Results:    make([]JSONResult, 0, len(rep.Results)),
	}
	for _, res := range rep.Results {
		jr := JSONResult{
			File:  res.File,
			Rule:  res.Rule.Kind().Key(),
			Name:  res.Rule.Name(),
			Param: res.Rule.Param(),
			OK:    res.OK(),
		}
		for _, v := range res.Violations {
			jr.Violations = append(jr.Violations, JSONViolation{Method: v.Method, Kind: v.Kind.String(), Message: v.Message})
		}
		out.Results = append(out.Results, jr)
	}
	for _, f := range rep.Failures {
		out.Failures = append(out.Failures, JSONFailure{
			File:    f.File,
			Kind:    jvmfmt.KindOf(f.Err).String(),
			Message: f.Err.Error(),
		})
	}
	return out
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("output: encode: %w", err)
	}
	return nil
}

// WriteJSONFile writes v as indented JSON to path.
func WriteJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, v)
}
