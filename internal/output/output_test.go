package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classlint/internal/jvmfmt"
	"classlint/internal/lint"
	"classlint/internal/output"
	"classlint/internal/rules"
)

func sampleReport() *lint.Report {
	return &lint.Report{
		Files: 1,
		Results: []rules.Result{
			{File: "A.class", Rule: rules.New(rules.NoBinaryInNames, 0)},
			{File: "A.class", Rule: rules.New(rules.TooManyArguments, 2), Violations: []rules.Violation{
				{Method: "compute", Message: "method takes 3 parameters, maximum is 2", Kind: jvmfmt.KindRuleCheckFailed},
				{Method: "N/A", Message: "index 900 out of range for constant pool of 12 entries", Kind: jvmfmt.KindNotFound},
			}},
		},
		Failures: []lint.Failure{{
			File: "Bad.class",
			Err:  jvmfmt.Errorf(jvmfmt.KindParseError, errors.New("classfile: malformed header"), "bad magic 0x00000000"),
		}},
	}
}

func TestReporter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := output.NewReporter(&buf, false)
	require.NoError(t, p.Report(sampleReport()))

	want := "[OK] (file: A.class), Rule: No Binary Operator In Method Names\n" +
		"[FAIL] (file: A.class), Rule: Too Many Arguments, (method: compute) - error: Rule Check Failed, trace: method takes 3 parameters, maximum is 2\n" +
		"[FAIL] (file: A.class), Rule: Too Many Arguments, (method: N/A) - error: Not Found, trace: index 900 out of range for constant pool of 12 entries\n"
	assert.Equal(t, want, buf.String())
}

func TestToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.WriteJSON(&buf, output.ToJSON(sampleReport())))

	var got output.JSONReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.False(t, got.OK)
	assert.Equal(t, 2, got.Violations)
	require.Len(t, got.Results, 2)
	assert.Equal(t, "no_binary_in_names", got.Results[0].Rule)
	assert.True(t, got.Results[0].OK)
	assert.Equal(t, uint8(2), got.Results[1].Param)
	assert.Equal(t, "Not Found", got.Results[1].Violations[1].Kind)
	require.Len(t, got.Failures, 1)
	assert.Equal(t, "Parser Error", got.Failures[0].Kind)
}
