package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classlint/internal/config"
	"classlint/internal/jvmfmt"
	"classlint/internal/rules"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, config.TOML, config.FormatFor("rules.toml"))
	assert.Equal(t, config.TOML, config.FormatFor("rules"))
	assert.Equal(t, config.YAML, config.FormatFor("rules.yaml"))
	assert.Equal(t, config.YAML, config.FormatFor("RULES.YML"))
}

func TestLoadRules_TOML(t *testing.T) {
	path := write(t, "rules.toml", `
check_no_void = true
too_many_arguments = 4
no_binary_in_names = false
unrelated = "ignored"
`)
	got, err := config.LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []rules.Rule{
		rules.New(rules.TooManyArguments, 4),
		rules.New(rules.CheckNoVoid, 0),
	}, got)
}

func TestLoadRules_YAML(t *testing.T) {
	path := write(t, "rules.yml", "no_binary_in_names: true\ntoo_many_arguments: 300\n")
	got, err := config.LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []rules.Rule{
		rules.New(rules.NoBinaryInNames, 0),
		rules.New(rules.TooManyArguments, 255),
	}, got)
}

func TestLoadRules_Empty(t *testing.T) {
	for _, name := range []string{"empty.toml", "empty.yaml"} {
		t.Run(name, func(t *testing.T) {
			_, err := config.LoadRules(write(t, name, ""))
			assert.ErrorIs(t, err, rules.ErrNoRulesSelected)
		})
	}
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name string
		path string
		kind jvmfmt.Kind
		want error
	}{
		{"missing", filepath.Join(t.TempDir(), "none.toml"), jvmfmt.KindInvalidPath, config.ErrUnreadable},
		{"bad toml", write(t, "bad.toml", "check_no_void = = true"), jvmfmt.KindParseError, config.ErrMalformed},
		{"yaml list", write(t, "list.yaml", "- check_no_void\n"), jvmfmt.KindParseError, config.ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(tt.path)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.kind, jvmfmt.KindOf(err))
		})
	}
}
