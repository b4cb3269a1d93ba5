// Package config loads rule configuration files.
//
// A configuration is a flat mapping from rule key to value:
//
//	check_no_void = true
//	too_many_arguments = 4
//
// TOML is the native format; files ending in .yaml or .yml are read as YAML
// with the same keys.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"classlint/internal/jvmfmt"
	"classlint/internal/rules"
)

var (
	ErrUnreadable = errors.New("config: unreadable")
	ErrMalformed  = errors.New("config: malformed")
)

// Format is a configuration syntax.
type Format int

const (
	TOML Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "toml"
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return TOML
	}
}

// Load reads and parses the configuration at path. A missing or unreadable
// file is InvalidPath; a file that does not parse is ParseError.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, jvmfmt.Errorf(jvmfmt.KindInvalidPath, errors.Join(ErrUnreadable, err),
			"cannot read config %s", path)
	}
	cfg, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, jvmfmt.Errorf(jvmfmt.KindParseError, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes a configuration document. An empty document yields an
// empty mapping.
func Parse(data []byte, f Format) (map[string]any, error) {
	cfg := map[string]any{}
	var err error
	switch f {
	case YAML:
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}
	if cfg == nil {
		cfg = map[string]any{}
	}
	return cfg, nil
}

// LoadRules loads path and selects the active rules. The error is
// rules.ErrNoRulesSelected when the file parses but activates nothing.
func LoadRules(path string) ([]rules.Rule, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return rules.Select(cfg)
}
