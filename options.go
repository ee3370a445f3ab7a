package jsonfix

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Policy selects how the engine reacts when a repair is needed.
type Policy string

const (
	// PolicyIgnore applies repairs silently. This is the default.
	PolicyIgnore Policy = "ignore"

	// PolicyWarn applies repairs and reports each one through the
	// configured notify function.
	PolicyWarn Policy = "warn"

	// PolicyError rejects input that needs any repair at all.
	PolicyError Policy = "error"
)

// ParsePolicy converts a policy name into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyIgnore, PolicyWarn, PolicyError:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown repair policy %q (want ignore, warn, or error)", s)
}

// Config holds every knob the engine exposes. The zero value disables
// everything; use DefaultConfig as the starting point.
type Config struct {
	// TrailingCommas removes commas that sit directly before a closing
	// bracket.
	TrailingCommas bool `json:"allow_trailing_commas"`

	// Comments strips // and /* */ and # comments outside strings.
	Comments bool `json:"allow_comments"`

	// NormalizeQuotes rewrites typographic quote characters to their
	// ASCII equivalents.
	NormalizeQuotes bool `json:"normalize_quotes"`

	// SingleQuotes converts single-quoted strings to double-quoted ones.
	SingleQuotes bool `json:"allow_single_quote_strings"`

	// UnquotedKeys adds quotes around bare object keys.
	UnquotedKeys bool `json:"allow_unquoted_keys"`

	// PythonLiterals converts True, False, and None to their JSON
	// spellings.
	PythonLiterals bool `json:"convert_python_literals"`

	// EscapeNewlines escapes literal newlines inside strings.
	EscapeNewlines bool `json:"escape_newlines"`

	// AutoClose appends missing closing brackets at end of input.
	AutoClose bool `json:"auto_close_brackets"`

	// Ellipsis removes ... truncation markers in value position.
	Ellipsis bool `json:"remove_ellipsis"`

	// Strict bypasses the engine entirely: input must already be valid.
	Strict bool `json:"strict"`

	// OnRepair is the policy applied when repairs are needed.
	OnRepair Policy `json:"on_repair"`

	// Notify receives each repair under PolicyWarn. When nil, warnings
	// are written to stderr, one line per repair.
	Notify func(Record) `json:"-"`
}

// DefaultConfig returns the configuration used when no options are given:
// every repair enabled, strict off, repairs applied silently.
func DefaultConfig() Config {
	return Config{
		TrailingCommas:  true,
		Comments:        true,
		NormalizeQuotes: true,
		SingleQuotes:    true,
		UnquotedKeys:    true,
		PythonLiterals:  true,
		EscapeNewlines:  true,
		AutoClose:       true,
		Ellipsis:        true,
		OnRepair:        PolicyIgnore,
	}
}

// Option is a functional option for configuring a repair call.
type Option func(*Config)

// WithTrailingCommas toggles trailing comma removal.
func WithTrailingCommas(v bool) Option {
	return func(c *Config) { c.TrailingCommas = v }
}

// WithComments toggles comment stripping.
func WithComments(v bool) Option {
	return func(c *Config) { c.Comments = v }
}

// WithNormalizeQuotes toggles smart quote normalization.
func WithNormalizeQuotes(v bool) Option {
	return func(c *Config) { c.NormalizeQuotes = v }
}

// WithSingleQuotes toggles single-quoted string conversion.
func WithSingleQuotes(v bool) Option {
	return func(c *Config) { c.SingleQuotes = v }
}

// WithUnquotedKeys toggles quoting of bare object keys.
func WithUnquotedKeys(v bool) Option {
	return func(c *Config) { c.UnquotedKeys = v }
}

// WithPythonLiterals toggles Python literal conversion.
func WithPythonLiterals(v bool) Option {
	return func(c *Config) { c.PythonLiterals = v }
}

// WithEscapeNewlines toggles escaping of literal newlines in strings.
func WithEscapeNewlines(v bool) Option {
	return func(c *Config) { c.EscapeNewlines = v }
}

// WithAutoClose toggles closing bracket recovery at end of input.
func WithAutoClose(v bool) Option {
	return func(c *Config) { c.AutoClose = v }
}

// WithEllipsis toggles truncation marker removal.
func WithEllipsis(v bool) Option {
	return func(c *Config) { c.Ellipsis = v }
}

// WithStrict turns the engine off: the input is handed straight to the
// strict parser and any deviation is an error.
func WithStrict() Option {
	return func(c *Config) { c.Strict = true }
}

// WithPolicy sets the reaction to needed repairs.
func WithPolicy(p Policy) Option {
	return func(c *Config) { c.OnRepair = p }
}

// WithNotify sets the sink for PolicyWarn notifications.
func WithNotify(fn func(Record)) Option {
	return func(c *Config) { c.Notify = fn }
}

// WithConfig replaces the whole configuration at once.
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

// ParseConfig decodes a configuration map, as read from a config file,
// into a Config. Keys follow the json tags on Config; absent keys keep
// their defaults.
//
// Example:
//
//	cfg, err := jsonfix.ParseConfig(map[string]any{
//		"allow_comments": false,
//		"on_repair":      "warn",
//	})
func ParseConfig(options map[string]any) (Config, error) {
	cfg := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(options); err != nil {
		return Config{}, fmt.Errorf("invalid jsonfix configuration: %w", err)
	}
	if cfg.OnRepair != "" {
		if _, err := ParsePolicy(string(cfg.OnRepair)); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
