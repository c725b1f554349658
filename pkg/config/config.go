// Copyright 2025 Certen Protocol
//
// VerifyConfig loads the engine's one piece of I/O-adjacent ambient state:
// per-proof-type freshness windows, resource-size caps, and which V1 specs
// start out deprecated. Loaded the way an anchor configuration loader
// would: YAML unmarshaling via
// gopkg.in/yaml.v3, ${VAR:-default} environment-variable substitution, a
// custom Duration type, applyDefaults(), and a Validate() pass. None of
// this participates in cryptographic verification — it only produces the
// VerifyContext policy values a caller passes into verify.VerifyEnvelope.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/certen/proofsuite/pkg/prooftype"
	"github.com/certen/proofsuite/pkg/verify"
)

// Duration wraps time.Duration for YAML unmarshaling.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) AsDuration() time.Duration { return time.Duration(d) }

// FreshnessSetting is one proof type's configured skew window.
type FreshnessSetting struct {
	ProofType string   `yaml:"proof_type"`
	Skew      Duration `yaml:"skew"`
}

// VerifyConfig is the top-level configuration document.
type VerifyConfig struct {
	Freshness []FreshnessSetting `yaml:"freshness"`

	Limits struct {
		VerificationKeyMaxBytes int `yaml:"verification_key_max_bytes"`
		PublicInputsMaxBytes    int `yaml:"public_inputs_max_bytes"`
		ProofDataMaxBytes       int `yaml:"proof_data_max_bytes"`
		CircuitHashMaxBytes     int `yaml:"circuit_hash_max_bytes"`
	} `yaml:"limits"`

	DeprecatedTypes []string `yaml:"deprecated_types"`
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// Load reads a VerifyConfig from a YAML file, substituting ${VAR} /
// ${VAR:-default} environment references before parsing.
func Load(path string) (*VerifyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	expanded := substituteEnvVars(string(data))

	var cfg VerifyConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the suite's built-in defaults with no file on disk:
// a ±300s freshness skew and the resource caps in pkg/proofsuite.Max*.
func Default() *VerifyConfig {
	cfg := &VerifyConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *VerifyConfig) applyDefaults() {
	if c.Limits.VerificationKeyMaxBytes == 0 {
		c.Limits.VerificationKeyMaxBytes = 64 * 1024
	}
	if c.Limits.PublicInputsMaxBytes == 0 {
		c.Limits.PublicInputsMaxBytes = 1 * 1024 * 1024
	}
	if c.Limits.ProofDataMaxBytes == 0 {
		c.Limits.ProofDataMaxBytes = 16 * 1024 * 1024
	}
	if c.Limits.CircuitHashMaxBytes == 0 {
		c.Limits.CircuitHashMaxBytes = 128
	}
}

// Validate checks internal consistency: every configured proof type and
// freshness skew must name a real V1 type, and size caps must be positive.
func (c *VerifyConfig) Validate() error {
	var errs []string

	for _, f := range c.Freshness {
		if prooftype.Parse(f.ProofType) == prooftype.Unrecognized {
			errs = append(errs, fmt.Sprintf("freshness setting names unknown proof_type %q", f.ProofType))
		}
		if f.Skew.AsDuration() <= 0 {
			errs = append(errs, fmt.Sprintf("freshness skew for %q must be positive", f.ProofType))
		}
	}
	for _, name := range c.DeprecatedTypes {
		if prooftype.Parse(name) == prooftype.Unrecognized {
			errs = append(errs, fmt.Sprintf("deprecated_types names unknown proof_type %q", name))
		}
	}
	if c.Limits.VerificationKeyMaxBytes <= 0 || c.Limits.PublicInputsMaxBytes <= 0 ||
		c.Limits.ProofDataMaxBytes <= 0 || c.Limits.CircuitHashMaxBytes <= 0 {
		errs = append(errs, "all limits.* values must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("verify config validation failed:\n  - %s", joinLines(errs))
	}
	return nil
}

// FreshnessSkewMap converts the configured Freshness list into the
// map[prooftype.ProofType]uint64 shape verify.VerifyContext.FreshnessSkew
// expects.
func (c *VerifyConfig) FreshnessSkewMap() map[prooftype.ProofType]uint64 {
	out := make(map[prooftype.ProofType]uint64, len(c.Freshness))
	for _, f := range c.Freshness {
		t := prooftype.Parse(f.ProofType)
		if t == prooftype.Unrecognized {
			continue
		}
		out[t] = uint64(f.Skew.AsDuration().Seconds())
	}
	return out
}

// VerifyLimits converts the configured size caps into the verify.Limits
// shape verify.VerifyContext.Limits expects, for a caller to plug straight
// into an engine.ContextOption. Named distinctly from the Limits field
// above, since Go does not allow a field and a method of the same name.
func (c *VerifyConfig) VerifyLimits() verify.Limits {
	return verify.Limits{
		VerificationKeyMaxBytes: c.Limits.VerificationKeyMaxBytes,
		PublicInputsMaxBytes:    c.Limits.PublicInputsMaxBytes,
		ProofDataMaxBytes:       c.Limits.ProofDataMaxBytes,
		CircuitHashMaxBytes:     c.Limits.CircuitHashMaxBytes,
	}
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n  - "
		}
		out += l
	}
	return out
}
