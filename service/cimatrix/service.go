// Package cimatrix parses the CI build-matrix configuration and checks the
// command surface each leg declares.
package cimatrix

import (
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
	SeverityInfo     = "INFO"
)

const defaultRuntimeVar = "PYTHON"

// DistDir is the conventional package output directory the artifact glob
// is expected to cover.
const DistDir = "dist"

// Service is the interface for CI configuration parsing and checks.
type Service interface {
	ParseFile(path string) (*Config, error)
	Parse(path string, data []byte) (*Config, error)
	Check(path string, cfg *Config) []Issue
}

type service struct{}

// NewService creates a new CI matrix service.
func NewService() Service {
	return &service{}
}

// ParseFile reads and parses the CI configuration from disk.
func (s *service) ParseFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CI config %s: %w", configPath, err)
	}
	return s.Parse(configPath, data)
}

// Parse decodes the CI configuration YAML.
func (s *service) Parse(configPath string, data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse CI config %s: %w", configPath, err)
	}
	if cfg.RuntimeVar == "" {
		cfg.RuntimeVar = defaultRuntimeVar
	}
	return &cfg, nil
}

// Check validates the matrix shape, each leg's command surface, and the
// artifact glob.
func (s *service) Check(configPath string, cfg *Config) []Issue {
	var issues []Issue

	if len(cfg.Matrix) == 0 {
		issues = append(issues, Issue{
			File:           configPath,
			RiskType:       "EmptyMatrix",
			Severity:       SeverityHigh,
			Description:    "CI configuration declares no build-matrix legs",
			Recommendation: "Declare at least one matrix leg so tests run on every push",
		})
	}

	seen := map[string]bool{}
	for _, leg := range cfg.Matrix {
		name := leg.Name
		if name == "" {
			name = "(unnamed)"
		}
		if seen[leg.Name] {
			issues = append(issues, Issue{
				File:           configPath,
				Leg:            name,
				RiskType:       "DuplicateLeg",
				Severity:       SeverityHigh,
				Description:    fmt.Sprintf("Matrix leg %s is declared more than once", name),
				Recommendation: "Give every matrix leg a unique name",
			})
		}
		seen[leg.Name] = true

		issues = append(issues, s.checkLeg(configPath, cfg.RuntimeVar, name, leg)...)
	}

	issues = append(issues, s.checkArtifacts(configPath, cfg.Artifacts)...)
	return issues
}

func (s *service) checkLeg(configPath, runtimeVar, name string, leg Leg) []Issue {
	var issues []Issue

	if _, ok := leg.Env[runtimeVar]; !ok {
		issues = append(issues, Issue{
			File:           configPath,
			Leg:            name,
			RiskType:       "MissingRuntimePath",
			Severity:       SeverityMedium,
			Description:    fmt.Sprintf("Leg %s does not set %s to select its runtime installation", name, runtimeVar),
			Recommendation: fmt.Sprintf("Set %s in the leg's env block", runtimeVar),
		})
	}

	if len(leg.Install) == 0 {
		issues = append(issues, Issue{
			File:           configPath,
			Leg:            name,
			RiskType:       "MissingInstallSteps",
			Severity:       SeverityMedium,
			Description:    fmt.Sprintf("Leg %s declares no dependency install steps", name),
			Recommendation: "Install the declared dependency manifests before running tests",
		})
	}

	if strings.TrimSpace(leg.Test) == "" {
		issues = append(issues, Issue{
			File:           configPath,
			Leg:            name,
			RiskType:       "MissingTestCommand",
			Severity:       SeverityCritical,
			Description:    fmt.Sprintf("Leg %s has no test command", name),
			Recommendation: "A matrix leg without a test command verifies nothing",
		})
	} else {
		if !hasVerbosityFlag(leg.Test) {
			issues = append(issues, Issue{
				File:           configPath,
				Leg:            name,
				RiskType:       "TestMissingVerbosity",
				Severity:       SeverityLow,
				Description:    fmt.Sprintf("Leg %s test command has no verbosity flag", name),
				Recommendation: "Run tests verbosely so CI logs identify the failing case",
			})
		}
		if !hasTimingFlag(leg.Test) {
			issues = append(issues, Issue{
				File:           configPath,
				Leg:            name,
				RiskType:       "TestMissingTimings",
				Severity:       SeverityLow,
				Description:    fmt.Sprintf("Leg %s test command does not report test durations", name),
				Recommendation: "Enable the test runner's timing report",
			})
		}
	}

	if len(leg.Build) == 0 {
		issues = append(issues, Issue{
			File:           configPath,
			Leg:            name,
			RiskType:       "MissingPackageBuild",
			Severity:       SeverityMedium,
			Description:    fmt.Sprintf("Leg %s does not build a distributable package after tests pass", name),
			Recommendation: "Add the wheel/package build step so artifacts are produced on success",
		})
	}

	return issues
}

func (s *service) checkArtifacts(configPath, glob string) []Issue {
	var issues []Issue

	glob = strings.TrimSpace(glob)
	if glob == "" {
		issues = append(issues, Issue{
			File:           configPath,
			RiskType:       "MissingArtifactGlob",
			Severity:       SeverityMedium,
			Description:    "No artifact glob is declared; built packages will not be archived",
			Recommendation: fmt.Sprintf("Archive everything under the %s output directory", DistDir),
		})
		return issues
	}

	normalized := strings.ReplaceAll(glob, `\`, "/")
	if _, err := path.Match(normalized, "probe"); err != nil {
		issues = append(issues, Issue{
			File:           configPath,
			RiskType:       "MalformedArtifactGlob",
			Severity:       SeverityHigh,
			Description:    fmt.Sprintf("Artifact glob %q is not a valid pattern: %v", glob, err),
			Recommendation: "Fix the glob syntax; the CI host archives nothing otherwise",
		})
		return issues
	}

	first := strings.SplitN(normalized, "/", 2)[0]
	if first != DistDir {
		issues = append(issues, Issue{
			File:           configPath,
			RiskType:       "ArtifactGlobOutsideDist",
			Severity:       SeverityLow,
			Description:    fmt.Sprintf("Artifact glob %q is not rooted under %s/", glob, DistDir),
			Recommendation: fmt.Sprintf("Build output lands in %s/; archive from there", DistDir),
		})
	}

	return issues
}

func hasVerbosityFlag(cmd string) bool {
	for _, tok := range strings.Fields(cmd) {
		if tok == "-v" || tok == "-vv" || tok == "--verbose" {
			return true
		}
	}
	return false
}

func hasTimingFlag(cmd string) bool {
	for _, tok := range strings.Fields(cmd) {
		if strings.HasPrefix(tok, "--durations") || strings.HasPrefix(tok, "--timings") || tok == "--with-timer" {
			return true
		}
	}
	return false
}
