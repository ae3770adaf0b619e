// Package artifact expands the CI artifact glob against the repository and
// validates the packaged distribution files it matches.
package artifact

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dthorne/relvet/shared/vers"
)

const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
	SeverityInfo     = "INFO"
)

// Artifact is one matched distribution file.
type Artifact struct {
	Path    string
	Name    string
	Version string
	Kind    string // wheel, sdist, other
}

// Issue represents a defect found while validating build artifacts.
type Issue struct {
	Path           string
	RiskType       string
	Severity       string
	Description    string
	Recommendation string
}

// Service is the interface for artifact validation.
type Service interface {
	Expand(repoRoot, glob string) ([]Artifact, []Issue, error)
	CheckVersions(artifacts []Artifact, newest vers.Version) []Issue
}

type service struct{}

// NewService creates a new artifact service.
func NewService() Service {
	return &service{}
}

// Expand resolves the artifact glob relative to the repository root. An
// empty expansion is a finding: the glob must be non-empty after a
// successful build.
func (s *service) Expand(repoRoot, glob string) ([]Artifact, []Issue, error) {
	glob = strings.TrimSpace(strings.ReplaceAll(glob, `\`, "/"))
	if glob == "" {
		return nil, nil, fmt.Errorf("artifact glob is empty")
	}

	matches, err := filepath.Glob(filepath.Join(repoRoot, filepath.FromSlash(glob)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to expand artifact glob %q: %w", glob, err)
	}

	if len(matches) == 0 {
		return nil, []Issue{{
			Path:           glob,
			RiskType:       "EmptyArtifactGlob",
			Severity:       SeverityHigh,
			Description:    fmt.Sprintf("Artifact glob %q matched no files", glob),
			Recommendation: "After a successful build the glob must match at least one package file",
		}}, nil
	}

	var (
		artifacts []Artifact
		issues    []Issue
	)
	for _, m := range matches {
		a := parseArtifactName(m)
		artifacts = append(artifacts, a)
		if a.Kind == "other" || a.Version == "" {
			issues = append(issues, Issue{
				Path:           m,
				RiskType:       "UnparseableArtifactName",
				Severity:       SeverityMedium,
				Description:    fmt.Sprintf("Artifact %s does not follow the name-version package naming convention", filepath.Base(m)),
				Recommendation: "Let the package build step name the distribution files",
			})
		}
	}
	return artifacts, issues, nil
}

// CheckVersions compares each parseable artifact version against the newest
// released version.
func (s *service) CheckVersions(artifacts []Artifact, newest vers.Version) []Issue {
	var issues []Issue
	for _, a := range artifacts {
		if a.Version == "" {
			continue
		}
		av, err := vers.Parse(a.Version)
		if err != nil {
			continue
		}
		if vers.Compare(av, newest) != 0 {
			issues = append(issues, Issue{
				Path:           a.Path,
				RiskType:       "ArtifactVersionMismatch",
				Severity:       SeverityHigh,
				Description:    fmt.Sprintf("Artifact %s carries version %s but the newest released version is %s", filepath.Base(a.Path), av, newest),
				Recommendation: "Cut the release entry before building, or rebuild from the tagged revision",
			})
		}
	}
	return issues
}

// parseArtifactName extracts name and version from wheel and sdist
// filenames:
//
//	douglib-1.0.14-py2.py3-none-any.whl
//	douglib-1.0.14.tar.gz
func parseArtifactName(p string) Artifact {
	base := filepath.Base(p)
	a := Artifact{Path: p, Kind: "other"}

	switch {
	case strings.HasSuffix(base, ".whl"):
		a.Kind = "wheel"
		parts := strings.Split(strings.TrimSuffix(base, ".whl"), "-")
		if len(parts) >= 5 {
			a.Name = parts[0]
			a.Version = parts[1]
		}
	case strings.HasSuffix(base, ".tar.gz"):
		a.Kind = "sdist"
		stem := strings.TrimSuffix(base, ".tar.gz")
		if idx := strings.LastIndex(stem, "-"); idx > 0 {
			a.Name = stem[:idx]
			a.Version = stem[idx+1:]
		}
	case strings.HasSuffix(base, ".zip"):
		a.Kind = "sdist"
		stem := strings.TrimSuffix(base, ".zip")
		if idx := strings.LastIndex(stem, "-"); idx > 0 {
			a.Name = stem[:idx]
			a.Version = stem[idx+1:]
		}
	}

	if a.Version != "" {
		if _, err := vers.Parse(a.Version); err != nil {
			a.Version = ""
		}
	}
	return a
}
