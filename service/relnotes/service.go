// Package relnotes parses the structured release notes document and checks
// its well-formedness.
package relnotes

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dthorne/relvet/shared/reldoc"
	"github.com/dthorne/relvet/shared/vers"
)

const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
	SeverityInfo     = "INFO"
)

// Issue represents a defect found in the release notes document.
type Issue struct {
	File           string
	Version        string
	RiskType       string
	Severity       string
	Description    string
	Recommendation string
}

// Service is the interface for release notes parsing and checks.
type Service interface {
	ParseFile(path string) ([]reldoc.Entry, []Issue, error)
	Parse(path string, data []byte) ([]reldoc.Entry, []Issue, error)
}

type service struct{}

// NewService creates a new release notes service.
func NewService() Service {
	return &service{}
}

// noteEntry is the on-disk YAML shape: a list of releases, newest first.
type noteEntry struct {
	Version string   `yaml:"version"`
	Date    string   `yaml:"date"`
	Changes []string `yaml:"changes"`
}

type notesDoc struct {
	Releases []noteEntry `yaml:"releases"`
}

// ParseFile reads and parses the release notes from disk.
func (s *service) ParseFile(path string) ([]reldoc.Entry, []Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read release notes %s: %w", path, err)
	}
	return s.Parse(path, data)
}

// Parse decodes the YAML document and reports per-entry issues. A document
// that is a bare list (without the releases key) is also accepted.
func (s *service) Parse(path string, data []byte) ([]reldoc.Entry, []Issue, error) {
	var doc notesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		var bare []noteEntry
		if bareErr := yaml.Unmarshal(data, &bare); bareErr != nil {
			return nil, nil, fmt.Errorf("failed to parse release notes %s: %w", path, err)
		}
		doc.Releases = bare
	}
	if doc.Releases == nil {
		var bare []noteEntry
		if err := yaml.Unmarshal(data, &bare); err == nil {
			doc.Releases = bare
		}
	}

	var (
		entries []reldoc.Entry
		issues  []Issue
	)
	seen := map[string]int{}
	for _, n := range doc.Releases {
		e := reldoc.Entry{Version: n.Version, Date: n.Date, Changes: n.Changes}
		entries = append(entries, e)

		if v, err := vers.Parse(n.Version); err != nil {
			issues = append(issues, Issue{
				File:           path,
				Version:        n.Version,
				RiskType:       "UnparseableVersion",
				Severity:       SeverityHigh,
				Description:    fmt.Sprintf("Release notes entry %q has no parseable version identifier", n.Version),
				Recommendation: "Use dotted-integer version identifiers such as 1.0.14",
			})
		} else {
			seen[v.String()]++
		}

		if n.Date == "" {
			issues = append(issues, Issue{
				File:           path,
				Version:        n.Version,
				RiskType:       "MissingDate",
				Severity:       SeverityMedium,
				Description:    fmt.Sprintf("Release notes entry %s has no date", n.Version),
				Recommendation: "Record the publication date alongside the version",
			})
		} else if _, err := reldoc.ParseDate(n.Date); err != nil {
			issues = append(issues, Issue{
				File:           path,
				Version:        n.Version,
				RiskType:       "UnparseableDate",
				Severity:       SeverityMedium,
				Description:    fmt.Sprintf("Release notes entry %s has unparseable date %q", n.Version, n.Date),
				Recommendation: "Use ISO dates (YYYY-MM-DD)",
			})
		}

		if len(n.Changes) == 0 {
			issues = append(issues, Issue{
				File:           path,
				Version:        n.Version,
				RiskType:       "EmptyChangeList",
				Severity:       SeverityMedium,
				Description:    fmt.Sprintf("Release notes entry %s has no change descriptions", n.Version),
				Recommendation: "Every release entry must carry a non-empty list of change descriptions",
			})
		}
	}

	for v, count := range seen {
		if count > 1 {
			issues = append(issues, Issue{
				File:           path,
				Version:        v,
				RiskType:       "DuplicateVersion",
				Severity:       SeverityHigh,
				Description:    fmt.Sprintf("Version %s appears %d times in the release notes", v, count),
				Recommendation: "Each version is released once; merge or remove the duplicate entry",
			})
		}
	}

	return entries, issues, nil
}
