// Package changelog parses Markdown changelogs and checks their
// well-formedness and newest-first ordering.
package changelog

import (
	"fmt"
	"os"
	"regexp"
	"strings"

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

// Issue represents a defect found in a changelog document.
type Issue struct {
	File           string
	Version        string
	Line           int
	RiskType       string
	Severity       string
	Description    string
	Recommendation string
}

// Service is the interface for changelog parsing and checks.
type Service interface {
	ParseFile(path string) ([]reldoc.Entry, []Issue, error)
	Parse(path string, data []byte) ([]reldoc.Entry, []Issue)
	CheckOrdering(path string, entries []reldoc.Entry) []Issue
}

type service struct{}

// NewService creates a new changelog service.
func NewService() Service {
	return &service{}
}

// Heading dialects accepted:
//
//	## [1.0.14] - 2018-01-01
//	## 1.0.14 (2018-01-01)
//	## v1.0.14 - 2018-01-01
var (
	bracketHeading = regexp.MustCompile(`^##\s*\[([^\]]+)\]\s*(?:-\s*(.*?)\s*)?$`)
	plainHeading   = regexp.MustCompile(`^##\s+(\S+)\s*(?:\(([^)]*)\)|-\s*(.*?))?\s*$`)
	bulletLine     = regexp.MustCompile(`^\s*[-*+]\s+(.*)$`)
)

// ParseFile reads and parses a changelog from disk.
func (s *service) ParseFile(path string) ([]reldoc.Entry, []Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read changelog %s: %w", path, err)
	}
	entries, issues := s.Parse(path, data)
	return entries, issues, nil
}

// Parse extracts release entries in document order (newest first) and
// reports per-entry well-formedness issues.
func (s *service) Parse(path string, data []byte) ([]reldoc.Entry, []Issue) {
	var (
		entries []reldoc.Entry
		issues  []Issue
		current *reldoc.Entry
	)

	flush := func() {
		if current == nil {
			return
		}
		entries = append(entries, *current)
		current = nil
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimRight(line, " \t\r")
		if !strings.HasPrefix(trimmed, "## ") && !strings.HasPrefix(trimmed, "##[") {
			if current != nil {
				if m := bulletLine.FindStringSubmatch(trimmed); m != nil {
					text := strings.TrimSpace(m[1])
					if text != "" {
						current.Changes = append(current.Changes, text)
					}
				}
			}
			continue
		}

		flush()

		version, date := splitHeading(trimmed)
		if strings.EqualFold(version, "unreleased") {
			// An Unreleased section is maintenance staging, not a release.
			continue
		}
		current = &reldoc.Entry{Version: version, Date: date, Line: lineNo}

		if _, err := vers.Parse(version); err != nil {
			issues = append(issues, Issue{
				File:           path,
				Version:        version,
				Line:           lineNo,
				RiskType:       "UnparseableVersion",
				Severity:       SeverityHigh,
				Description:    fmt.Sprintf("Release heading %q has no parseable version identifier", trimmed),
				Recommendation: "Use dotted-integer version identifiers such as 1.0.14",
			})
		}
		if date == "" {
			issues = append(issues, Issue{
				File:           path,
				Version:        version,
				Line:           lineNo,
				RiskType:       "MissingDate",
				Severity:       SeverityMedium,
				Description:    fmt.Sprintf("Release %s has no date", version),
				Recommendation: "Record the publication date alongside the version",
			})
		} else if _, err := reldoc.ParseDate(date); err != nil {
			issues = append(issues, Issue{
				File:           path,
				Version:        version,
				Line:           lineNo,
				RiskType:       "UnparseableDate",
				Severity:       SeverityMedium,
				Description:    fmt.Sprintf("Release %s has unparseable date %q", version, date),
				Recommendation: "Use ISO dates (YYYY-MM-DD)",
			})
		}
	}
	flush()

	seen := map[string][]int{}
	for _, e := range entries {
		if len(e.Changes) == 0 {
			issues = append(issues, Issue{
				File:           path,
				Version:        e.Version,
				Line:           e.Line,
				RiskType:       "EmptyChangeList",
				Severity:       SeverityMedium,
				Description:    fmt.Sprintf("Release %s has no change descriptions", e.Version),
				Recommendation: "Every release entry must carry a non-empty list of change descriptions",
			})
		}
		if v, err := e.ParseVersion(); err == nil {
			seen[v.String()] = append(seen[v.String()], e.Line)
		}
	}
	for v, lns := range seen {
		if len(lns) > 1 {
			issues = append(issues, Issue{
				File:           path,
				Version:        v,
				Line:           lns[1],
				RiskType:       "DuplicateVersion",
				Severity:       SeverityHigh,
				Description:    fmt.Sprintf("Version %s appears %d times", v, len(lns)),
				Recommendation: "Each version is released once; merge or remove the duplicate entry",
			})
		}
	}

	return entries, issues
}

// CheckOrdering verifies that versions read top-to-bottom are strictly
// decreasing (newest first) and that dates are non-increasing.
func (s *service) CheckOrdering(path string, entries []reldoc.Entry) []Issue {
	var issues []Issue

	var (
		prevVer     vers.Version
		prevVerSet  bool
		prevVerName string
	)
	for _, e := range entries {
		v, err := e.ParseVersion()
		if err != nil {
			continue
		}
		if prevVerSet && vers.Compare(prevVer, v) <= 0 {
			issues = append(issues, Issue{
				File:           path,
				Version:        e.Version,
				Line:           e.Line,
				RiskType:       "OrderingViolation",
				Severity:       SeverityHigh,
				Description:    fmt.Sprintf("Version %s appears below %s; entries must be newest first", v, prevVerName),
				Recommendation: "Keep release entries in strictly decreasing version order",
			})
		}
		prevVer, prevVerSet, prevVerName = v, true, v.String()
	}

	var (
		prevDate    string
		prevDateSet bool
	)
	for _, e := range entries {
		d, err := e.ParsedDate()
		if err != nil {
			continue
		}
		if prevDateSet {
			prev, err := reldoc.ParseDate(prevDate)
			if err == nil && d.After(prev) {
				issues = append(issues, Issue{
					File:           path,
					Version:        e.Version,
					Line:           e.Line,
					RiskType:       "DateOrderingViolation",
					Severity:       SeverityMedium,
					Description:    fmt.Sprintf("Release %s is dated %s, later than the entry above it (%s)", e.Version, e.Date, prevDate),
					Recommendation: "Dates must not increase when reading newest-first",
				})
			}
		}
		prevDate, prevDateSet = e.Date, true
	}

	return issues
}

func splitHeading(line string) (version, date string) {
	if m := bracketHeading.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	if m := plainHeading.FindStringSubmatch(line); m != nil {
		version = strings.TrimSpace(m[1])
		if m[2] != "" {
			return version, strings.TrimSpace(m[2])
		}
		return version, strings.TrimSpace(m[3])
	}
	return strings.TrimSpace(strings.TrimPrefix(line, "##")), ""
}
