package changelog

import (
	"strings"
	"testing"
)

const sampleLog = `# Changelog

## [Unreleased]

## [1.0.14] - 2018-01-10
- Fixed double-counting of edge die in the GDW calculation.

## 1.0.13 (2018-01-02)
- Added helper for computing values with fixed offsets.
- Removed numpy dependency.

## [1.0.6] - 2016-05-20
- Packaging fixes.

## [1.0.5] - 2016-03-11
- CodeTimer improvements.

## [1.0.4] - 2015-11-30
- Initial public release notes.
`

func TestParse_TwoHeadingDialects(t *testing.T) {
	s := NewService()
	entries, issues := s.Parse("CHANGELOG.md", []byte(sampleLog))
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	want := []string{"1.0.14", "1.0.13", "1.0.6", "1.0.5", "1.0.4"}
	for i, w := range want {
		if entries[i].Version != w {
			t.Fatalf("entry %d version = %s, want %s", i, entries[i].Version, w)
		}
	}
	if entries[1].Date != "2018-01-02" {
		t.Fatalf("plain-heading date = %q, want 2018-01-02", entries[1].Date)
	}
	if len(entries[1].Changes) != 2 {
		t.Fatalf("expected 2 changes for 1.0.13, got %d", len(entries[1].Changes))
	}
}

func TestParse_WellFormednessIssues(t *testing.T) {
	doc := `# Changelog

## [not-a-version] - 2018-01-01
- something

## [1.0.2]
- missing date

## [1.0.1] - someday
- bad date

## [1.0.0] - 2017-01-01
`
	s := NewService()
	_, issues := s.Parse("CHANGELOG.md", []byte(doc))

	wantRisks := map[string]string{
		"UnparseableVersion": SeverityHigh,
		"MissingDate":        SeverityMedium,
		"UnparseableDate":    SeverityMedium,
		"EmptyChangeList":    SeverityMedium,
	}
	got := map[string]string{}
	for _, i := range issues {
		got[i.RiskType] = i.Severity
	}
	for risk, sev := range wantRisks {
		if got[risk] != sev {
			t.Fatalf("expected %s issue with severity %s, got %q (all: %+v)", risk, sev, got[risk], issues)
		}
	}
}

func TestParse_DuplicateVersion(t *testing.T) {
	doc := `## [1.0.5] - 2016-03-11
- a

## [1.0.5] - 2016-03-12
- b
`
	s := NewService()
	_, issues := s.Parse("CHANGELOG.md", []byte(doc))
	found := false
	for _, i := range issues {
		if i.RiskType == "DuplicateVersion" && i.Severity == SeverityHigh {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected DuplicateVersion issue, got %+v", issues)
	}
}

func TestCheckOrdering_NewestFirstHolds(t *testing.T) {
	s := NewService()
	entries, _ := s.Parse("CHANGELOG.md", []byte(sampleLog))
	if issues := s.CheckOrdering("CHANGELOG.md", entries); len(issues) != 0 {
		t.Fatalf("expected ordered changelog to pass, got %+v", issues)
	}
}

func TestCheckOrdering_FlagsIncreasingVersions(t *testing.T) {
	doc := `## [1.0.5] - 2016-03-11
- a

## [1.0.6] - 2016-05-20
- b
`
	s := NewService()
	entries, _ := s.Parse("CHANGELOG.md", []byte(doc))
	issues := s.CheckOrdering("CHANGELOG.md", entries)
	if len(issues) == 0 {
		t.Fatalf("expected ordering violation")
	}
	if issues[0].RiskType != "OrderingViolation" || issues[0].Severity != SeverityHigh {
		t.Fatalf("unexpected issue: %+v", issues[0])
	}
	if !strings.Contains(issues[0].Description, "newest first") {
		t.Fatalf("description should explain ordering: %s", issues[0].Description)
	}
}

func TestCheckOrdering_FlagsIncreasingDates(t *testing.T) {
	doc := `## [1.0.6] - 2016-01-01
- a

## [1.0.5] - 2016-05-20
- b
`
	s := NewService()
	entries, _ := s.Parse("CHANGELOG.md", []byte(doc))
	issues := s.CheckOrdering("CHANGELOG.md", entries)
	found := false
	for _, i := range issues {
		if i.RiskType == "DateOrderingViolation" && i.Severity == SeverityMedium {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected date ordering violation, got %+v", issues)
	}
}

func TestCheckOrdering_EqualVersionsFlagged(t *testing.T) {
	doc := `## [1.0.5] - 2016-03-11
- a

## [1.0.5.0] - 2016-03-10
- b
`
	s := NewService()
	entries, _ := s.Parse("CHANGELOG.md", []byte(doc))
	issues := s.CheckOrdering("CHANGELOG.md", entries)
	if len(issues) == 0 {
		t.Fatalf("equal versions must violate strict decrease")
	}
}
