package relnotes

import "testing"

const sampleNotes = `releases:
  - version: 1.0.6
    date: 2016-05-20
    changes:
      - Packaging fixes.
  - version: 1.0.5
    date: 2016-03-11
    changes:
      - CodeTimer improvements.
  - version: 1.0.4
    date: 2015-11-30
    changes:
      - Initial public release notes.
`

func TestParse_WrappedList(t *testing.T) {
	s := NewService()
	entries, issues, err := s.Parse("release-notes.yaml", []byte(sampleNotes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Version != "1.0.6" || entries[2].Version != "1.0.4" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}

func TestParse_BareList(t *testing.T) {
	doc := `- version: 1.0.5
  date: 2016-03-11
  changes: [one change]
`
	s := NewService()
	entries, issues, err := s.Parse("release-notes.yaml", []byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
	if len(entries) != 1 || entries[0].Version != "1.0.5" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestParse_Issues(t *testing.T) {
	doc := `releases:
  - version: one-point-oh
    date: 2016-05-20
    changes: [x]
  - version: 1.0.2
    changes: [y]
  - version: 1.0.1
    date: 2016-01-01
    changes: []
`
	s := NewService()
	_, issues, err := s.Parse("release-notes.yaml", []byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := map[string]string{}
	for _, i := range issues {
		got[i.RiskType] = i.Severity
	}
	if got["UnparseableVersion"] != SeverityHigh {
		t.Fatalf("expected UnparseableVersion HIGH, got %+v", issues)
	}
	if got["MissingDate"] != SeverityMedium {
		t.Fatalf("expected MissingDate MEDIUM, got %+v", issues)
	}
	if got["EmptyChangeList"] != SeverityMedium {
		t.Fatalf("expected EmptyChangeList MEDIUM, got %+v", issues)
	}
}

func TestParse_DuplicateVersion(t *testing.T) {
	doc := `releases:
  - version: 1.0.5
    date: 2016-03-11
    changes: [a]
  - version: 1.0.5
    date: 2016-03-12
    changes: [b]
`
	s := NewService()
	_, issues, err := s.Parse("release-notes.yaml", []byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, i := range issues {
		if i.RiskType == "DuplicateVersion" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected DuplicateVersion issue, got %+v", issues)
	}
}

func TestParse_Malformed(t *testing.T) {
	s := NewService()
	if _, _, err := s.Parse("release-notes.yaml", []byte("releases: {not: [a, list")); err == nil {
		t.Fatalf("expected parse error for malformed yaml")
	}
}
