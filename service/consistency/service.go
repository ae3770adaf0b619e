// Package consistency cross-checks the changelog against the release notes.
// Discrepancies are reported, never silently resolved.
package consistency

import (
	"fmt"

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

// Discrepancy represents a disagreement between the two release documents.
type Discrepancy struct {
	Version        string
	RiskType       string
	Severity       string
	Description    string
	Recommendation string
}

// Input carries both parsed documents.
type Input struct {
	ChangelogPath    string
	ReleaseNotesPath string
	Changelog        []reldoc.Entry
	ReleaseNotes     []reldoc.Entry
}

// Service is the interface for cross-document consistency checks.
type Service interface {
	CrossCheck(input Input) []Discrepancy
}

type service struct{}

// NewService creates a new consistency service.
func NewService() Service {
	return &service{}
}

// CrossCheck compares the documents version by version. Only entries with
// parseable versions participate; unparseable ones are already flagged by
// the document services.
func (s *service) CrossCheck(input Input) []Discrepancy {
	var out []Discrepancy

	logByVer := indexByVersion(input.Changelog)
	notesByVer := indexByVersion(input.ReleaseNotes)

	for _, e := range input.ReleaseNotes {
		v, err := e.ParseVersion()
		if err != nil {
			continue
		}
		if _, ok := logByVer[v.String()]; !ok {
			out = append(out, Discrepancy{
				Version:        v.String(),
				RiskType:       "MissingChangelogEntry",
				Severity:       SeverityHigh,
				Description:    fmt.Sprintf("Release %s exists in %s but not in %s", v, input.ReleaseNotesPath, input.ChangelogPath),
				Recommendation: "Append the missing changelog entry; do not remove the release notes entry",
			})
		}
	}

	for _, e := range input.Changelog {
		v, err := e.ParseVersion()
		if err != nil {
			continue
		}
		if _, ok := notesByVer[v.String()]; !ok {
			out = append(out, Discrepancy{
				Version:        v.String(),
				RiskType:       "MissingReleaseNotesEntry",
				Severity:       SeverityMedium,
				Description:    fmt.Sprintf("Release %s exists in %s but not in %s", v, input.ChangelogPath, input.ReleaseNotesPath),
				Recommendation: "Append the missing release notes entry; do not remove the changelog entry",
			})
		}
	}

	// Walk the changelog in document order so discrepancies render in a
	// stable order.
	compared := map[string]bool{}
	for _, e := range input.Changelog {
		v, err := e.ParseVersion()
		if err != nil {
			continue
		}
		verStr := v.String()
		if compared[verStr] {
			continue
		}
		compared[verStr] = true

		logEntry := logByVer[verStr]
		noteEntry, ok := notesByVer[verStr]
		if !ok {
			continue
		}
		if logEntry.Date != "" && noteEntry.Date != "" && !sameDate(logEntry.Date, noteEntry.Date) {
			out = append(out, Discrepancy{
				Version:        verStr,
				RiskType:       "DateMismatch",
				Severity:       SeverityMedium,
				Description:    fmt.Sprintf("Release %s is dated %s in the changelog but %s in the release notes", verStr, logEntry.Date, noteEntry.Date),
				Recommendation: "Align both documents on the actual publication date",
			})
		}
		if len(logEntry.Changes) != len(noteEntry.Changes) {
			out = append(out, Discrepancy{
				Version:        verStr,
				RiskType:       "ChangeCountDrift",
				Severity:       SeverityLow,
				Description:    fmt.Sprintf("Release %s lists %d changes in the changelog but %d in the release notes", verStr, len(logEntry.Changes), len(noteEntry.Changes)),
				Recommendation: "Review both documents for dropped or extra change descriptions",
			})
		}
	}

	if d := s.checkLatestAgreement(input); d != nil {
		out = append(out, *d)
	}

	return out
}

func (s *service) checkLatestAgreement(input Input) *Discrepancy {
	logNewest, okLog := reldoc.Newest(input.Changelog)
	notesNewest, okNotes := reldoc.Newest(input.ReleaseNotes)
	if !okLog || !okNotes {
		return nil
	}
	lv, _ := logNewest.ParseVersion()
	nv, _ := notesNewest.ParseVersion()
	if vers.Compare(lv, nv) == 0 {
		return nil
	}
	return &Discrepancy{
		Version:        lv.String(),
		RiskType:       "LatestVersionMismatch",
		Severity:       SeverityHigh,
		Description:    fmt.Sprintf("Newest changelog release is %s but newest release notes release is %s", lv, nv),
		Recommendation: "Cut releases through the release-log maintenance workflow so both documents advance together",
	}
}

func indexByVersion(entries []reldoc.Entry) map[string]reldoc.Entry {
	out := make(map[string]reldoc.Entry, len(entries))
	for _, e := range entries {
		v, err := e.ParseVersion()
		if err != nil {
			continue
		}
		if _, dup := out[v.String()]; !dup {
			out[v.String()] = e
		}
	}
	return out
}

func sameDate(a, b string) bool {
	at, errA := reldoc.ParseDate(a)
	bt, errB := reldoc.ParseDate(b)
	if errA != nil || errB != nil {
		return a == b
	}
	ay, am, ad := at.Date()
	by, bm, bd := bt.Date()
	return ay == by && am == bm && ad == bd
}
