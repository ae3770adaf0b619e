// Package tests contains unit tests for the cross-document consistency service.
package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dthorne/relvet/service/consistency"
	"github.com/dthorne/relvet/shared/reldoc"
)

func crossCheck(changelog, notes []reldoc.Entry) []consistency.Discrepancy {
	svc := consistency.NewService()
	return svc.CrossCheck(consistency.Input{
		ChangelogPath:    "CHANGELOG.md",
		ReleaseNotesPath: "release-notes.yaml",
		Changelog:        changelog,
		ReleaseNotes:     notes,
	})
}

// TestCrossCheckAgreement tests that matching documents produce no discrepancies
func TestCrossCheckAgreement(t *testing.T) {
	entries := []reldoc.Entry{
		{Version: "1.0.2", Date: "2018-02-01", Changes: []string{"Added widget"}},
		{Version: "1.0.1", Date: "2018-01-01", Changes: []string{"Fixed bug"}},
	}
	assert.Empty(t, crossCheck(entries, entries))
}

// TestCrossCheckDiscrepancies tests each disagreement class
func TestCrossCheckDiscrepancies(t *testing.T) {
	tests := []struct {
		name         string
		changelog    []reldoc.Entry
		notes        []reldoc.Entry
		wantRisk     string
		wantSeverity string
	}{
		{
			name:         "release only in notes - high",
			changelog:    []reldoc.Entry{{Version: "1.0.1", Date: "2018-01-01", Changes: []string{"Fix"}}},
			notes:        []reldoc.Entry{{Version: "1.0.1", Date: "2018-01-01", Changes: []string{"Fix"}}, {Version: "1.0.0", Date: "2017-12-01", Changes: []string{"Initial"}}},
			wantRisk:     "MissingChangelogEntry",
			wantSeverity: consistency.SeverityHigh,
		},
		{
			name:         "release only in changelog - medium",
			changelog:    []reldoc.Entry{{Version: "1.0.1", Date: "2018-01-01", Changes: []string{"Fix"}}, {Version: "1.0.0", Date: "2017-12-01", Changes: []string{"Initial"}}},
			notes:        []reldoc.Entry{{Version: "1.0.1", Date: "2018-01-01", Changes: []string{"Fix"}}},
			wantRisk:     "MissingReleaseNotesEntry",
			wantSeverity: consistency.SeverityMedium,
		},
		{
			name:         "date mismatch - medium",
			changelog:    []reldoc.Entry{{Version: "1.0.1", Date: "2018-01-01", Changes: []string{"Fix"}}},
			notes:        []reldoc.Entry{{Version: "1.0.1", Date: "2018-01-02", Changes: []string{"Fix"}}},
			wantRisk:     "DateMismatch",
			wantSeverity: consistency.SeverityMedium,
		},
		{
			name:         "change count drift - low",
			changelog:    []reldoc.Entry{{Version: "1.0.1", Date: "2018-01-01", Changes: []string{"Fix", "Tweak"}}},
			notes:        []reldoc.Entry{{Version: "1.0.1", Date: "2018-01-01", Changes: []string{"Fix"}}},
			wantRisk:     "ChangeCountDrift",
			wantSeverity: consistency.SeverityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := crossCheck(tt.changelog, tt.notes)
			require.NotEmpty(t, out)

			found := false
			for _, d := range out {
				if d.RiskType == tt.wantRisk {
					found = true
					assert.Equal(t, tt.wantSeverity, d.Severity)
				}
			}
			assert.True(t, found, "expected a %s discrepancy, got %+v", tt.wantRisk, out)
		})
	}
}

// TestLatestVersionMismatch tests the newest-release agreement check
func TestLatestVersionMismatch(t *testing.T) {
	changelog := []reldoc.Entry{
		{Version: "1.0.2", Date: "2018-02-01", Changes: []string{"Added widget"}},
		{Version: "1.0.1", Date: "2018-01-01", Changes: []string{"Fix"}},
	}
	notes := []reldoc.Entry{
		{Version: "1.0.1", Date: "2018-01-01", Changes: []string{"Fix"}},
	}

	out := crossCheck(changelog, notes)
	found := false
	for _, d := range out {
		if d.RiskType == "LatestVersionMismatch" {
			found = true
			assert.Equal(t, consistency.SeverityHigh, d.Severity)
			assert.Equal(t, "1.0.2", d.Version)
		}
	}
	assert.True(t, found, "expected a LatestVersionMismatch discrepancy, got %+v", out)
}
