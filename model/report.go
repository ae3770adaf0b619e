package model

import (
	"github.com/dthorne/relvet/service/artifact"
	"github.com/dthorne/relvet/service/changelog"
	"github.com/dthorne/relvet/service/cimatrix"
	"github.com/dthorne/relvet/service/consistency"
	"github.com/dthorne/relvet/service/relnotes"
	"github.com/dthorne/relvet/shared/reldoc"
	"github.com/dthorne/relvet/shared/timing"
)

// RenderReleaseInput carries the release document results for rendering.
type RenderReleaseInput struct {
	RepoPath            string
	ChangelogPath       string
	ReleaseNotesPath    string
	ChangelogEntries    []reldoc.Entry
	ReleaseNotesEntries []reldoc.Entry
	ChangelogIssues     []changelog.Issue
	ReleaseNotesIssues  []relnotes.Issue
	Discrepancies       []consistency.Discrepancy
}

// RenderCIInput carries the CI configuration and artifact results for
// rendering.
type RenderCIInput struct {
	ConfigPath     string
	Legs           []cimatrix.Leg
	ConfigIssues   []cimatrix.Issue
	Artifacts      []artifact.Artifact
	ArtifactIssues []artifact.Issue
}

// RenderTimingsInput carries per-check durations for the timings report.
type RenderTimingsInput struct {
	Laps []timing.Lap
}

// ReportJSON is the consolidated JSON output for one hygiene scan.
type ReportJSON struct {
	RepoPath     string            `json:"repo_path"`
	GeneratedAt  string            `json:"generated_at"`
	HasFindings  bool              `json:"has_findings"`
	HygieneScore int               `json:"hygiene_score"`
	Summary      SummaryJSON       `json:"summary"`
	Releases     ReleaseReportJSON `json:"releases"`
	CI           CIReportJSON      `json:"ci"`
	Timings      []TimingJSON      `json:"timings,omitempty"`
}

// SummaryJSON provides a summary count of findings by severity.
type SummaryJSON struct {
	TotalFindings int `json:"total_findings"`
	Critical      int `json:"critical"`
	High          int `json:"high"`
	Medium        int `json:"medium"`
	Low           int `json:"low"`
	Info          int `json:"info"`
}

// ReleaseReportJSON is the release-documents section of the report.
type ReleaseReportJSON struct {
	ChangelogPath      string              `json:"changelog_path"`
	ReleaseNotesPath   string              `json:"release_notes_path"`
	ChangelogEntries   []ReleaseEntryJSON  `json:"changelog_entries"`
	ReleaseNotesCount  int                 `json:"release_notes_count"`
	ChangelogIssues    []DocumentIssueJSON `json:"changelog_issues,omitempty"`
	ReleaseNotesIssues []DocumentIssueJSON `json:"release_notes_issues,omitempty"`
	Discrepancies      []DiscrepancyJSON   `json:"discrepancies,omitempty"`
}

// ReleaseEntryJSON is one release record.
type ReleaseEntryJSON struct {
	Version string   `json:"version"`
	Date    string   `json:"date,omitempty"`
	Changes []string `json:"changes"`
}

// DocumentIssueJSON is a well-formedness defect in one release document.
type DocumentIssueJSON struct {
	File           string `json:"file"`
	Version        string `json:"version,omitempty"`
	Line           int    `json:"line,omitempty"`
	RiskType       string `json:"risk_type"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation,omitempty"`
}

// DiscrepancyJSON is a disagreement between the two release documents.
type DiscrepancyJSON struct {
	Version        string `json:"version"`
	RiskType       string `json:"risk_type"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation,omitempty"`
}

// CIReportJSON is the CI configuration section of the report.
type CIReportJSON struct {
	ConfigPath     string              `json:"config_path"`
	MatrixLegs     []string            `json:"matrix_legs"`
	ConfigIssues   []CIIssueJSON       `json:"config_issues,omitempty"`
	Artifacts      []ArtifactJSON      `json:"artifacts,omitempty"`
	ArtifactIssues []ArtifactIssueJSON `json:"artifact_issues,omitempty"`
}

// CIIssueJSON is a defect in the CI build-matrix configuration.
type CIIssueJSON struct {
	File           string `json:"file"`
	Leg            string `json:"leg,omitempty"`
	RiskType       string `json:"risk_type"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation,omitempty"`
}

// ArtifactJSON is one matched build artifact.
type ArtifactJSON struct {
	Path    string `json:"path"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Kind    string `json:"kind"`
}

// ArtifactIssueJSON is a defect found while validating build artifacts.
type ArtifactIssueJSON struct {
	Path           string `json:"path"`
	RiskType       string `json:"risk_type"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation,omitempty"`
}

// TimingJSON is one per-check duration.
type TimingJSON struct {
	Check   string  `json:"check"`
	Seconds float64 `json:"seconds"`
}
