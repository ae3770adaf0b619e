// Package jsonoutput builds and prints the consolidated JSON scan report.
package jsonoutput

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dthorne/relvet/model"
	"github.com/dthorne/relvet/service/changelog"
)

// OutputReportJSON prints the consolidated scan report as JSON.
func OutputReportJSON(release model.RenderReleaseInput, ci model.RenderCIInput, timings model.RenderTimingsInput) error {
	output := BuildReport(release, ci, timings, time.Now().UTC().Format(time.RFC3339))
	return printJSON(output)
}

// BuildReport builds the JSON report model from the scan results.
func BuildReport(release model.RenderReleaseInput, ci model.RenderCIInput, timings model.RenderTimingsInput, generatedAt string) model.ReportJSON {
	critical, high, medium, low, info := countSeverities(release, ci)
	totalFindings := critical + high + medium + low + info

	return model.ReportJSON{
		RepoPath:     release.RepoPath,
		GeneratedAt:  generatedAt,
		HasFindings:  totalFindings > 0,
		HygieneScore: Score(critical, high, medium, low),
		Summary: model.SummaryJSON{
			TotalFindings: totalFindings,
			Critical:      critical,
			High:          high,
			Medium:        medium,
			Low:           low,
			Info:          info,
		},
		Releases: buildReleaseReport(release),
		CI:       buildCIReport(ci),
		Timings:  mapTimings(timings),
	}
}

// Score computes the 0-100 hygiene score from severity counts.
func Score(critical, high, medium, low int) int {
	score := 100 - critical*15 - high*8 - medium*3 - low
	if score < 0 {
		score = 0
	}
	return score
}

func countSeverities(release model.RenderReleaseInput, ci model.RenderCIInput) (critical, high, medium, low, info int) {
	tally := func(severity string) {
		switch severity {
		case changelog.SeverityCritical:
			critical++
		case changelog.SeverityHigh:
			high++
		case changelog.SeverityMedium:
			medium++
		case changelog.SeverityLow:
			low++
		case changelog.SeverityInfo:
			info++
		}
	}

	for _, i := range release.ChangelogIssues {
		tally(i.Severity)
	}
	for _, i := range release.ReleaseNotesIssues {
		tally(i.Severity)
	}
	for _, d := range release.Discrepancies {
		tally(d.Severity)
	}
	for _, i := range ci.ConfigIssues {
		tally(i.Severity)
	}
	for _, i := range ci.ArtifactIssues {
		tally(i.Severity)
	}

	return
}

func buildReleaseReport(input model.RenderReleaseInput) model.ReleaseReportJSON {
	report := model.ReleaseReportJSON{
		ChangelogPath:     input.ChangelogPath,
		ReleaseNotesPath:  input.ReleaseNotesPath,
		ReleaseNotesCount: len(input.ReleaseNotesEntries),
	}

	for _, e := range input.ChangelogEntries {
		report.ChangelogEntries = append(report.ChangelogEntries, model.ReleaseEntryJSON{
			Version: e.Version,
			Date:    e.Date,
			Changes: e.Changes,
		})
	}

	for _, i := range input.ChangelogIssues {
		report.ChangelogIssues = append(report.ChangelogIssues, model.DocumentIssueJSON{
			File:           i.File,
			Version:        i.Version,
			Line:           i.Line,
			RiskType:       i.RiskType,
			Severity:       i.Severity,
			Description:    i.Description,
			Recommendation: i.Recommendation,
		})
	}

	for _, i := range input.ReleaseNotesIssues {
		report.ReleaseNotesIssues = append(report.ReleaseNotesIssues, model.DocumentIssueJSON{
			File:           i.File,
			Version:        i.Version,
			RiskType:       i.RiskType,
			Severity:       i.Severity,
			Description:    i.Description,
			Recommendation: i.Recommendation,
		})
	}

	for _, d := range input.Discrepancies {
		report.Discrepancies = append(report.Discrepancies, model.DiscrepancyJSON{
			Version:        d.Version,
			RiskType:       d.RiskType,
			Severity:       d.Severity,
			Description:    d.Description,
			Recommendation: d.Recommendation,
		})
	}

	return report
}

func buildCIReport(input model.RenderCIInput) model.CIReportJSON {
	report := model.CIReportJSON{
		ConfigPath: input.ConfigPath,
		MatrixLegs: []string{},
	}

	for _, leg := range input.Legs {
		report.MatrixLegs = append(report.MatrixLegs, leg.Name)
	}

	for _, i := range input.ConfigIssues {
		report.ConfigIssues = append(report.ConfigIssues, model.CIIssueJSON{
			File:           i.File,
			Leg:            i.Leg,
			RiskType:       i.RiskType,
			Severity:       i.Severity,
			Description:    i.Description,
			Recommendation: i.Recommendation,
		})
	}

	for _, a := range input.Artifacts {
		report.Artifacts = append(report.Artifacts, model.ArtifactJSON{
			Path:    a.Path,
			Name:    a.Name,
			Version: a.Version,
			Kind:    a.Kind,
		})
	}

	for _, i := range input.ArtifactIssues {
		report.ArtifactIssues = append(report.ArtifactIssues, model.ArtifactIssueJSON{
			Path:           i.Path,
			RiskType:       i.RiskType,
			Severity:       i.Severity,
			Description:    i.Description,
			Recommendation: i.Recommendation,
		})
	}

	return report
}

func mapTimings(input model.RenderTimingsInput) []model.TimingJSON {
	var result []model.TimingJSON

	for _, lap := range input.Laps {
		result = append(result, model.TimingJSON{
			Check:   lap.Label,
			Seconds: lap.Elapsed.Seconds(),
		})
	}

	return result
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
