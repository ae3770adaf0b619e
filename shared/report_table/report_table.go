// Package reporttable renders hygiene scan results as console tables.
package reporttable

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dthorne/relvet/model"
	"github.com/dthorne/relvet/service/artifact"
	"github.com/dthorne/relvet/service/changelog"
	"github.com/dthorne/relvet/service/cimatrix"
	"github.com/dthorne/relvet/service/consistency"
	"github.com/dthorne/relvet/service/relnotes"
	"github.com/dthorne/relvet/shared/reldoc"
)

// DrawReleaseTable renders the release document results in formatted tables.
func DrawReleaseTable(input model.RenderReleaseInput) {
	critical, high, medium, low, info := countReleaseSeverities(input)
	totalFindings := critical + high + medium + low + info

	fmt.Println("\n📋 Release Documents")
	if totalFindings == 0 {
		fmt.Println("   " + text.FgGreen.Sprint("✅ No issues found"))
	} else {
		printSeveritySummary(critical, high, medium, low, info)
	}

	if len(input.ChangelogEntries) > 0 {
		drawReleaseHistoryTable(input.ChangelogPath, input.ChangelogEntries)
	}
	if len(input.ChangelogIssues) > 0 {
		drawChangelogIssuesTable(input.ChangelogIssues)
	}
	if len(input.ReleaseNotesIssues) > 0 {
		drawReleaseNotesIssuesTable(input.ReleaseNotesIssues)
	}
	if len(input.Discrepancies) > 0 {
		drawDiscrepancyTable(input.Discrepancies)
	}
}

// DrawCITable renders the CI matrix and artifact results in formatted tables.
func DrawCITable(input model.RenderCIInput) {
	critical, high, medium, low, info := countCISeverities(input)
	totalFindings := critical + high + medium + low + info

	fmt.Println("\n⚙️  CI Build Matrix")
	if totalFindings == 0 {
		fmt.Println("   " + text.FgGreen.Sprint("✅ No issues found"))
	} else {
		printSeveritySummary(critical, high, medium, low, info)
	}

	if len(input.Legs) > 0 {
		drawMatrixTable(input.ConfigPath, input.Legs)
	}
	if len(input.ConfigIssues) > 0 {
		drawConfigIssuesTable(input.ConfigIssues)
	}
	if len(input.Artifacts) > 0 {
		drawArtifactTable(input.Artifacts)
	}
	if len(input.ArtifactIssues) > 0 {
		drawArtifactIssuesTable(input.ArtifactIssues)
	}
}

// DrawTimingsTable renders per-check durations.
func DrawTimingsTable(input model.RenderTimingsInput) {
	if len(input.Laps) == 0 {
		return
	}
	fmt.Println("\n⏱  Check Timings")
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Check", "Elapsed"})
	for _, lap := range input.Laps {
		t.AppendRow(table.Row{lap.Label, lap.Elapsed.Round(time.Microsecond)})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func printSeveritySummary(critical, high, medium, low, info int) {
	fmt.Printf("   ")
	if critical > 0 {
		fmt.Printf("%s ", text.FgRed.Sprintf("🔴 %d Critical", critical))
	}
	if high > 0 {
		fmt.Printf("%s ", text.FgHiRed.Sprintf("🟠 %d High", high))
	}
	if medium > 0 {
		fmt.Printf("%s ", text.FgYellow.Sprintf("🟡 %d Medium", medium))
	}
	if low > 0 {
		fmt.Printf("%s ", text.FgCyan.Sprintf("🔵 %d Low", low))
	}
	if info > 0 {
		fmt.Printf("%s ", text.FgGreen.Sprintf("🟢 %d Info", info))
	}
	fmt.Println()
}

func countReleaseSeverities(input model.RenderReleaseInput) (critical, high, medium, low, info int) {
	for _, i := range input.ChangelogIssues {
		tallySeverity(i.Severity, &critical, &high, &medium, &low, &info)
	}
	for _, i := range input.ReleaseNotesIssues {
		tallySeverity(i.Severity, &critical, &high, &medium, &low, &info)
	}
	for _, d := range input.Discrepancies {
		tallySeverity(d.Severity, &critical, &high, &medium, &low, &info)
	}
	return
}

func countCISeverities(input model.RenderCIInput) (critical, high, medium, low, info int) {
	for _, i := range input.ConfigIssues {
		tallySeverity(i.Severity, &critical, &high, &medium, &low, &info)
	}
	for _, i := range input.ArtifactIssues {
		tallySeverity(i.Severity, &critical, &high, &medium, &low, &info)
	}
	return
}

func tallySeverity(severity string, critical, high, medium, low, info *int) {
	switch severity {
	case changelog.SeverityCritical:
		*critical++
	case changelog.SeverityHigh:
		*high++
	case changelog.SeverityMedium:
		*medium++
	case changelog.SeverityLow:
		*low++
	case changelog.SeverityInfo:
		*info++
	}
}

func drawReleaseHistoryTable(path string, entries []reldoc.Entry) {
	fmt.Println("\n" + text.FgCyan.Sprintf("📜 Release History (%s)", path))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Version", "Date", "Changes", "First Change"})

	for _, e := range entries {
		first := "-"
		if len(e.Changes) > 0 {
			first = truncate(e.Changes[0], 50)
		}
		date := e.Date
		if date == "" {
			date = "-"
		}
		t.AppendRow(table.Row{e.Version, date, len(e.Changes), first})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func drawChangelogIssuesTable(issues []changelog.Issue) {
	fmt.Println("\n" + text.FgRed.Sprint("🚨 Changelog Issues"))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Severity", "Version", "Line", "Risk Type", "Description", "Recommendation"})

	for _, i := range issues {
		lineDisplay := "-"
		if i.Line > 0 {
			lineDisplay = fmt.Sprintf("%d", i.Line)
		}
		versionDisplay := i.Version
		if versionDisplay == "" {
			versionDisplay = "-"
		}
		t.AppendRow(table.Row{
			formatSeverity(i.Severity),
			versionDisplay,
			lineDisplay,
			i.RiskType,
			truncate(i.Description, 50),
			truncate(i.Recommendation, 40),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func drawReleaseNotesIssuesTable(issues []relnotes.Issue) {
	fmt.Println("\n" + text.FgRed.Sprint("🚨 Release Notes Issues"))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Severity", "Version", "Risk Type", "Description", "Recommendation"})

	for _, i := range issues {
		versionDisplay := i.Version
		if versionDisplay == "" {
			versionDisplay = "-"
		}
		t.AppendRow(table.Row{
			formatSeverity(i.Severity),
			versionDisplay,
			i.RiskType,
			truncate(i.Description, 50),
			truncate(i.Recommendation, 40),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func drawDiscrepancyTable(discrepancies []consistency.Discrepancy) {
	fmt.Println("\n" + text.FgYellow.Sprint("⚖️  Document Discrepancies"))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Severity", "Version", "Risk Type", "Description", "Recommendation"})

	for _, d := range discrepancies {
		t.AppendRow(table.Row{
			formatSeverity(d.Severity),
			d.Version,
			d.RiskType,
			truncate(d.Description, 50),
			truncate(d.Recommendation, 40),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func drawMatrixTable(path string, legs []cimatrix.Leg) {
	fmt.Println("\n" + text.FgCyan.Sprintf("🧩 Build Matrix (%s)", path))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Leg", "Environment", "Install Steps", "Test", "Build Steps"})

	for _, leg := range legs {
		var env []string
		for k, v := range leg.Env {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
		testDisplay := leg.Test
		if testDisplay == "" {
			testDisplay = "-"
		}
		t.AppendRow(table.Row{
			leg.Name,
			strings.Join(env, "\n"),
			len(leg.Install),
			truncate(testDisplay, 40),
			len(leg.Build),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func drawConfigIssuesTable(issues []cimatrix.Issue) {
	fmt.Println("\n" + text.FgRed.Sprint("🚨 CI Configuration Issues"))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Severity", "Leg", "Risk Type", "Description", "Recommendation"})

	for _, i := range issues {
		legDisplay := i.Leg
		if legDisplay == "" {
			legDisplay = "-"
		}
		t.AppendRow(table.Row{
			formatSeverity(i.Severity),
			legDisplay,
			i.RiskType,
			truncate(i.Description, 50),
			truncate(i.Recommendation, 40),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func drawArtifactTable(artifacts []artifact.Artifact) {
	fmt.Println("\n" + text.FgCyan.Sprint("📦 Build Artifacts"))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Artifact", "Name", "Version", "Kind"})

	for _, a := range artifacts {
		nameDisplay := a.Name
		if nameDisplay == "" {
			nameDisplay = "-"
		}
		versionDisplay := a.Version
		if versionDisplay == "" {
			versionDisplay = "-"
		}
		t.AppendRow(table.Row{a.Path, nameDisplay, versionDisplay, a.Kind})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func drawArtifactIssuesTable(issues []artifact.Issue) {
	fmt.Println("\n" + text.FgRed.Sprint("🚨 Artifact Issues"))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Severity", "Artifact", "Risk Type", "Description", "Recommendation"})

	for _, i := range issues {
		pathDisplay := i.Path
		if pathDisplay == "" {
			pathDisplay = "-"
		}
		t.AppendRow(table.Row{
			formatSeverity(i.Severity),
			pathDisplay,
			i.RiskType,
			truncate(i.Description, 50),
			truncate(i.Recommendation, 40),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func formatSeverity(severity string) string {
	switch severity {
	case changelog.SeverityCritical:
		return text.FgRed.Sprint("🔴 CRITICAL")
	case changelog.SeverityHigh:
		return text.FgHiRed.Sprint("🟠 HIGH")
	case changelog.SeverityMedium:
		return text.FgYellow.Sprint("🟡 MEDIUM")
	case changelog.SeverityLow:
		return text.FgCyan.Sprint("🔵 LOW")
	case changelog.SeverityInfo:
		return text.FgGreen.Sprint("🟢 INFO")
	default:
		return severity
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	return s[:maxLen-3] + "..."
}
