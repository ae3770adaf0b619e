// Package flag parses the command line surface of the scanner.
package flag

import (
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/dthorne/relvet/model"
)

// NewService creates a new flag service.
func NewService() Service {
	return &service{}
}

// GetParsedFlags parses and returns the command-line flags. Document paths
// default to their conventional locations under the repository root.
func (s *service) GetParsedFlags() (model.Flags, error) {
	repo := pflag.StringP("repo", "r", ".", "Repository root to scan")
	changelogPath := pflag.String("changelog", "", "Changelog path (default <repo>/CHANGELOG.md)")
	releaseNotes := pflag.String("release-notes", "", "Release notes path (default <repo>/release-notes.yaml)")
	ciConfig := pflag.String("ci-config", "", "CI matrix config path (default <repo>/ci.yaml)")
	distDir := pflag.String("dist", "", "Package output directory override for artifact checks")
	version := pflag.BoolP("version", "v", false, "Show version information")
	output := pflag.StringP("output", "o", "table", "Output format (table or json)")
	store := pflag.Bool("store", false, "Persist scan results in local SQLite database")
	dbPath := pflag.String("db-path", "", "Custom SQLite database path (default ~/.relvet/history.db)")
	trends := pflag.Bool("trends", false, "Show historical trends from stored scans")
	trendDays := pflag.Int("trend-days", 30, "Number of days for trend analysis")
	compare := pflag.Bool("compare", false, "Compare two most recent scans")
	exportJSON := pflag.String("export-json", "", "Export trend output as JSON to file path")
	exportCSV := pflag.String("export-csv", "", "Export trend output as CSV to file path")
	timings := pflag.Bool("timings", false, "Report per-check durations")
	checks := pflag.Bool("checks", false, "Print the check catalog and exit")
	strict := pflag.Bool("strict", false, "Exit non-zero when findings of HIGH or above exist")

	pflag.Parse()

	flags := model.Flags{
		Repo:         *repo,
		Changelog:    *changelogPath,
		ReleaseNotes: *releaseNotes,
		CIConfig:     *ciConfig,
		DistDir:      *distDir,
		Version:      *version,
		Output:       *output,
		Store:        *store,
		DBPath:       *dbPath,
		Trends:       *trends,
		TrendDays:    *trendDays,
		Compare:      *compare,
		ExportJSON:   *exportJSON,
		ExportCSV:    *exportCSV,
		Timings:      *timings,
		Checks:       *checks,
		Strict:       *strict,
	}

	if flags.Changelog == "" {
		flags.Changelog = filepath.Join(flags.Repo, "CHANGELOG.md")
	}
	if flags.ReleaseNotes == "" {
		flags.ReleaseNotes = filepath.Join(flags.Repo, "release-notes.yaml")
	}
	if flags.CIConfig == "" {
		flags.CIConfig = filepath.Join(flags.Repo, "ci.yaml")
	}

	return flags, nil
}
