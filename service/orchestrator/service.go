// Package orchestrator coordinates the execution of hygiene checks.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dthorne/relvet/model"
	"github.com/dthorne/relvet/service/artifact"
	"github.com/dthorne/relvet/service/changelog"
	"github.com/dthorne/relvet/service/cimatrix"
	"github.com/dthorne/relvet/service/consistency"
	"github.com/dthorne/relvet/service/output"
	"github.com/dthorne/relvet/service/relnotes"
	"github.com/dthorne/relvet/service/storage"
	"github.com/dthorne/relvet/shared/reldoc"
	"github.com/dthorne/relvet/shared/timing"
)

// NewService creates a new orchestrator service.
func NewService(
	changelogService changelog.Service,
	relnotesService relnotes.Service,
	consistencyService consistency.Service,
	cimatrixService cimatrix.Service,
	artifactService artifact.Service,
	outputService output.Service,
	versionInfo model.VersionInfo,
	// Historical storage
	storageService storage.Service,
) Service {
	return &service{
		changelogService:   changelogService,
		relnotesService:    relnotesService,
		consistencyService: consistencyService,
		cimatrixService:    cimatrixService,
		artifactService:    artifactService,
		outputService:      outputService,
		versionInfo:        versionInfo,
		storageService:     storageService,
	}
}

func (s *service) Orchestrate(flags model.Flags) error {
	startedAt := time.Now()
	scanCtx := context.Background()
	g, _ := errgroup.WithContext(scanCtx)

	var recorder timing.Recorder

	// Changelog results
	var (
		changelogEntries []reldoc.Entry
		changelogIssues  []changelog.Issue
	)

	// Release notes results
	var (
		releaseNotesEntries []reldoc.Entry
		releaseNotesIssues  []relnotes.Issue
	)

	// CI configuration results
	var ciConfig *cimatrix.Config

	g.Go(func() error {
		var err error
		recorder.Time("changelog", func() {
			var entries []reldoc.Entry
			var issues []changelog.Issue
			entries, issues, err = s.changelogService.ParseFile(flags.Changelog)
			if errors.Is(err, fs.ErrNotExist) {
				issues = append(issues, missingChangelogIssue(flags.Changelog))
				err = nil
			}
			changelogEntries = entries
			changelogIssues = append(issues, s.changelogService.CheckOrdering(flags.Changelog, entries)...)
		})
		return err
	})
	g.Go(func() error {
		var err error
		recorder.Time("release-notes", func() {
			releaseNotesEntries, releaseNotesIssues, err = s.relnotesService.ParseFile(flags.ReleaseNotes)
			if errors.Is(err, fs.ErrNotExist) {
				releaseNotesIssues = append(releaseNotesIssues, missingReleaseNotesIssue(flags.ReleaseNotes))
				err = nil
			}
		})
		return err
	})
	g.Go(func() error {
		var err error
		recorder.Time("ci-config", func() {
			ciConfig, err = s.cimatrixService.ParseFile(flags.CIConfig)
			if errors.Is(err, fs.ErrNotExist) {
				ciConfig = nil
				err = nil
			}
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	// Cross-document checks need both parses.
	var discrepancies []consistency.Discrepancy
	recorder.Time("consistency", func() {
		discrepancies = s.consistencyService.CrossCheck(consistency.Input{
			ChangelogPath:    flags.Changelog,
			ReleaseNotesPath: flags.ReleaseNotes,
			Changelog:        changelogEntries,
			ReleaseNotes:     releaseNotesEntries,
		})
	})

	var (
		ciIssues       []cimatrix.Issue
		artifacts      []artifact.Artifact
		artifactIssues []artifact.Issue
		legs           []cimatrix.Leg
	)
	if ciConfig != nil {
		legs = ciConfig.Matrix
		recorder.Time("ci-matrix", func() {
			ciIssues = s.cimatrixService.Check(flags.CIConfig, ciConfig)
		})
		recorder.Time("artifacts", func() {
			artifacts, artifactIssues = s.validateArtifacts(flags, ciConfig, changelogEntries)
		})
	} else {
		ciIssues = append(ciIssues, missingCIConfigIssue(flags.CIConfig))
	}

	s.outputService.StopSpinner()

	releaseInput := model.RenderReleaseInput{
		RepoPath:            flags.Repo,
		ChangelogPath:       flags.Changelog,
		ReleaseNotesPath:    flags.ReleaseNotes,
		ChangelogEntries:    changelogEntries,
		ReleaseNotesEntries: releaseNotesEntries,
		ChangelogIssues:     changelogIssues,
		ReleaseNotesIssues:  releaseNotesIssues,
		Discrepancies:       discrepancies,
	}
	ciInput := model.RenderCIInput{
		ConfigPath:     flags.CIConfig,
		Legs:           legs,
		ConfigIssues:   ciIssues,
		Artifacts:      artifacts,
		ArtifactIssues: artifactIssues,
	}
	timingsInput := model.RenderTimingsInput{}
	if flags.Timings {
		timingsInput.Laps = recorder.Laps()
	}

	if flags.Output == "table" {
		green := "\033[38;2;30;215;96m"
		reset := "\033[0m"
		fmt.Printf("\n%s🧹 relvet v%s - Release Hygiene Report - Repo: %s%s\n", green, s.versionInfo.Version, flags.Repo, reset)
	}

	if err := s.outputService.RenderReport(releaseInput, ciInput, timingsInput); err != nil {
		return err
	}

	if err := s.persistScanIfEnabled(scanCtx, flags, time.Since(startedAt), releaseInput, ciInput); err != nil {
		return fmt.Errorf("failed to persist scan: %w", err)
	}

	if flags.Strict && hasBlockingFindings(releaseInput, ciInput) {
		return ErrStrictFindings
	}

	return nil
}

// validateArtifacts expands the configured artifact glob and checks each
// matched package name against the newest changelog version. A --dist
// override points at the directory that holds the packages, so only the
// glob's file pattern is matched inside it.
func (s *service) validateArtifacts(flags model.Flags, cfg *cimatrix.Config, entries []reldoc.Entry) ([]artifact.Artifact, []artifact.Issue) {
	if cfg.Artifacts == "" {
		return nil, nil
	}

	root := flags.Repo
	pattern := cfg.Artifacts
	if flags.DistDir != "" {
		root = flags.DistDir
		pattern = path.Base(strings.ReplaceAll(strings.TrimSpace(cfg.Artifacts), `\`, "/"))
	}

	artifacts, issues, err := s.artifactService.Expand(root, pattern)
	if err != nil {
		issues = append(issues, artifact.Issue{
			Path:           cfg.Artifacts,
			RiskType:       "ArtifactGlobError",
			Severity:       artifact.SeverityHigh,
			Description:    fmt.Sprintf("Artifact glob %s could not be expanded: %v", cfg.Artifacts, err),
			Recommendation: "Fix the artifact glob so it is a valid pattern",
		})
		return nil, issues
	}

	if newest, ok := reldoc.Newest(entries); ok {
		if v, err := newest.ParseVersion(); err == nil {
			issues = append(issues, s.artifactService.CheckVersions(artifacts, v)...)
		}
	}

	return artifacts, issues
}

func missingChangelogIssue(path string) changelog.Issue {
	return changelog.Issue{
		File:           path,
		RiskType:       "MissingDocument",
		Severity:       changelog.SeverityHigh,
		Description:    fmt.Sprintf("Changelog %s does not exist", path),
		Recommendation: "Create the changelog and record every published release in it",
	}
}

func missingReleaseNotesIssue(path string) relnotes.Issue {
	return relnotes.Issue{
		File:           path,
		RiskType:       "MissingDocument",
		Severity:       relnotes.SeverityHigh,
		Description:    fmt.Sprintf("Release notes document %s does not exist", path),
		Recommendation: "Create the release notes document alongside the changelog",
	}
}

func missingCIConfigIssue(path string) cimatrix.Issue {
	return cimatrix.Issue{
		File:           path,
		RiskType:       "MissingConfig",
		Severity:       cimatrix.SeverityHigh,
		Description:    fmt.Sprintf("CI configuration %s does not exist", path),
		Recommendation: "Add a CI configuration with a build matrix, test command, and artifact glob",
	}
}

func hasBlockingFindings(release model.RenderReleaseInput, ci model.RenderCIInput) bool {
	blocking := func(severity string) bool {
		return severity == changelog.SeverityCritical || severity == changelog.SeverityHigh
	}

	for _, i := range release.ChangelogIssues {
		if blocking(i.Severity) {
			return true
		}
	}
	for _, i := range release.ReleaseNotesIssues {
		if blocking(i.Severity) {
			return true
		}
	}
	for _, d := range release.Discrepancies {
		if blocking(d.Severity) {
			return true
		}
	}
	for _, i := range ci.ConfigIssues {
		if blocking(i.Severity) {
			return true
		}
	}
	for _, i := range ci.ArtifactIssues {
		if blocking(i.Severity) {
			return true
		}
	}

	return false
}
