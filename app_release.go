package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/dthorne/relvet/service/changelog"
	"github.com/dthorne/relvet/service/releaselog"
)

func runReleaseCommand(args []string) error {
	fs := pflag.NewFlagSet("release", pflag.ContinueOnError)
	repo := fs.StringP("repo", "r", ".", "Repository root")
	changelogPath := fs.String("changelog", "", "Changelog path (default <repo>/CHANGELOG.md)")
	releaseNotes := fs.String("release-notes", "", "Release notes path (default <repo>/release-notes.yaml)")
	version := fs.String("version", "", "Version identifier for the new release")
	date := fs.String("date", time.Now().Format("2006-01-02"), "Release date")
	changes := fs.StringArray("change", nil, "Change description (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 || rest[0] != "add" {
		return fmt.Errorf("usage: relvet release add --version X --change \"...\" [--date YYYY-MM-DD]")
	}
	if *version == "" {
		return fmt.Errorf("release add requires --version")
	}

	if *changelogPath == "" {
		*changelogPath = filepath.Join(*repo, "CHANGELOG.md")
	}
	if *releaseNotes == "" {
		*releaseNotes = filepath.Join(*repo, "release-notes.yaml")
	}

	releaselogService := releaselog.NewService(changelog.NewService())
	if err := releaselogService.Append(releaselog.AppendInput{
		ChangelogPath:    *changelogPath,
		ReleaseNotesPath: *releaseNotes,
		Version:          *version,
		Date:             *date,
		Changes:          *changes,
	}); err != nil {
		return fmt.Errorf("failed to record release %s: %w", *version, err)
	}

	fmt.Printf("Recorded release %s (%s) in %s and %s\n", *version, *date, *changelogPath, *releaseNotes)
	return nil
}
