// Package main is the entry point for the relvet application.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dthorne/relvet/model"
	"github.com/dthorne/relvet/service/flag"
	"github.com/dthorne/relvet/service/storage"
	"github.com/dthorne/relvet/shared/banner"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "release":
			return runReleaseCommand(os.Args[2:])
		case "db", "history", "dashboard":
			return runStorageCommand(os.Args[1], os.Args[2:])
		}
	}

	flagService := flag.NewService()
	flags, err := flagService.GetParsedFlags()
	if err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	versionInfo := model.VersionInfo{Version: version, Commit: commit, Date: date}

	if flags.Checks {
		return printRequestedDocs(flags)
	}

	if flags.Version {
		fmt.Printf("relvet version %s\n", versionInfo.Version)
		fmt.Printf("commit: %s\n", versionInfo.Commit)
		fmt.Printf("built at: %s\n", versionInfo.Date)
		return nil
	}

	if flags.Output != "json" {
		banner.DrawBannerTitle()
	}

	var storageService storage.Service
	if flags.Store || flags.Trends || flags.Compare || flags.ExportJSON != "" || flags.ExportCSV != "" {
		storageService, err = storage.NewService(flags.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer storageService.Close()
	}

	if flags.Trends {
		if storageService == nil {
			return fmt.Errorf("--trends requires initialized storage")
		}
		return runTrendWorkflow(storageService, trendOptions{
			TrendDays:  flags.TrendDays,
			Compare:    flags.Compare,
			ExportJSON: flags.ExportJSON,
			ExportCSV:  flags.ExportCSV,
			RepoPath:   flags.Repo,
		})
	}

	return runScan(flags, versionInfo, storageService)
}

func printRequestedDocs(flags model.Flags) error {
	const path = "docs/CHECKS.md"

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("--checks failed: unable to read %s: %w", path, err)
	}
	text := strings.TrimSpace(string(content))
	if text == "" {
		return fmt.Errorf("--checks failed: %s is empty", path)
	}
	fmt.Println(text)

	return nil
}
