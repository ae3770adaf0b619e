package main

import (
	"fmt"

	"github.com/dthorne/relvet/model"
	"github.com/dthorne/relvet/service/artifact"
	"github.com/dthorne/relvet/service/changelog"
	"github.com/dthorne/relvet/service/cimatrix"
	"github.com/dthorne/relvet/service/consistency"
	"github.com/dthorne/relvet/service/orchestrator"
	"github.com/dthorne/relvet/service/output"
	"github.com/dthorne/relvet/service/relnotes"
	"github.com/dthorne/relvet/service/storage"
	"github.com/dthorne/relvet/shared/spinner"
)

func runScan(flags model.Flags, versionInfo model.VersionInfo, storageService storage.Service) error {
	if flags.Output != "json" {
		spinner.StartSpinner()
		defer spinner.StopSpinner()
	}

	changelogService := changelog.NewService()
	relnotesService := relnotes.NewService()
	consistencyService := consistency.NewService()
	cimatrixService := cimatrix.NewService()
	artifactService := artifact.NewService()
	outputService := output.NewService(flags.Output)

	orchestratorService := orchestrator.NewService(
		changelogService,
		relnotesService,
		consistencyService,
		cimatrixService,
		artifactService,
		outputService,
		versionInfo,
		storageService,
	)

	if err := orchestratorService.Orchestrate(flags); err != nil {
		return fmt.Errorf("hygiene scan failed for %s: %w", flags.Repo, err)
	}
	return nil
}
