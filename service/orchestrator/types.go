package orchestrator

import (
	"errors"

	"github.com/dthorne/relvet/model"
	"github.com/dthorne/relvet/service/artifact"
	"github.com/dthorne/relvet/service/changelog"
	"github.com/dthorne/relvet/service/cimatrix"
	"github.com/dthorne/relvet/service/consistency"
	"github.com/dthorne/relvet/service/output"
	"github.com/dthorne/relvet/service/relnotes"
	"github.com/dthorne/relvet/service/storage"
)

// ErrStrictFindings is returned from Orchestrate when strict mode is enabled
// and the scan produced findings at HIGH severity or above.
var ErrStrictFindings = errors.New("hygiene findings at or above HIGH severity")

type service struct {
	changelogService   changelog.Service
	relnotesService    relnotes.Service
	consistencyService consistency.Service
	cimatrixService    cimatrix.Service
	artifactService    artifact.Service
	outputService      output.Service
	storageService     storage.Service
	versionInfo        model.VersionInfo
}

// Service is the interface for orchestrator service.
type Service interface {
	Orchestrate(flags model.Flags) error
}
