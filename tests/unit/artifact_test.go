// Package tests contains unit tests for the artifact validation service.
package tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dthorne/relvet/service/artifact"
	"github.com/dthorne/relvet/shared/vers"
)

// TestExpandParsesPackageNames tests wheel and sdist name parsing
func TestExpandParsesPackageNames(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(repo, "dist"), 0o755))
	for _, name := range []string{
		"douglib-1.0.14-py2.py3-none-any.whl",
		"douglib-1.0.14.tar.gz",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(repo, "dist", name), []byte("x"), 0o644))
	}

	svc := artifact.NewService()
	artifacts, issues, err := svc.Expand(repo, "dist/*")
	require.NoError(t, err)
	require.Len(t, artifacts, 3)

	byKind := map[string]artifact.Artifact{}
	for _, a := range artifacts {
		byKind[a.Kind] = a
	}
	assert.Equal(t, "douglib", byKind["wheel"].Name)
	assert.Equal(t, "1.0.14", byKind["wheel"].Version)
	assert.Equal(t, "douglib", byKind["sdist"].Name)
	assert.Equal(t, "1.0.14", byKind["sdist"].Version)

	require.Len(t, issues, 1)
	assert.Equal(t, "UnparseableArtifactName", issues[0].RiskType)
	assert.Equal(t, artifact.SeverityMedium, issues[0].Severity)
}

// TestExpandEmptyGlobIsFinding tests that a build producing nothing is flagged
func TestExpandEmptyGlobIsFinding(t *testing.T) {
	svc := artifact.NewService()
	artifacts, issues, err := svc.Expand(t.TempDir(), "dist/*")
	require.NoError(t, err)
	assert.Empty(t, artifacts)
	require.Len(t, issues, 1)
	assert.Equal(t, "EmptyArtifactGlob", issues[0].RiskType)
	assert.Equal(t, artifact.SeverityHigh, issues[0].Severity)
}

// TestCheckVersionsAgainstNewestRelease tests version agreement between
// artifacts and the newest released version
func TestCheckVersionsAgainstNewestRelease(t *testing.T) {
	newest, err := vers.Parse("1.0.14")
	require.NoError(t, err)

	artifacts := []artifact.Artifact{
		{Path: "dist/douglib-1.0.14.tar.gz", Name: "douglib", Version: "1.0.14", Kind: "sdist"},
		{Path: "dist/douglib-1.0.13.tar.gz", Name: "douglib", Version: "1.0.13", Kind: "sdist"},
		{Path: "dist/notes.txt", Kind: "other"},
	}

	svc := artifact.NewService()
	issues := svc.CheckVersions(artifacts, newest)
	require.Len(t, issues, 1)
	assert.Equal(t, "ArtifactVersionMismatch", issues[0].RiskType)
	assert.Equal(t, artifact.SeverityHigh, issues[0].Severity)
	assert.Equal(t, "dist/douglib-1.0.13.tar.gz", issues[0].Path)
}
